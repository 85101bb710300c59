package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/awantoch/sitefn/utils"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// s3API is the subset of *s3.Client the store uses.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store implements Store and Putter using AWS S3. Keys are stored under
// an optional prefix.
type S3Store struct {
	client s3API
	bucket string
	region string
	prefix string
}

// NewS3Store creates a new S3Store using the default AWS credential chain.
func NewS3Store(ctx context.Context, bucket, region, prefix string) (*S3Store, error) {
	if bucket == "" || region == "" {
		return nil, utils.Errorf("bucket and region must be non-empty")
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return newS3Store(s3.NewFromConfig(cfg), bucket, region, prefix), nil
}

func newS3Store(client s3API, bucket, region, prefix string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		region: region,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (s *S3Store) objectKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}

// Get downloads the object stored under key.
func (s *S3Store) Get(ctx context.Context, key string) (*Object, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	obj := &Object{Data: data, ContentType: aws.ToString(resp.ContentType)}
	if obj.ContentType == "" {
		obj.ContentType = ContentType(key, data)
	}
	if resp.LastModified != nil {
		obj.ModTime = *resp.LastModified
	}
	return obj, nil
}

// Put uploads data to S3 and returns its URL.
func (s *S3Store) Put(ctx context.Context, data []byte, mime, key string) (string, error) {
	objectKey := s.objectKey(key)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mime),
		ACL:         types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, objectKey), nil
}
