package blob

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanKey(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"/favicon.ico", "favicon.ico", true},
		{"/img//logo.png", "img/logo.png", true},
		{"/img/./logo.png", "img/logo.png", true},
		{"/", "", false},
		{"", "", false},
		{"/../secret", "", false},
		{"/img/../../secret", "", false},
		{"/a\\b", "", false},
	}
	for _, tt := range tests {
		got, ok := CleanKey(tt.in)
		assert.Equal(t, tt.wantOK, ok, "CleanKey(%q)", tt.in)
		assert.Equal(t, tt.want, got, "CleanKey(%q)", tt.in)
	}
}

func TestContentType(t *testing.T) {
	assert.True(t, strings.HasPrefix(ContentType("a.css", nil), "text/css"))
	assert.True(t, strings.HasPrefix(ContentType("a.html", nil), "text/html"))
	assert.Equal(t, "image/png", ContentType("no-extension", []byte("\x89PNG\r\n\x1a\n0000")))
	assert.True(t, strings.HasPrefix(ContentType("README", []byte("plain words")), "text/plain"))
}

func TestNewDefaultStore(t *testing.T) {
	store, err := NewDefaultStore(context.Background(), nil)
	require.NoError(t, err)
	assert.IsType(t, &FilesystemStore{}, store)

	store, err = NewDefaultStore(context.Background(), &Config{Driver: "filesystem", Directory: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FilesystemStore{}, store)

	_, err = NewDefaultStore(context.Background(), &Config{Driver: "s3"})
	assert.Error(t, err)

	_, err = NewDefaultStore(context.Background(), &Config{Driver: "ftp"})
	assert.Error(t, err)
}

type failingPutter struct{ after int }

func (f *failingPutter) Put(ctx context.Context, data []byte, mime, key string) (string, error) {
	if f.after == 0 {
		return "", errors.New("disk full")
	}
	f.after--
	return "mem://" + key, nil
}

func TestPublish(t *testing.T) {
	src := fstest.MapFS{
		"favicon.ico":      &fstest.MapFile{Data: []byte{0, 0, 1, 0}},
		"css/site.css":     &fstest.MapFile{Data: []byte("body{}")},
		"img/nested/a.svg": &fstest.MapFile{Data: []byte("<svg/>")},
	}
	fake := newFakeS3()
	n, err := Publish(context.Background(), src, newS3Store(fake, "b", "r", "public"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Contains(t, fake.data, "public/css/site.css")
	assert.Contains(t, fake.data, "public/img/nested/a.svg")
	assert.True(t, strings.HasPrefix(*fake.objects["public/css/site.css"].ContentType, "text/css"))

	n, err = Publish(context.Background(), src, &failingPutter{after: 1})
	assert.Error(t, err)
	assert.Equal(t, 1, n)
}
