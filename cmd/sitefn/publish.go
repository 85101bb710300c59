package main

import (
	"os"
	"path/filepath"

	"github.com/awantoch/sitefn/blob"
	"github.com/awantoch/sitefn/site"
	"github.com/awantoch/sitefn/utils"
	"github.com/spf13/cobra"
)

// newPublishCmd creates the 'publish' subcommand.
func newPublishCmd() *cobra.Command {
	var bucket, region, prefix, out string
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the site's public assets to S3 (or copy them to --out)",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				utils.Error("config: %v", err)
				exit(1)
				return
			}
			if bucket == "" {
				bucket = cfg.Assets.Bucket
			}
			if region == "" {
				region = cfg.Assets.Region
			}
			if prefix == "" {
				prefix = cfg.Assets.Prefix
			}

			siteConf, err := site.LoadConfig(os.DirFS(cfg.Site.Dir))
			if err != nil {
				utils.Error("%v", err)
				exit(1)
				return
			}

			var dst blob.Putter
			if out != "" {
				dst = blob.NewFilesystemStore(out)
			} else {
				s3, err := blob.NewS3Store(ctx, bucket, region, prefix)
				if err != nil {
					utils.Error("%v", err)
					exit(1)
					return
				}
				dst = s3
			}

			publicDir := filepath.Join(cfg.Site.Dir, siteConf.PublicDir)
			n, err := blob.Publish(ctx, os.DirFS(publicDir), dst)
			if err != nil {
				utils.Error("publish failed after %d files: %v", n, err)
				exit(1)
				return
			}
			utils.User("Published %d files from %s", n, publicDir)
		},
	}
	cmd.Flags().StringVar(&bucket, "bucket", "", "S3 bucket (default from config)")
	cmd.Flags().StringVar(&region, "region", "", "S3 region (default from config)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix inside the bucket")
	cmd.Flags().StringVar(&out, "out", "", "Copy to this directory instead of S3")
	return cmd
}
