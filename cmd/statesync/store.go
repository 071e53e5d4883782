package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"
	"github.com/vango-dev/statesync/internal/demo"
)

// storeFlags selects where the developer mode flag is persisted.
type storeFlags struct {
	kind     string
	bucket   string
	key      string
	region   string
	endpoint string
	initial  bool
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "store", "memory", "Flag store (memory, s3)")
	cmd.Flags().StringVar(&f.bucket, "bucket", "", "S3 bucket for --store=s3")
	cmd.Flags().StringVar(&f.key, "key", "flags/developer-mode", "S3 object key for --store=s3")
	cmd.Flags().StringVar(&f.region, "region", envOr("AWS_REGION", "us-east-1"), "S3 region")
	cmd.Flags().StringVar(&f.endpoint, "endpoint", "", "S3 endpoint override (path-style, e.g. MinIO)")
	cmd.Flags().BoolVar(&f.initial, "initial", false, "Initial value for --store=memory")
}

func (f *storeFlags) open(ctx context.Context) (demo.FlagStore, error) {
	switch f.kind {
	case "memory":
		return demo.NewMemoryStore(f.initial), nil
	case "s3":
		if f.bucket == "" {
			return nil, fmt.Errorf("--bucket is required with --store=s3")
		}
		client, err := newS3Client(ctx, f.region, f.endpoint)
		if err != nil {
			return nil, err
		}
		return demo.NewS3Store(client, f.bucket, f.key), nil
	default:
		return nil, fmt.Errorf("unknown store %q", f.kind)
	}
}

// newS3Client builds a client from the default AWS configuration chain
// (environment, shared config and credentials files, SSO, instance role).
// A non-empty endpoint switches to path-style addressing for S3-compatible
// servers such as MinIO.
func newS3Client(ctx context.Context, region, endpoint string) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
