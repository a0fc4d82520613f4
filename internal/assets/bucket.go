package assets

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/garnizeh/weboff/internal/config"
)

// BucketLister lists image objects directly under a prefix of an S3-compatible bucket.
type BucketLister struct {
	client *minio.Client
	bucket string
	prefix string
}

func NewBucketLister(cfg config.S3Config) (*BucketLister, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &BucketLister{client: client, bucket: bucket, prefix: normalizePrefix(cfg.Prefix)}, nil
}

func normalizePrefix(p string) string {
	p = strings.TrimLeft(strings.TrimSpace(p), "/")
	if p != "" && !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

func (l *BucketLister) List(ctx context.Context) ([]string, error) {
	objects := l.client.ListObjects(ctx, l.bucket, minio.ListObjectsOptions{
		Prefix:    l.prefix,
		Recursive: false,
	})

	var files []string
	for obj := range objects {
		if obj.Err != nil {
			return nil, fmt.Errorf("list %s/%s: %w", l.bucket, l.prefix, obj.Err)
		}
		// non-recursive listings report sub-folders as keys ending in "/"
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		name := path.Base(obj.Key)
		if IsImage(name) {
			files = append(files, name)
		}
	}
	sort.Strings(files)
	if files == nil {
		files = []string{}
	}
	return files, nil
}
