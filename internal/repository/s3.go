// SPDX-License-Identifier: MPL-2.0

package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/tilekit/tilekit/pkg/coord"
)

const defaultRegion = "us-east-1"

type (
	// S3Config configures an S3-compatible remote repository.
	S3Config struct {
		Endpoint  string
		Region    string
		AccessKey string
		SecretKey string
		Bucket    string
		// Prefix is prepended to every object key, e.g. "maven/releases".
		Prefix string
		UseSSL bool
	}

	// S3 is a repository stored in an S3-compatible bucket using the same layout as Local.
	S3 struct {
		client   *minio.Client
		bucket   string
		region   string
		prefix   string
		initOnce sync.Once
		initErr  error
	}
)

// NewS3 creates an S3 repository client. No request is made until first use.
func NewS3(cfg S3Config) (*S3, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = defaultRegion
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &S3{
		client: client,
		bucket: bucket,
		region: region,
		prefix: strings.Trim(strings.TrimSpace(cfg.Prefix), "/"),
	}, nil
}

func (s *S3) String() string {
	if s.prefix == "" {
		return "s3://" + s.bucket
	}
	return "s3://" + s.bucket + "/" + s.prefix
}

func (s *S3) key(p string) string {
	if s.prefix == "" {
		return p
	}
	return s.prefix + "/" + p
}

func (s *S3) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

// Versions lists the version "directories" below group:artifact.
func (s *S3) Versions(ctx context.Context, group, artifact string) ([]string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}

	prefix := s.key(ArtifactDir(group, artifact)) + "/"
	var versions []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list versions of %s:%s: %w", group, artifact, obj.Err)
		}
		// Common prefixes are reported with a trailing slash.
		if v, ok := strings.CutSuffix(strings.TrimPrefix(obj.Key, prefix), "/"); ok && v != "" {
			versions = append(versions, v)
		}
	}
	return versions, nil
}

// Fetch downloads the object for c.
func (s *S3) Fetch(ctx context.Context, c coord.Coordinate) (*Artifact, error) {
	if err := validateCoordinate(c); err != nil {
		return nil, err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}

	key := s.key(ArtifactPath(c))
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.fetchError(c, err)
	}
	defer func() { _ = obj.Close() }()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.fetchError(c, err)
	}
	return &Artifact{Coordinate: c, Data: data, Location: "s3://" + s.bucket + "/" + key}, nil
}

func (s *S3) fetchError(c coord.Coordinate, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
		return &NotFoundError{Coordinate: c, Repository: s.String()}
	}
	return fmt.Errorf("failed to download %s: %w", c, err)
}

// Install uploads data under the layout key of c.
func (s *S3) Install(ctx context.Context, c coord.Coordinate, data []byte) (string, error) {
	if err := validateCoordinate(c); err != nil {
		return "", err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	key := s.key(ArtifactPath(c))
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType(c.Type),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", c, err)
	}
	return "s3://" + s.bucket + "/" + key, nil
}

func contentType(artifactType string) string {
	switch artifactType {
	case coord.DefaultType, coord.DescriptorType:
		return "application/xml"
	default:
		return "application/octet-stream"
	}
}
