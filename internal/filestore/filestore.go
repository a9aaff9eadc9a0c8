// Package filestore stores decoded recipe images behind a backend-neutral
// interface: a local volume for single-node deployments, or an
// S3-compatible bucket.
package filestore

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/minio/minio-go/v7"

	"platefeed/internal/fileserver"
)

const recipesDir = "recipes"

// MediaStore writes and removes recipe images. WriteRecipeImage returns the
// URL path the image is served under.
type MediaStore interface {
	WriteRecipeImage(ctx context.Context, recipeID int64, suffix string, data []byte) (urlPath string, err error)
	Remove(ctx context.Context, urlPath string) error
}

func recipeImagePath(recipeID int64, suffix string) string {
	return path.Join(recipesDir, strconv.FormatInt(recipeID, 10), "image"+suffix)
}

// Local serves media from a directory on the volume, fronted by the
// reverse proxy under urlPrefix.
type Local struct {
	urlPrefix string
	fs        *fileserver.FileServer
}

var _ MediaStore = (*Local)(nil)

func NewLocal(baseDirectory, urlPrefix string) *Local {
	return &Local{
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		fs:        fileserver.New(baseDirectory),
	}
}

func (l *Local) WriteRecipeImage(_ context.Context, recipeID int64, suffix string, data []byte) (string, error) {
	p := recipeImagePath(recipeID, suffix)
	if _, err := l.fs.Write(p, data); err != nil {
		return "", err
	}
	return l.urlPrefix + "/" + p, nil
}

func (l *Local) Remove(_ context.Context, urlPath string) error {
	p, ok := strings.CutPrefix(urlPath, l.urlPrefix+"/")
	if !ok {
		return fmt.Errorf("url path %q not under %q", urlPath, l.urlPrefix)
	}
	return l.fs.Delete(p)
}

// S3 stores media in an S3-compatible bucket via minio.
type S3 struct {
	client    *minio.Client
	bucket    string
	urlPrefix string
}

var _ MediaStore = (*S3)(nil)

func NewS3(client *minio.Client, bucket, urlPrefix string) *S3 {
	return &S3{
		client:    client,
		bucket:    bucket,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
	}
}

// EnsureBucket creates the bucket if it does not exist yet.
func (s *S3) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("creating bucket: %w", err)
	}
	return nil
}

func (s *S3) WriteRecipeImage(ctx context.Context, recipeID int64, suffix string, data []byte) (string, error) {
	p := recipeImagePath(recipeID, suffix)
	_, err := s.client.PutObject(ctx, s.bucket, p,
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("uploading image: %w", err)
	}
	return s.urlPrefix + "/" + p, nil
}

func (s *S3) Remove(ctx context.Context, urlPath string) error {
	p, ok := strings.CutPrefix(urlPath, s.urlPrefix+"/")
	if !ok {
		return fmt.Errorf("url path %q not under %q", urlPath, s.urlPrefix)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, p, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("removing image: %w", err)
	}
	return nil
}
