// Package logos reads company logo bytes from disk or S3.
package logos

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/mamadbah2/wagebook/internal/repository"
)

// maxLogoBytes caps what is read for a single logo.
const maxLogoBytes = 8 << 20

// ErrInvalidKey is returned for keys that would escape the store root.
var ErrInvalidKey = errors.New("invalid logo key")

// Store returns the raw bytes of a stored logo.
type Store interface {
	Open(ctx context.Context, key string) ([]byte, error)
}

// cleanKey normalises the stored logo reference ("uploads/a.png", "/a.png")
// to a slash separated key relative to the store root.
func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	key = strings.TrimPrefix(key, "/")
	key = strings.TrimPrefix(key, "uploads/")
	if key == "" {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if !filepath.IsLocal(filepath.FromSlash(cleaned)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return cleaned, nil
}

// DiskStore reads logos below a directory.
type DiskStore struct {
	root string
}

// NewDiskStore returns a store rooted at dir.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{root: dir}
}

// Open reads the logo named by key.
func (s *DiskStore) Open(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rel, err := cleanKey(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open logo %s: %w", rel, err)
	}
	defer f.Close()

	return readLimited(f, rel)
}

// S3Store reads logos from a bucket.
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store loads the default AWS configuration and returns a store for bucket.
func NewS3Store(ctx context.Context, bucket string) (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &S3Store{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// Open fetches the object named by key.
func (s *S3Store) Open(ctx context.Context, key string) ([]byte, error) {
	rel, err := cleanKey(key)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(rel),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get object %s from bucket %s: %w", rel, s.bucket, err)
	}
	defer resp.Body.Close()

	return readLimited(resp.Body, rel)
}

func readLimited(r io.Reader, name string) ([]byte, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, maxLogoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read logo %s: %w", name, err)
	}
	if n > maxLogoBytes {
		return nil, fmt.Errorf("logo %s exceeds %d bytes", name, maxLogoBytes)
	}
	return buf.Bytes(), nil
}
