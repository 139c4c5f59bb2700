package s3

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
)

// ObjectStore is the subset of Client the Publisher needs.
type ObjectStore interface {
	EnsureBucket(ctx context.Context, bucketName string) error
	ListObjects(ctx context.Context, bucketName, prefix string) ([]string, error)
	PutObject(ctx context.Context, bucketName, key string, data []byte) error
	DeleteObjects(ctx context.Context, bucketName string, keys []string) error
}

// Publisher mirrors a local artifact directory into a bucket prefix.
type Publisher struct {
	store  ObjectStore
	bucket string
	prefix string

	// Skip lists directory names, relative to the published root, that are
	// never uploaded.
	Skip []string
}

// NewPublisher creates a Publisher writing under prefix in bucket.
// The "ssh" directory is skipped so private keys never leave the host.
func NewPublisher(store ObjectStore, bucket, prefix string) *Publisher {
	return &Publisher{
		store:  store,
		bucket: bucket,
		prefix: prefix,
		Skip:   []string{"ssh"},
	}
}

// Publish uploads every file under dir and deletes objects under the prefix
// that no longer exist locally. It returns the uploaded keys in sorted order.
func (p *Publisher) Publish(ctx context.Context, dir string) ([]string, error) {
	if err := p.store.EnsureBucket(ctx, p.bucket); err != nil {
		return nil, err
	}

	files, err := p.collect(dir)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(files))
	for _, rel := range files {
		data, err := os.ReadFile(filepath.Join(dir, rel))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", rel, err)
		}
		key := p.key(rel)
		if err := p.store.PutObject(ctx, p.bucket, key, data); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	existing, err := p.store.ListObjects(ctx, p.bucket, p.prefix+"/")
	if err != nil {
		return nil, err
	}
	var stale []string
	for _, key := range existing {
		if _, found := slices.BinarySearch(keys, key); !found {
			stale = append(stale, key)
		}
	}
	if len(stale) > 0 {
		if err := p.store.DeleteObjects(ctx, p.bucket, stale); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// collect returns slash-separated relative paths of regular files, sorted.
func (p *Publisher) collect(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(full string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, full)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if slices.Contains(p.Skip, rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	slices.Sort(files)
	return files, nil
}

func (p *Publisher) key(rel string) string {
	return path.Join(p.prefix, rel)
}
