package lore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"lore-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ObjectStore keeps records in a bucket using the FSStore layout under prefix.
type ObjectStore struct {
	client storage.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// NewObjectStore creates a bucket backed store.
func NewObjectStore(client storage.Client, bucket, prefix string, logger *zap.Logger) *ObjectStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ObjectStore{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logger,
	}
}

func (s *ObjectStore) key(parts ...string) string {
	if s.prefix != "" {
		parts = append([]string{s.prefix}, parts...)
	}
	return path.Join(parts...)
}

func (s *ObjectStore) list(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", prefix, obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *ObjectStore) get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

func (s *ObjectStore) put(ctx context.Context, key string, v any) error {
	data, err := Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

// ReadCategory loads every record object of c.
func (s *ObjectStore) ReadCategory(ctx context.Context, c Category) ([]Record, error) {
	dir := s.key(CategoryDir(c)) + "/"
	keys, err := s.list(ctx, dir)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(keys))
	for _, k := range keys {
		name := strings.TrimPrefix(k, dir)
		if strings.Contains(name, "/") || !strings.HasSuffix(name, ".json") || name == IndexFileName {
			continue
		}
		data, err := s.get(ctx, k)
		if err != nil {
			return nil, err
		}
		rec, err := decodeRecord(data)
		if err != nil {
			s.logger.Warn("Skipping malformed lore object", zap.String("key", k), zap.Error(err))
			continue
		}
		rec.Set(PathSourceFile, path.Join(CategoryDir(c), name))
		if _, ok := rec.Get(PathSourceCategory).(string); !ok {
			rec.Set(PathSourceCategory, string(c))
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteCategory uploads one object per record plus the index.
func (s *ObjectStore) WriteCategory(ctx context.Context, c Category, records []Record) error {
	dir := s.key(CategoryDir(c))
	namer := newFileNamer()
	index := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		name := namer.name(rec)
		k := path.Join(dir, name)
		rec.Set(PathSourceFile, path.Join(CategoryDir(c), name))
		if err := s.put(ctx, k, rec); err != nil {
			return err
		}
		index = append(index, IndexEntry(c, rec))
	}
	return s.put(ctx, path.Join(dir, IndexFileName), index)
}

// Scan returns the *.json objects directly under root.
func (s *ObjectStore) Scan(ctx context.Context, root string) ([]RawEntry, error) {
	root = strings.Trim(root, "/")
	prefix := s.key(root)
	if strings.HasSuffix(prefix, ".json") {
		data, err := s.get(ctx, prefix)
		if err != nil {
			return nil, err
		}
		return []RawEntry{{Path: prefix, Data: data}}, nil
	}
	if prefix != "" {
		prefix += "/"
	}
	keys, err := s.list(ctx, prefix)
	if err != nil {
		return nil, err
	}
	var out []RawEntry
	for _, k := range keys {
		name := strings.TrimPrefix(k, prefix)
		if strings.Contains(name, "/") || !strings.HasSuffix(name, ".json") {
			continue
		}
		data, err := s.get(ctx, k)
		if err != nil {
			return nil, err
		}
		out = append(out, RawEntry{Path: k, Data: data})
	}
	return out, nil
}

// WriteFile uploads v as JSON at name under the store prefix.
func (s *ObjectStore) WriteFile(ctx context.Context, name string, v any) error {
	return s.put(ctx, s.key(strings.Trim(name, "/")), v)
}

// MissingLayout reports the bucket itself when it does not exist.
// Object stores have no directories, so category prefixes are never missing.
func (s *ObjectStore) MissingLayout(ctx context.Context, _ []Category) ([]string, error) {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		return []string{s.bucket}, nil
	}
	return nil, nil
}

// FixLayout creates the bucket.
func (s *ObjectStore) FixLayout(ctx context.Context, locations []string) error {
	for _, b := range locations {
		if err := s.client.MakeBucket(ctx, b, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", b, err)
		}
	}
	return nil
}
