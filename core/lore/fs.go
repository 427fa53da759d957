package lore

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// FSStore keeps records as JSON files under root.
type FSStore struct {
	root   string
	logger *zap.Logger
}

// NewFSStore creates a filesystem store rooted at root.
func NewFSStore(root string, logger *zap.Logger) *FSStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FSStore{root: root, logger: logger}
}

// Root returns the directory the store reads from.
func (s *FSStore) Root() string {
	return s.root
}

// Dir returns the absolute-or-relative directory of a category.
func (s *FSStore) Dir(c Category) string {
	return filepath.Join(s.root, filepath.FromSlash(CategoryDir(c)))
}

// ReadCategory loads all records of c. A missing directory yields no records.
// Malformed files are logged and skipped.
func (s *FSStore) ReadCategory(ctx context.Context, c Category) ([]Record, error) {
	dir := s.Dir(c)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") || e.Name() == IndexFileName {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	records := make([]Record, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := filepath.Join(dir, name)
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		rec, err := decodeRecord(data)
		if err != nil {
			s.logger.Warn("Skipping malformed lore file", zap.String("path", p), zap.Error(err))
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

// WriteCategory writes each record to its own file and refreshes the index.
func (s *FSStore) WriteCategory(ctx context.Context, c Category, records []Record) error {
	dir := s.Dir(c)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	namer := newFileNamer()
	index := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := namer.name(rec)
		p := filepath.Join(dir, name)
		rec.Set(PathSourceFile, path.Join(CategoryDir(c), name))
		if err := writeJSONAtomic(p, rec); err != nil {
			return err
		}
		index = append(index, IndexEntry(c, rec))
	}
	return writeJSONAtomic(filepath.Join(dir, IndexFileName), index)
}

// Scan returns every *.json document directly under root, sorted by path.
func (s *FSStore) Scan(ctx context.Context, root string) ([]RawEntry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	var paths []string
	if !info.IsDir() {
		paths = []string{root}
	} else {
		matches, err := filepath.Glob(filepath.Join(root, "*.json"))
		if err != nil {
			return nil, err
		}
		paths = matches
	}
	sort.Strings(paths)

	out := make([]RawEntry, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		out = append(out, RawEntry{Path: filepath.ToSlash(p), Data: data})
	}
	return out, nil
}

// WriteFile writes v as JSON at name relative to the store root.
func (s *FSStore) WriteFile(_ context.Context, name string, v any) error {
	p := name
	if !filepath.IsAbs(p) {
		p = filepath.Join(s.root, filepath.FromSlash(name))
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(p), err)
	}
	return writeJSONAtomic(p, v)
}

// MissingLayout lists category directories that are absent.
func (s *FSStore) MissingLayout(_ context.Context, categories []Category) ([]string, error) {
	var missing []string
	for _, c := range categories {
		dir := s.Dir(c)
		if _, err := os.Stat(dir); err != nil {
			if os.IsNotExist(err) {
				missing = append(missing, dir)
				continue
			}
			return nil, err
		}
	}
	return missing, nil
}

// FixLayout creates the given directories.
func (s *FSStore) FixLayout(_ context.Context, locations []string) error {
	for _, dir := range locations {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// writeJSONAtomic writes through a temp file and rename so readers never see a partial file.
func writeJSONAtomic(p string, v any) error {
	data, err := Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", p, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), "."+filepath.Base(p)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", p, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", p, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync %s: %w", p, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", p, err)
	}
	return nil
}
