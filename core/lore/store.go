package lore

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/goccy/go-json"
)

// IndexFileName is the derived per-category index written next to the record files.
const IndexFileName = "_index.json"

// Store persists lore records per category.
type Store interface {
	// ReadCategory loads every record of a category, ordered by file name.
	ReadCategory(ctx context.Context, c Category) ([]Record, error)
	// WriteCategory persists records, one file per record.
	WriteCategory(ctx context.Context, c Category, records []Record) error
	// Scan returns the raw JSON documents directly under root.
	Scan(ctx context.Context, root string) ([]RawEntry, error)
}

// LayoutChecker is implemented by stores that have an on-disk layout to verify.
type LayoutChecker interface {
	// MissingLayout lists the category locations that do not exist yet.
	MissingLayout(ctx context.Context, categories []Category) ([]string, error)
	// FixLayout creates the given locations.
	FixLayout(ctx context.Context, locations []string) error
}

// FileWriter writes arbitrary documents relative to the store root.
// NormalizeEngine uses it for split and bundled outputs.
type FileWriter interface {
	WriteFile(ctx context.Context, name string, v any) error
}

// RawEntry is one undecoded document found by Scan.
type RawEntry struct {
	Path string
	Data []byte
}

// CategoryDir is the relative directory holding formatted records of a category.
func CategoryDir(c Category) string {
	return path.Join(string(c), "formatted")
}

// decodeRecord parses one record document. Only JSON objects are records.
func decodeRecord(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("document is not an object")
	}
	return rec, nil
}

// fileNamer assigns one file name per record, keeping names unique within a write.
type fileNamer struct {
	used map[string]bool
}

func newFileNamer() *fileNamer {
	return &fileNamer{used: map[string]bool{}}
}

func (n *fileNamer) name(rec Record) string {
	base := ""
	if src, ok := rec.Get(PathSourceFile).(string); ok && src != "" {
		base = path.Base(strings.ReplaceAll(src, "\\", "/"))
		base = strings.TrimSuffix(base, ".json")
	}
	if base == "" || base == "." || base == "/" {
		base = SafeFileName(rec.Identifier())
	}
	name := base + ".json"
	if n.used[strings.ToLower(name)] {
		suffix := rec.RemoteID()
		if len(suffix) > 8 {
			suffix = suffix[:8]
		}
		if suffix != "" {
			name = base + "_" + SafeFileName(suffix) + ".json"
		}
		for i := 2; n.used[strings.ToLower(name)]; i++ {
			name = fmt.Sprintf("%s_%d.json", base, i)
		}
	}
	n.used[strings.ToLower(name)] = true
	return name
}

// indexFields are the projected fields of each category's _index.json.
var indexFields = map[Category][]string{
	Characters: {"titles", "realm", "court", "domains"},
	Creatures:  {"kind", "location", "source.group"},
	Realms:     {"domains", "ruler", "capital"},
	Magic:      {"type", "school"},
	Plots:      {"arc", "status"},
}

// listIndexFields are projected as [] when missing.
var listIndexFields = map[string]bool{"titles": true, "domains": true}

// IndexEntry is the reduced projection of rec stored in _index.json: id, name,
// the category's filter fields and the remote id once stamped.
func IndexEntry(c Category, rec Record) map[string]any {
	entry := map[string]any{
		FieldID:   rec[FieldID],
		FieldName: rec.Name(),
	}
	for _, p := range indexFields[c] {
		key := p[strings.LastIndex(p, ".")+1:]
		v := rec.Get(p)
		if v == nil && listIndexFields[key] {
			v = []any{}
		}
		entry[key] = v
	}
	if rid := rec.RemoteID(); rid != "" {
		entry["notion_page_id"] = rid
	}
	return entry
}
