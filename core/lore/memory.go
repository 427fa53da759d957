package lore

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore holds records in process memory. Reads and writes copy records.
type MemoryStore struct {
	mu      sync.Mutex
	records map[Category][]Record
	files   map[string]any
	writes  map[Category]int
	// FailRead and FailWrite inject errors per category.
	FailRead  map[Category]error
	FailWrite map[Category]error
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:   map[Category][]Record{},
		files:     map[string]any{},
		writes:    map[Category]int{},
		FailRead:  map[Category]error{},
		FailWrite: map[Category]error{},
	}
}

// Put seeds records for c.
func (s *MemoryStore) Put(c Category, records ...Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.records[c] = append(s.records[c], r.Clone())
	}
}

// Records returns a copy of what is stored for c.
func (s *MemoryStore) Records(c Category) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.records[c])
}

// Writes returns how many times WriteCategory succeeded for c.
func (s *MemoryStore) Writes(c Category) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes[c]
}

// File returns a document stored through WriteFile.
func (s *MemoryStore) File(name string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.files[name]
	return v, ok
}

// ReadCategory implements Store.
func (s *MemoryStore) ReadCategory(_ context.Context, c Category) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.FailRead[c]; err != nil {
		return nil, err
	}
	return cloneAll(s.records[c]), nil
}

// WriteCategory implements Store.
func (s *MemoryStore) WriteCategory(_ context.Context, c Category, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.FailWrite[c]; err != nil {
		return err
	}
	s.records[c] = cloneAll(records)
	s.writes[c]++
	return nil
}

// Scan returns documents written with WriteFile whose name starts with root.
func (s *MemoryStore) Scan(_ context.Context, root string) ([]RawEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []RawEntry
	for name, v := range s.files {
		if !strings.HasPrefix(name, root) {
			continue
		}
		data, err := Marshal(v)
		if err != nil {
			return nil, err
		}
		out = append(out, RawEntry{Path: name, Data: data})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// WriteFile implements FileWriter.
func (s *MemoryStore) WriteFile(_ context.Context, name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = v
	return nil
}

func cloneAll(records []Record) []Record {
	if records == nil {
		return nil
	}
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
