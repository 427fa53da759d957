package normalize

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"lore-sync/core/lore"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	errMissingName = errors.New("entry has no name")

	// ErrNoFileWriter is returned when the store cannot write arbitrary documents.
	ErrNoFileWriter = errors.New("store does not support writing normalized files")

	// ErrInvalidOptions wraps option problems found before any input is read.
	ErrInvalidOptions = errors.New("invalid normalize options")
)

// documentFunc turns one decoded raw document into canonical records plus warnings.
type documentFunc func(doc any, o origin, syn Synonyms) ([]lore.Record, []string)

var documents = map[lore.Category]documentFunc{
	lore.Characters: characterDocument,
	lore.Creatures:  creatureDocument,
	lore.Realms:     realmDocument,
	lore.Magic:      magicDocument,
	lore.Plots:      plotDocument,
}

// Options controls one normalization run.
type Options struct {
	// Root is the raw file or directory of raw *.json documents to scan.
	Root string `json:"root"`

	// Category selects the normalizer.
	Category lore.Category `json:"category"`

	// Split writes one file per record instead of one combined document.
	Split bool `json:"split"`

	// Index writes _index.json next to the output.
	Index bool `json:"index"`

	// ByRegion writes one file per record under <OutDir>/<region>/.
	ByRegion bool `json:"by_region"`

	// RegionBundles writes one document per region under <OutDir>/regions/.
	RegionBundles bool `json:"region_bundles"`

	// OutDir is where output goes, relative to the store. Defaults to the category's formatted dir.
	OutDir string `json:"out_dir"`

	// SynonymsPath overrides the engine's synonym tables for this run.
	SynonymsPath string `json:"synonyms_path"`
}

// Result describes a normalization run.
type Result struct {
	Category lore.Category `json:"category"`
	Count    int           `json:"count"`
	Files    []string      `json:"files"`
	Warnings []string      `json:"warnings"`
	// Records holds the normalized records in output order.
	Records []lore.Record `json:"-"`
}

// Engine normalizes raw lore documents into canonical records.
type Engine struct {
	store    lore.Store
	synonyms Synonyms
	logger   *zap.Logger
}

// NewEngine creates a normalize engine. Nil synonyms select the defaults.
func NewEngine(store lore.Store, synonyms Synonyms, logger *zap.Logger) *Engine {
	if synonyms == nil {
		synonyms = DefaultSynonyms()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, synonyms: synonyms, logger: logger}
}

// Run scans opts.Root, normalizes every entry and writes the requested outputs.
// The same input and options always produce the same records, files and order.
func (e *Engine) Run(ctx context.Context, opts Options) (*Result, error) {
	document, ok := documents[opts.Category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", lore.ErrUnknownCategory, opts.Category)
	}
	if opts.Root == "" {
		return nil, fmt.Errorf("%w: root is required", ErrInvalidOptions)
	}
	syn := e.synonyms
	if opts.SynonymsPath != "" {
		loaded, err := LoadSynonyms(opts.SynonymsPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
		}
		syn = loaded
	}

	entries, err := e.store.Scan(ctx, opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", opts.Root, err)
	}

	res := &Result{Category: opts.Category, Files: []string{}, Warnings: []string{}}
	for _, entry := range entries {
		var doc any
		if err := json.Unmarshal(entry.Data, &doc); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: invalid JSON: %v", entry.Path, err))
			continue
		}
		records, warnings := document(doc, origin{File: entry.Path, Category: opts.Category}, syn)
		res.Records = append(res.Records, records...)
		res.Warnings = append(res.Warnings, warnings...)
	}
	sort.SliceStable(res.Records, func(i, j int) bool {
		a, b := lore.NormalizeName(res.Records[i].Name()), lore.NormalizeName(res.Records[j].Name())
		if a != b {
			return a < b
		}
		return res.Records[i].Identifier() < res.Records[j].Identifier()
	})
	res.Count = len(res.Records)

	for _, w := range res.Warnings {
		e.logger.Warn("Skipped raw entry", zap.String("category", string(opts.Category)), zap.String("warning", w))
	}

	if err := e.write(ctx, opts, res); err != nil {
		return res, err
	}
	e.logger.Info("Normalized lore",
		zap.String("category", string(opts.Category)),
		zap.Int("records", res.Count),
		zap.Int("files", len(res.Files)),
		zap.Int("warnings", len(res.Warnings)),
	)
	return res, nil
}

func (e *Engine) write(ctx context.Context, opts Options, res *Result) error {
	w, ok := e.store.(lore.FileWriter)
	if !ok {
		return ErrNoFileWriter
	}
	out := opts.OutDir
	if out == "" {
		out = lore.CategoryDir(opts.Category)
	}
	put := func(name string, v any) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.WriteFile(ctx, name, v); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		res.Files = append(res.Files, name)
		return nil
	}

	if opts.Split {
		names := uniqueNames{}
		for _, rec := range res.Records {
			name := path.Join(out, names.next(rec.Name()))
			rec.Set(lore.PathSourceFile, name)
			if err := put(name, rec); err != nil {
				return err
			}
		}
	} else {
		name := path.Join(out, string(opts.Category)+".normalized.json")
		if err := put(name, map[string]any{string(opts.Category): recordsOrEmpty(res.Records)}); err != nil {
			return err
		}
	}

	if opts.Index {
		if err := put(path.Join(out, lore.IndexFileName), Index(opts.Category, res.Records)); err != nil {
			return err
		}
	}

	if opts.ByRegion {
		names := map[string]uniqueNames{}
		for _, rec := range res.Records {
			region := lore.SafeFileName(RegionKey(opts.Category, rec))
			if names[region] == nil {
				names[region] = uniqueNames{}
			}
			if err := put(path.Join(out, region, names[region].next(rec.Name())), rec); err != nil {
				return err
			}
		}
	}

	if opts.RegionBundles {
		bundles := map[string][]lore.Record{}
		for _, rec := range res.Records {
			region := RegionKey(opts.Category, rec)
			bundles[region] = append(bundles[region], rec)
		}
		regions := make([]string, 0, len(bundles))
		for r := range bundles {
			regions = append(regions, r)
		}
		sort.Strings(regions)
		for _, r := range regions {
			bundle := map[string]any{
				"region":   r,
				"category": string(opts.Category),
				"entries":  bundles[r],
			}
			if err := put(path.Join(out, "regions", lore.SafeFileName(r)+".json"), bundle); err != nil {
				return err
			}
		}
	}
	return nil
}

// uniqueNames hands out <name>.json file names, suffixing repeats with _2, _3...
type uniqueNames map[string]int

func (u uniqueNames) next(name string) string {
	base := lore.SafeFileName(name)
	key := strings.ToLower(base)
	u[key]++
	if n := u[key]; n > 1 {
		return base + "_" + strconv.Itoa(n) + ".json"
	}
	return base + ".json"
}

func recordsOrEmpty(records []lore.Record) []lore.Record {
	if records == nil {
		return []lore.Record{}
	}
	return records
}
