package reconcile

import (
	"fmt"
	"time"

	"lore-sync/core/lore"
)

// Mode is the direction of a batch run.
type Mode string

const (
	// ModePublish pushes local records to the remote store.
	ModePublish Mode = "publish"
	// ModePull merges remote rows into local records.
	ModePull Mode = "pull"
)

// ParseMode resolves a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePublish, ModePull:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// RecordError describes one record level failure or warning.
type RecordError struct {
	// Identifier is the record name, id or remote row id.
	Identifier string `json:"identifier"`

	// Kind classifies the problem (mapping_error, remote_call_failure, ...).
	Kind ErrorKind `json:"kind"`

	// Message is the human readable detail.
	Message string `json:"message"`
}

// Result is the outcome of one operation on one category.
type Result struct {
	// Category is the category the counts refer to.
	Category lore.Category `json:"category"`

	// Created counts rows (push) or local records (pull) that were created.
	Created int `json:"created"`

	// Updated counts records whose mapped fields changed.
	Updated int `json:"updated"`

	// Unchanged counts records that needed no write.
	Unchanged int `json:"unchanged"`

	// Skipped counts records that could not be mapped or were not reached.
	Skipped int `json:"skipped"`

	// Failed counts records whose remote call failed.
	Failed int `json:"failed"`

	// Errors lists the skipped and failed records.
	Errors []RecordError `json:"errors"`

	// Warnings lists non-fatal findings (duplicate names, schema conflicts).
	Warnings []RecordError `json:"warnings,omitempty"`

	// Fatal is set when the category could not be processed at all.
	Fatal string `json:"fatal,omitempty"`

	// Duration is how long the operation took.
	Duration time.Duration `json:"duration_ns"`
}

func newResult(c lore.Category) Result {
	return Result{Category: c, Errors: []RecordError{}}
}

func (r *Result) fail(id string, err error) {
	r.Failed++
	r.Errors = append(r.Errors, RecordError{Identifier: id, Kind: Classify(err), Message: err.Error()})
}

func (r *Result) skip(id string, err error) {
	r.Skipped++
	r.Errors = append(r.Errors, RecordError{Identifier: id, Kind: Classify(err), Message: err.Error()})
}

func (r *Result) warn(id string, err error) {
	r.Warnings = append(r.Warnings, RecordError{Identifier: id, Kind: Classify(err), Message: err.Error()})
}

func (r *Result) fatal(err error) {
	r.Fatal = err.Error()
}

// Total is the number of records the result accounts for.
func (r Result) Total() int {
	return r.Created + r.Updated + r.Unchanged + r.Skipped + r.Failed
}

// OK reports whether every record succeeded.
func (r Result) OK() bool {
	return r.Fatal == "" && r.Failed == 0 && r.Skipped == 0
}

// Summary aggregates per-category results of a batch run.
type Summary struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
	// FatalCategories lists categories that could not be processed.
	FatalCategories []lore.Category `json:"fatal_categories"`
}

// Summarize totals a batch run in category order.
func Summarize(results map[lore.Category]Result) Summary {
	s := Summary{FatalCategories: []lore.Category{}}
	for _, c := range lore.AllCategories {
		r, ok := results[c]
		if !ok {
			continue
		}
		s.Created += r.Created
		s.Updated += r.Updated
		s.Unchanged += r.Unchanged
		s.Skipped += r.Skipped
		s.Failed += r.Failed
		if r.Fatal != "" {
			s.FatalCategories = append(s.FatalCategories, c)
		}
	}
	return s
}
