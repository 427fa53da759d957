package lore

import (
	"errors"
	"fmt"
	"strings"
)

// Category is one of the fixed lore collections.
type Category string

const (
	Characters Category = "characters"
	Creatures  Category = "creatures"
	Realms     Category = "realms"
	Magic      Category = "magic"
	Plots      Category = "plots"
)

// AllCategories lists every category in processing order.
var AllCategories = []Category{Characters, Creatures, Realms, Magic, Plots}

// ErrUnknownCategory is returned when a category name is not recognised.
var ErrUnknownCategory = errors.New("unknown category")

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// Title returns the display form used in logs and reports ("Characters").
func (c Category) Title() string {
	s := string(c)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Valid reports whether c is one of AllCategories.
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory resolves a user supplied name. Singular forms are accepted.
func ParseCategory(name string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "character":
		key = string(Characters)
	case "creature":
		key = string(Creatures)
	case "realm":
		key = string(Realms)
	case "plot":
		key = string(Plots)
	}
	c := Category(key)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	return c, nil
}

// ParseCategories resolves a list of names. An empty list selects AllCategories.
// Duplicates are dropped while keeping the first occurrence.
func ParseCategories(names []string) ([]Category, error) {
	if len(names) == 0 {
		out := make([]Category, len(AllCategories))
		copy(out, AllCategories)
		return out, nil
	}
	seen := make(map[Category]bool, len(names))
	out := make([]Category, 0, len(names))
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			c, err := ParseCategory(part)
			if err != nil {
				return nil, err
			}
			if seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}
	return out, nil
}
