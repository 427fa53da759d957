package normalize

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Synonym sections used by the category normalizers.
const (
	SectionSpecies  = "species"
	SectionRealm    = "realm"
	SectionCourt    = "court"
	SectionType     = "type"
	SectionLocation = "location"
	SectionName     = "name"
)

// Synonyms maps a section to lower-cased aliases and their canonical spelling.
type Synonyms map[string]map[string]string

// DefaultSynonyms returns the built-in synonym tables.
func DefaultSynonyms() Synonyms {
	return Synonyms{
		SectionSpecies: {
			"high fae":  "Fae",
			"fae":       "Fae",
			"faerie":    "Fae",
			"dryads":    "Dryad",
			"dryad":     "Dryad",
			"dragon":    "Dragon",
			"dragons":   "Dragon",
			"dragonkin": "Dragon",
			"human":     "Human",
			"mortal":    "Human",
			"mortals":   "Human",
		},
		SectionRealm: {
			"elarion":        "Elarion",
			"the abyss":      "Abyss",
			"abyss":          "Abyss",
			"dreaming realm": "Dreaming Realm",
			"dreamweave":     "Dreaming Realm",
			"dream":          "Dreaming Realm",
		},
		SectionCourt: {
			"northern fae courts": "Northern Court",
			"northern court":      "Northern Court",
			"southern court":      "Southern Court",
			"shadow court":        "Shadow Court",
		},
		SectionType: {
			"ethereal beings":      "Ethereal",
			"undead warriors":      "Undead",
			"serpentine creatures": "Drake",
			"predatory beasts":     "Beast",
			"tree-like guardians":  "Treant",
		},
		SectionLocation: {
			"northern courts": "Northern Courts",
			"wraithwood":      "Wraithwood Forest",
			"the abyss":       "Abyss",
			"abyss":           "Abyss",
		},
		SectionName: {
			"elarion":   "Elarion",
			"the abyss": "Abyss",
			"abyss":     "Abyss",
			"ignisyr":   "Ignisyr",
			"elysion":   "Elysion",
		},
	}
}

// LoadSynonyms merges a YAML or JSON file of {section: {alias: canonical}} over the
// defaults. An empty path or a missing file keeps the defaults.
func LoadSynonyms(path string) (Synonyms, error) {
	merged := DefaultSynonyms()
	if path == "" {
		return merged, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return merged, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read synonyms %s: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse synonyms %s: %w", path, err)
	}
	for section, body := range raw {
		entries, ok := body.(map[string]any)
		if !ok {
			continue
		}
		key := strings.ToLower(section)
		if merged[key] == nil {
			merged[key] = map[string]string{}
		}
		for alias, canonical := range entries {
			merged[key][strings.ToLower(alias)] = fmt.Sprint(canonical)
		}
	}
	return merged, nil
}

// Canonical returns the canonical spelling of value in section. Unknown values are
// returned as given, or title-cased when titleCase is set.
func (s Synonyms) Canonical(section, value string, titleCase bool) string {
	if canonical, ok := s[section][strings.ToLower(strings.TrimSpace(value))]; ok {
		return canonical
	}
	if titleCase {
		return cases.Title(language.Und).String(value)
	}
	return value
}
