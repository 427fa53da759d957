package reconcile

import (
	"lore-sync/core/lore"
	"lore-sync/core/remote"
)

// SourceFileProperty carries source.file so pulls can place records back in their files.
const SourceFileProperty = "Source File"

func titleField(path, property string) FieldMapping {
	return FieldMapping{Path: path, Property: property, Type: remote.TypeTitle, Required: true}
}

func field(path, property string, t remote.PropertyType) FieldMapping {
	return FieldMapping{Path: path, Property: property, Type: t}
}

func linesField(path, property string) FieldMapping {
	return FieldMapping{Path: path, Property: property, Type: remote.TypeText, Forward: JoinLines, Reverse: SplitLines}
}

func withSource(fields ...FieldMapping) []FieldMapping {
	return append(fields, field(lore.PathSourceFile, SourceFileProperty, remote.TypeText))
}

// DefaultSpecs returns the built-in mapping of every category.
func DefaultSpecs() map[lore.Category]MappingSpec {
	return map[lore.Category]MappingSpec{
		lore.Characters: {Category: lore.Characters, Fields: withSource(
			titleField("name", "Name"),
			field("titles", "Titles", remote.TypeMultiSelect),
			field("species", "Species", remote.TypeSelect),
			field("gender", "Gender", remote.TypeSelect),
			field("age", "Age", remote.TypeText),
			field("realm", "Realm", remote.TypeSelect),
			field("court", "Court", remote.TypeSelect),
			field("affiliations", "Affiliations", remote.TypeMultiSelect),
			field("domains", "Domains", remote.TypeMultiSelect),
			field("role", "Role", remote.TypeText),
			linesField("appearance.notes", "Appearance"),
			linesField("notes", "Notes"),
		)},
		lore.Creatures: {Category: lore.Creatures, Fields: withSource(
			titleField("name", "Name"),
			field("kind", "Kind", remote.TypeSelect),
			field("location", "Location", remote.TypeSelect),
			field("description", "Description", remote.TypeText),
			field("abilities", "Abilities", remote.TypeMultiSelect),
			field("danger_level", "Danger Level", remote.TypeSelect),
			field("source.group", "Group", remote.TypeSelect),
		)},
		lore.Realms: {Category: lore.Realms, Fields: withSource(
			titleField("name", "Name"),
			field("description", "Description", remote.TypeText),
			field("domains", "Domains", remote.TypeMultiSelect),
			field("ruler", "Ruler", remote.TypeText),
			field("capital", "Capital", remote.TypeText),
			field("factions", "Factions", remote.TypeMultiSelect),
			field("notable_locations", "Notable Locations", remote.TypeMultiSelect),
			linesField("notes", "Notes"),
		)},
		lore.Magic: {Category: lore.Magic, Fields: withSource(
			titleField("name", "Name"),
			field("type", "Type", remote.TypeSelect),
			field("school", "School", remote.TypeSelect),
			field("description", "Description", remote.TypeText),
			field("domains", "Domains", remote.TypeMultiSelect),
		)},
		lore.Plots: {Category: lore.Plots, Fields: withSource(
			titleField("name", "Name"),
			field("arc", "Arc", remote.TypeSelect),
			field("status", "Status", remote.TypeSelect),
			field("summary", "Summary", remote.TypeText),
		)},
	}
}
