package notion

import (
	"strings"
	"time"

	"lore-sync/core/remote"
)

// maxTextChunk is the API limit for one rich text object.
const maxTextChunk = 2000

type richText struct {
	PlainText string `json:"plain_text"`
}

type selectOption struct {
	Name string `json:"name"`
}

type relationRef struct {
	ID string `json:"id"`
}

// propertyValue is the read shape of a page property.
type propertyValue struct {
	Type        string         `json:"type"`
	Title       []richText     `json:"title"`
	RichText    []richText     `json:"rich_text"`
	Number      *float64       `json:"number"`
	Select      *selectOption  `json:"select"`
	MultiSelect []selectOption `json:"multi_select"`
	Relation    []relationRef  `json:"relation"`
	Checkbox    bool           `json:"checkbox"`
}

type page struct {
	ID             string                   `json:"id"`
	LastEditedTime string                   `json:"last_edited_time"`
	Archived       bool                     `json:"archived"`
	InTrash        bool                     `json:"in_trash"`
	Properties     map[string]propertyValue `json:"properties"`
}

type queryResponse struct {
	Results    []page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

type database struct {
	Properties map[string]struct {
		Type string `json:"type"`
	} `json:"properties"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (p page) toRow() remote.Row {
	row := remote.Row{ID: p.ID, Properties: make(map[string]remote.Value, len(p.Properties))}
	if t, err := time.Parse(time.RFC3339, p.LastEditedTime); err == nil {
		row.LastEdited = t
	}
	for name, pv := range p.Properties {
		if v, ok := decodeValue(pv); ok {
			row.Properties[name] = v
		}
	}
	return row
}

func joinPlain(parts []richText) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.PlainText)
	}
	return b.String()
}

// decodeValue converts the supported property types. Others (formula, date, people) are ignored.
func decodeValue(pv propertyValue) (remote.Value, bool) {
	switch remote.PropertyType(pv.Type) {
	case remote.TypeTitle:
		return remote.TextValue(remote.TypeTitle, joinPlain(pv.Title)), true
	case remote.TypeText:
		return remote.TextValue(remote.TypeText, joinPlain(pv.RichText)), true
	case remote.TypeNumber:
		return remote.Value{Type: remote.TypeNumber, Number: pv.Number}, true
	case remote.TypeSelect:
		v := remote.Value{Type: remote.TypeSelect}
		if pv.Select != nil {
			v.Text = pv.Select.Name
		}
		return v, true
	case remote.TypeMultiSelect:
		items := make([]string, 0, len(pv.MultiSelect))
		for _, o := range pv.MultiSelect {
			items = append(items, o.Name)
		}
		return remote.ListValue(remote.TypeMultiSelect, items), true
	case remote.TypeRelation:
		items := make([]string, 0, len(pv.Relation))
		for _, r := range pv.Relation {
			items = append(items, r.ID)
		}
		return remote.ListValue(remote.TypeRelation, items), true
	case remote.TypeCheckbox:
		return remote.CheckboxValue(pv.Checkbox), true
	default:
		return remote.Value{}, false
	}
}

// textChunks splits s into rich text objects within the API size limit.
func textChunks(s string) []map[string]any {
	out := []map[string]any{}
	runes := []rune(s)
	for len(runes) > 0 {
		n := len(runes)
		if n > maxTextChunk {
			n = maxTextChunk
		}
		out = append(out, map[string]any{
			"type": "text",
			"text": map[string]any{"content": string(runes[:n])},
		})
		runes = runes[n:]
	}
	return out
}

// encodeValue builds the write shape of a property value. Empty values clear the property.
func encodeValue(v remote.Value) map[string]any {
	switch v.Type {
	case remote.TypeTitle:
		return map[string]any{"title": textChunks(v.Text)}
	case remote.TypeText:
		return map[string]any{"rich_text": textChunks(v.Text)}
	case remote.TypeNumber:
		return map[string]any{"number": v.Number}
	case remote.TypeSelect:
		if v.Text == "" {
			return map[string]any{"select": nil}
		}
		return map[string]any{"select": map[string]any{"name": v.Text}}
	case remote.TypeMultiSelect:
		opts := make([]map[string]any, 0, len(v.Items))
		for _, item := range v.Items {
			opts = append(opts, map[string]any{"name": item})
		}
		return map[string]any{"multi_select": opts}
	case remote.TypeRelation:
		refs := make([]map[string]any, 0, len(v.Items))
		for _, id := range v.Items {
			refs = append(refs, map[string]any{"id": id})
		}
		return map[string]any{"relation": refs}
	case remote.TypeCheckbox:
		return map[string]any{"checkbox": v.Bool}
	default:
		return nil
	}
}

func encodeProperties(props map[string]remote.Value) map[string]any {
	out := make(map[string]any, len(props))
	for name, v := range props {
		if enc := encodeValue(v); enc != nil {
			out[name] = enc
		}
	}
	return out
}

// propertyStub is the database schema entry used to create a property.
func propertyStub(t remote.PropertyType) (map[string]any, bool) {
	switch t {
	case remote.TypeTitle:
		return map[string]any{"title": map[string]any{}}, true
	case remote.TypeText:
		return map[string]any{"rich_text": map[string]any{}}, true
	case remote.TypeNumber:
		return map[string]any{"number": map[string]any{"format": "number"}}, true
	case remote.TypeSelect:
		return map[string]any{"select": map[string]any{"options": []any{}}}, true
	case remote.TypeMultiSelect:
		return map[string]any{"multi_select": map[string]any{"options": []any{}}}, true
	case remote.TypeCheckbox:
		return map[string]any{"checkbox": map[string]any{}}, true
	default:
		return nil, false
	}
}
