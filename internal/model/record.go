package model

import (
	"bytes"
	"encoding/json"
	"sort"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Source field names read from a manufacturer API document.
const (
	FieldName              = "name"
	FieldManufacturer      = "manufacturer"
	FieldURL               = "url"
	FieldAward             = "award"
	FieldPosition          = "position"
	FieldExplanation       = "explanation"
	FieldUserSolution      = "user_solution"
	FieldDeveloperSolution = "developer_solution"
)

var jsonNull = json.RawMessage("null")

// Record is the normalized subset of one manufacturer's API document.
// Values are kept as raw JSON: source values pass through unchanged, with
// string escapes decoded to literal UTF-8 and number text preserved.
type Record struct {
	Name              json.RawMessage `json:"name"`
	ManufacturerRaw   json.RawMessage `json:"manufacturer_raw"`
	URL               json.RawMessage `json:"url"`
	Award             json.RawMessage `json:"award"`
	Position          json.RawMessage `json:"position"`
	Explanation       json.RawMessage `json:"explanation"`
	UserSolution      json.RawMessage `json:"user_solution"`
	DeveloperSolution json.RawMessage `json:"developer_solution"`
}

// NewRecord builds a Record from the top-level fields of an API document.
// A field that is present (even as null) keeps its value. Absent fields get
// their defaults: the capitalized id for name, [id] for manufacturer_raw and
// null for everything else.
func NewRecord(id string, fields map[string]json.RawMessage) Record {
	name, _ := encode(Capitalize(id))
	manufacturers, _ := encode([]string{id})

	return Record{
		Name:              pick(fields, FieldName, name),
		ManufacturerRaw:   pick(fields, FieldManufacturer, manufacturers),
		URL:               pick(fields, FieldURL, jsonNull),
		Award:             pick(fields, FieldAward, jsonNull),
		Position:          pick(fields, FieldPosition, jsonNull),
		Explanation:       pick(fields, FieldExplanation, jsonNull),
		UserSolution:      pick(fields, FieldUserSolution, jsonNull),
		DeveloperSolution: pick(fields, FieldDeveloperSolution, jsonNull),
	}
}

func pick(fields map[string]json.RawMessage, key string, def json.RawMessage) json.RawMessage {
	if v, ok := fields[key]; ok && len(v) > 0 {
		return Canonical(v)
	}
	return def
}

// Canonical re-encodes a JSON value with string escapes such as \u00e9 or
// \u003c written as literal UTF-8 text. Number literals keep their source
// text. Invalid UTF-8 inside strings becomes U+FFFD. A value that does not
// decode is returned unchanged.
func Canonical(raw json.RawMessage) json.RawMessage {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return raw
	}
	out, err := encode(v)
	if err != nil {
		return raw
	}
	return out
}

// encode marshals v without HTML escaping and without a trailing newline.
func encode(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// Capitalize upper-cases the first character of s and lower-cases the rest.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}
	return string(unicode.ToTitle(r)) + cases.Lower(language.Und).String(s[size:])
}

// Text returns the named field as a string. Non-string and null values
// yield "".
func (r Record) Text(field string) string {
	var raw json.RawMessage
	switch field {
	case FieldName:
		raw = r.Name
	case FieldURL:
		raw = r.URL
	case FieldAward:
		raw = r.Award
	case FieldPosition:
		raw = r.Position
	case FieldExplanation:
		raw = r.Explanation
	case FieldUserSolution:
		raw = r.UserSolution
	case FieldDeveloperSolution:
		raw = r.DeveloperSolution
	default:
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Value decodes the raw JSON of a field into a plain Go value (string,
// float64, []any, map[string]any or nil).
func Value(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// Manufacturers returns the manufacturer_raw value as a list of strings.
// A scalar string is returned as a one-element list; non-string entries are
// skipped.
func (r Record) Manufacturers() []string {
	switch v := Value(r.ManufacturerRaw).(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Dataset maps manufacturer identifiers to their records.
type Dataset map[string]Record

// IDs returns the dataset keys in sorted order.
func (d Dataset) IDs() []string {
	ids := make([]string, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
