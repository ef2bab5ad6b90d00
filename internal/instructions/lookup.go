// Package instructions looks up a manufacturer in the consolidated dataset
// and renders its background-execution instructions for display.
package instructions

import (
	"regexp"
	"strings"

	"github.com/sells-group/dkma-cli/internal/model"
)

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeManufacturer converts a device manufacturer name to the key
// format used by the API: lower case, whitespace runs replaced by "-".
func NormalizeManufacturer(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// Find returns the dataset entry for a manufacturer name. The normalized
// name is first tried as a key; otherwise the first entry (by id) whose
// manufacturer_raw list contains the name wins.
func Find(ds model.Dataset, manufacturer string) (string, model.Record, bool) {
	key := NormalizeManufacturer(manufacturer)
	if key == "" {
		return "", model.Record{}, false
	}

	if rec, ok := ds[key]; ok {
		return key, rec, true
	}

	for _, id := range ds.IDs() {
		rec := ds[id]
		for _, raw := range rec.Manufacturers() {
			if NormalizeManufacturer(raw) == key {
				return id, rec, true
			}
		}
	}

	return "", model.Record{}, false
}
