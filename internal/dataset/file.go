// Package dataset reads and writes the consolidated manufacturer document.
package dataset

import (
	"bytes"
	"encoding/json"
	"os"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"github.com/sells-group/dkma-cli/internal/model"
)

// DefaultFileName is the document name used by the fetch and publish steps.
const DefaultFileName = "dontkillmyapp_data.json"

const indent = "    "

// Marshal renders the dataset as indented JSON. Keys are sorted, HTML
// characters and non-ASCII text are written as-is, and a nil dataset renders
// as an empty object.
func Marshal(ds model.Dataset) ([]byte, error) {
	if ds == nil {
		ds = model.Dataset{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(ds); err != nil {
		return nil, eris.Wrap(err, "dataset: encode")
	}
	if !utf8.Valid(buf.Bytes()) {
		return nil, eris.New("dataset: encoded document is not valid UTF-8")
	}
	return buf.Bytes(), nil
}

// Save writes the dataset to path, replacing any previous contents. The
// parent directory must already exist.
func Save(path string, ds model.Dataset) error {
	data, err := Marshal(ds)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "dataset: create file")
	}

	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return eris.Wrap(err, "dataset: write file")
	}

	if err := file.Close(); err != nil {
		return eris.Wrap(err, "dataset: close file")
	}
	return nil
}

// Load reads a dataset previously written by Save.
func Load(path string) (model.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read file")
	}

	var ds model.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, eris.Wrapf(err, "dataset: decode %s", path)
	}
	if ds == nil {
		ds = model.Dataset{}
	}
	return ds, nil
}
