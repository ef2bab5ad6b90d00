package dataset

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/dkma-cli/internal/model"
)

// SheetName is the worksheet written by WriteXLSX.
const SheetName = "manufacturers"

// Columns lists the spreadsheet header in order.
var Columns = []string{
	"id",
	"name",
	"manufacturer_raw",
	"url",
	"award",
	"position",
	"explanation",
	"user_solution",
	"developer_solution",
}

// Rows flattens the dataset into string rows ordered by id, matching Columns.
func Rows(ds model.Dataset) [][]string {
	rows := make([][]string, 0, len(ds))
	for _, id := range ds.IDs() {
		rec := ds[id]
		rows = append(rows, []string{
			id,
			cellText(rec.Name),
			cellText(rec.ManufacturerRaw),
			cellText(rec.URL),
			cellText(rec.Award),
			cellText(rec.Position),
			cellText(rec.Explanation),
			cellText(rec.UserSolution),
			cellText(rec.DeveloperSolution),
		})
	}
	return rows
}

// WriteXLSX writes the dataset to a single-sheet workbook at path.
func WriteXLSX(path string, ds model.Dataset) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	addRow(sheet, Columns)
	for _, row := range Rows(ds) {
		addRow(sheet, row)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "xlsx: save")
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

// cellText renders a raw JSON value for a spreadsheet cell: strings are
// unquoted, null is empty, anything else stays compact JSON.
func cellText(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return trimmed
	}
	return buf.String()
}
