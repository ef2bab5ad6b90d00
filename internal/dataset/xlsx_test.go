package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/dkma-cli/internal/model"
)

func TestRows(t *testing.T) {
	t.Parallel()

	ds := model.Dataset{
		"oneplus": record(t, "oneplus", `{"name":"OnePlus","manufacturer":["oneplus"],"position":4,"award":{"year":2020}}`),
		"asus":    record(t, "asus", `{}`),
	}

	rows := Rows(ds)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"asus", "Asus", `["asus"]`, "", "", "", "", "", ""}, rows[0])
	assert.Equal(t, "oneplus", rows[1][0])
	assert.Equal(t, "OnePlus", rows[1][1])
	assert.Equal(t, `{"year":2020}`, rows[1][4])
	assert.Equal(t, "4", rows[1][5])
}

func TestWriteXLSX(t *testing.T) {
	t.Parallel()

	ds := model.Dataset{
		"sony": record(t, "sony", `{"name":"Sony","url":"/sony"}`),
	}
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteXLSX(path, ds))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	sheet, ok := f.Sheet[SheetName]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 2)

	header := make([]string, 0, len(Columns))
	for _, c := range sheet.Rows[0].Cells {
		header = append(header, c.String())
	}
	assert.Equal(t, Columns, header)
	assert.Equal(t, "sony", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "/sony", sheet.Rows[1].Cells[3].String())
}

func TestWriteXLSX_BadPath(t *testing.T) {
	t.Parallel()

	err := WriteXLSX(filepath.Join(t.TempDir(), "missing", "out.xlsx"), model.Dataset{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xlsx: save")
}
