// Package store exports the manufacturer dataset into a relational database.
package store

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/dkma-cli/internal/model"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Table is the relation every export writes to.
const Table = "manufacturers"

// Columns lists the manufacturers table columns in insert order.
var Columns = []string{
	"id",
	"export_id",
	model.FieldName,
	"manufacturer_raw",
	model.FieldURL,
	model.FieldAward,
	model.FieldPosition,
	model.FieldExplanation,
	model.FieldUserSolution,
	model.FieldDeveloperSolution,
	"exported_at",
}

// Store defines the persistence interface for dataset exports.
type Store interface {
	// ReplaceDataset swaps the stored rows for ds in one transaction and
	// returns the export id stamped on every row.
	ReplaceDataset(ctx context.Context, ds model.Dataset) (string, error)
	// GetRecord returns nil without error when id is not stored.
	GetRecord(ctx context.Context, id string) (*model.Record, error)
	ListManufacturers(ctx context.Context) ([]string, error)
	LoadDataset(ctx context.Context) (model.Dataset, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open returns a Store for the named driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch strings.ToLower(driver) {
	case DriverSQLite, "":
		return NewSQLite(dsn)
	case DriverPostgres, "postgresql", "pgx":
		return NewPostgres(ctx, dsn, nil)
	default:
		return nil, eris.Errorf("store: unsupported driver %q", driver)
	}
}

// fieldValues returns the eight record fields as JSON text in column order.
func fieldValues(r model.Record) []string {
	raws := []json.RawMessage{
		r.Name,
		r.ManufacturerRaw,
		r.URL,
		r.Award,
		r.Position,
		r.Explanation,
		r.UserSolution,
		r.DeveloperSolution,
	}
	out := make([]string, len(raws))
	for i, raw := range raws {
		if len(raw) == 0 {
			out[i] = "null"
			continue
		}
		out[i] = string(raw)
	}
	return out
}

type scannable interface {
	Scan(dest ...any) error
}

// scanRecord reads an id followed by the eight JSON text columns.
func scanRecord(row scannable) (string, *model.Record, error) {
	var (
		id     string
		fields [8]string
	)
	dest := []any{&id}
	for i := range fields {
		dest = append(dest, &fields[i])
	}
	if err := row.Scan(dest...); err != nil {
		return "", nil, err
	}
	r := &model.Record{
		Name:              json.RawMessage(fields[0]),
		ManufacturerRaw:   json.RawMessage(fields[1]),
		URL:               json.RawMessage(fields[2]),
		Award:             json.RawMessage(fields[3]),
		Position:          json.RawMessage(fields[4]),
		Explanation:       json.RawMessage(fields[5]),
		UserSolution:      json.RawMessage(fields[6]),
		DeveloperSolution: json.RawMessage(fields[7]),
	}
	return id, r, nil
}
