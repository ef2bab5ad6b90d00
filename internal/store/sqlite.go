package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/dkma-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS manufacturers (
	id                 TEXT PRIMARY KEY,
	export_id          TEXT NOT NULL,
	name               TEXT NOT NULL,
	manufacturer_raw   TEXT NOT NULL,
	url                TEXT NOT NULL,
	award              TEXT NOT NULL,
	position           TEXT NOT NULL,
	explanation        TEXT NOT NULL,
	user_solution      TEXT NOT NULL,
	developer_solution TEXT NOT NULL,
	exported_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_manufacturers_export_id ON manufacturers(export_id);
`

const sqliteInsert = `INSERT INTO manufacturers (
	id, export_id, name, manufacturer_raw, url, award, position,
	explanation, user_solution, developer_solution, exported_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectRecord = `SELECT id, name, manufacturer_raw, url, award, position,
	explanation, user_solution, developer_solution FROM manufacturers`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ReplaceDataset(ctx context.Context, ds model.Dataset) (string, error) {
	exportID := uuid.New().String()
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM manufacturers`); err != nil {
		return "", eris.Wrap(err, "sqlite: clear manufacturers")
	}

	stmt, err := tx.PrepareContext(ctx, sqliteInsert)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close() //nolint:errcheck

	for _, id := range ds.IDs() {
		args := []any{id, exportID}
		for _, v := range fieldValues(ds[id]) {
			args = append(args, v)
		}
		args = append(args, now)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return "", eris.Wrapf(err, "sqlite: insert manufacturer %s", id)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", eris.Wrap(err, "sqlite: commit")
	}
	return exportID, nil
}

func (s *SQLiteStore) GetRecord(ctx context.Context, id string) (*model.Record, error) {
	row := s.db.QueryRowContext(ctx, selectRecord+` WHERE id = ?`, id)
	_, r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get manufacturer %s", id)
	}
	return r, nil
}

func (s *SQLiteStore) ListManufacturers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM manufacturers ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list manufacturers")
	}
	defer rows.Close() //nolint:errcheck

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan manufacturer id")
		}
		ids = append(ids, id)
	}
	return ids, eris.Wrap(rows.Err(), "sqlite: list manufacturers")
}

func (s *SQLiteStore) LoadDataset(ctx context.Context) (model.Dataset, error) {
	rows, err := s.db.QueryContext(ctx, selectRecord+` ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: load dataset")
	}
	defer rows.Close() //nolint:errcheck

	ds := make(model.Dataset)
	for rows.Next() {
		id, r, err := scanRecord(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan manufacturer")
		}
		ds[id] = *r
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: load dataset")
	}
	return ds, nil
}
