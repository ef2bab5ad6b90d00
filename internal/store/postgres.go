package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/dkma-cli/internal/db"
	"github.com/sells-group/dkma-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS manufacturers (
	id                 TEXT PRIMARY KEY,
	export_id          UUID NOT NULL,
	name               JSONB NOT NULL,
	manufacturer_raw   JSONB NOT NULL,
	url                JSONB NOT NULL,
	award              JSONB NOT NULL,
	position           JSONB NOT NULL,
	explanation        JSONB NOT NULL,
	user_solution      JSONB NOT NULL,
	developer_solution JSONB NOT NULL,
	exported_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_manufacturers_export_id ON manufacturers(export_id);
`

// JSONB columns are read back as text.
const pgSelectRecord = `SELECT id, name::text, manufacturer_raw::text, url::text,
	award::text, position::text, explanation::text, user_solution::text,
	developer_solution::text FROM manufacturers`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) ReplaceDataset(ctx context.Context, ds model.Dataset) (string, error) {
	exportID := uuid.New()
	now := time.Now().UTC()

	rows := make([][]any, 0, len(ds))
	for _, id := range ds.IDs() {
		row := []any{id, exportID.String()}
		for _, v := range fieldValues(ds[id]) {
			row = append(row, v)
		}
		row = append(row, now)
		rows = append(rows, row)
	}

	if _, err := db.ReplaceRows(ctx, s.pool, Table, Columns, rows); err != nil {
		return "", eris.Wrap(err, "postgres: replace dataset")
	}
	return exportID.String(), nil
}

func (s *PostgresStore) GetRecord(ctx context.Context, id string) (*model.Record, error) {
	row := s.pool.QueryRow(ctx, pgSelectRecord+` WHERE id = $1`, id)
	_, r, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get manufacturer %s", id)
	}
	return r, nil
}

func (s *PostgresStore) ListManufacturers(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM manufacturers ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list manufacturers")
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan manufacturer ids")
	}
	return ids, nil
}

func (s *PostgresStore) LoadDataset(ctx context.Context) (model.Dataset, error) {
	rows, err := s.pool.Query(ctx, pgSelectRecord+` ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: load dataset")
	}
	defer rows.Close()

	ds := make(model.Dataset)
	for rows.Next() {
		id, r, err := scanRecord(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan manufacturer")
		}
		ds[id] = *r
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: load dataset")
	}
	return ds, nil
}
