package server

import (
	"context"

	"github.com/sells-group/dkma-cli/internal/model"
)

// Source is the read side the HTTP handlers serve from. store.Store
// satisfies it, as does DatasetSource.
type Source interface {
	ListManufacturers(ctx context.Context) ([]string, error)
	// GetRecord returns nil without error when id is unknown.
	GetRecord(ctx context.Context, id string) (*model.Record, error)
	LoadDataset(ctx context.Context) (model.Dataset, error)
}

// DatasetSource serves an in-memory dataset loaded from the JSON document.
type DatasetSource struct {
	ds model.Dataset
}

// NewDatasetSource wraps ds. A nil dataset serves as empty.
func NewDatasetSource(ds model.Dataset) *DatasetSource {
	if ds == nil {
		ds = model.Dataset{}
	}
	return &DatasetSource{ds: ds}
}

func (s *DatasetSource) ListManufacturers(_ context.Context) ([]string, error) {
	return s.ds.IDs(), nil
}

func (s *DatasetSource) GetRecord(_ context.Context, id string) (*model.Record, error) {
	r, ok := s.ds[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *DatasetSource) LoadDataset(_ context.Context) (model.Dataset, error) {
	return s.ds, nil
}
