// Package pipeline fetches every configured manufacturer from the
// dontkillmyapp API and consolidates the results into one dataset.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/dkma-cli/internal/dataset"
	"github.com/sells-group/dkma-cli/internal/model"
	"github.com/sells-group/dkma-cli/pkg/dontkillmyapp"
)

// Pipeline runs the sequential fetch-and-aggregate loop.
type Pipeline struct {
	client dontkillmyapp.Client
	log    *zap.Logger
}

// New creates a Pipeline. A nil logger falls back to the global zap logger.
func New(client dontkillmyapp.Client, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.L()
	}
	return &Pipeline{client: client, log: log}
}

// Attempt records what happened to one manufacturer.
type Attempt struct {
	ID      string
	URL     string
	Outcome dontkillmyapp.Outcome
}

// Report is the result of one Run.
type Report struct {
	Dataset  model.Dataset
	Attempts []Attempt
	Counts   map[string]int
}

// Fetched returns the number of manufacturers in the dataset.
func (r *Report) Fetched() int {
	return len(r.Dataset)
}

func (r *Report) add(a Attempt) {
	r.Attempts = append(r.Attempts, a)
	r.Counts[a.Outcome.Kind()]++
	if s, ok := a.Outcome.(*dontkillmyapp.Success); ok {
		r.Dataset[a.ID] = s.Record
	}
}

// Run fetches each id in order, one request at a time. A failure on one id
// is logged and skipped; every id is always attempted.
func (p *Pipeline) Run(ctx context.Context, ids []string) *Report {
	report := &Report{
		Dataset:  model.Dataset{},
		Attempts: make([]Attempt, 0, len(ids)),
		Counts:   make(map[string]int),
	}

	p.log.Info("pipeline: fetching manufacturers", zap.Int("count", len(ids)))

	for _, id := range ids {
		report.add(p.fetch(ctx, id))
	}

	p.log.Info("pipeline: fetch complete",
		zap.Int("fetched", report.Fetched()),
		zap.Int("attempted", len(ids)),
	)
	return report
}

func (p *Pipeline) fetch(ctx context.Context, id string) (a Attempt) {
	log := p.log.With(zap.String("manufacturer", id))
	a = Attempt{ID: id}

	defer func() {
		if r := recover(); r != nil {
			a.Outcome = &dontkillmyapp.UnexpectedError{Err: eris.Errorf("pipeline: panic fetching %s: %v", id, r)}
			diagnose(log, a.Outcome)
		}
	}()

	a.URL = p.client.URL(id)
	log.Info("pipeline: fetching", zap.String("url", a.URL))

	a.Outcome = p.client.Manufacturer(ctx, id)
	if a.Outcome == nil {
		a.Outcome = &dontkillmyapp.UnexpectedError{Err: eris.Errorf("pipeline: no outcome for %s", id)}
	}
	diagnose(log, a.Outcome)
	return a
}

func diagnose(log *zap.Logger, out dontkillmyapp.Outcome) {
	switch o := out.(type) {
	case *dontkillmyapp.Success:
		log.Info("pipeline: fetched manufacturer")
	case *dontkillmyapp.NotFound:
		log.Warn("pipeline: manufacturer not found in API",
			zap.Int("status", o.StatusCode),
			zap.String("content_type", o.ContentType),
		)
	case *dontkillmyapp.NonJSONResponse:
		log.Warn("pipeline: skipping non-JSON response",
			zap.Int("status", o.StatusCode),
			zap.String("content_type", o.ContentType),
		)
	case *dontkillmyapp.TransportError:
		log.Error("pipeline: error fetching manufacturer",
			zap.String("cause", string(o.Cause())),
			zap.Int("status", o.StatusCode),
			zap.Error(o.Err),
		)
	case *dontkillmyapp.DecodeError:
		log.Error("pipeline: error decoding JSON", zap.Error(o.Err))
	case *dontkillmyapp.UnexpectedError:
		log.Error("pipeline: unexpected error", zap.Error(o.Err))
	}
}

// Persist writes the dataset to path, replacing the previous file. The
// outcome is logged either way.
func (p *Pipeline) Persist(path string, ds model.Dataset) error {
	if err := dataset.Save(path, ds); err != nil {
		p.log.Error("pipeline: failed to save data", zap.String("path", path), zap.Error(err))
		return eris.Wrap(err, "pipeline: persist")
	}
	p.log.Info("pipeline: saved data",
		zap.String("path", path),
		zap.Int("manufacturers", len(ds)),
	)
	return nil
}
