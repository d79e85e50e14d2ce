package resolver

import (
	"context"
	"log/slog"

	"github.com/fsmtools/fsmstrip/internal/config"
	"github.com/fsmtools/fsmstrip/internal/model"
)

// Loader is the external collaborator that reads modal composites from a
// model file. internal/database provides the SQLite implementation; tests
// substitute fakes.
//
// An empty dataset is a valid, non-error return: the loader reports what
// matched, the resolver decides whether to widen, and the caller decides
// whether empty is acceptable.
type Loader interface {
	LoadModalComposites(ctx context.Context, filter config.Filter) (model.ModalComposites, model.ColumnMeta, error)
}

// Resolver resolves dataset filters against a Loader.
type Resolver struct {
	// loader is the data source being queried.
	loader Loader

	// searchBuffer is the half-width of the widened thickness range used
	// by the fallback retry.
	searchBuffer float64

	// logger reports the widening fallback; the warning is part of the
	// resolver's contract since a widened result may not be the slice the
	// user literally asked for.
	logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSearchBuffer overrides the default thickness search buffer.
func WithSearchBuffer(buffer float64) Option {
	return func(r *Resolver) {
		if buffer > 0 {
			r.searchBuffer = buffer
		}
	}
}

// WithLogger sets a custom logger for the resolver.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New creates a Resolver querying the given loader.
func New(loader Loader, opts ...Option) *Resolver {
	r := &Resolver{
		loader:       loader,
		searchBuffer: config.DefaultSearchBuffer,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Resolve queries the loader with the filter as given. When a point query
// on the base thickness matches no rows, the query is widened to
// [t_b-buffer, t_b+buffer], the same strip length clipping retained, and
// issued exactly once more; the second result is returned verbatim even
// when it is empty again.
//
// A non-empty first result is returned unchanged with no second query.
// Range queries are never widened.
func (r *Resolver) Resolve(ctx context.Context, filter config.Filter) (model.ModalComposites, model.ColumnMeta, error) {
	dataset, meta, err := r.loader.LoadModalComposites(ctx, filter)
	if err != nil {
		return model.ModalComposites{}, nil, err
	}
	if !dataset.IsEmpty() || !filter.IsPointQuery() {
		return dataset, meta, nil
	}

	widened := filter.WidenThickness(r.searchBuffer)
	r.logger.Warn("could not find the exact value of t_b requested, expanding search condition",
		"t_b", *filter.TBFix,
		"t_b_min", *widened.TBMin,
		"t_b_max", *widened.TBMax,
	)
	return r.loader.LoadModalComposites(ctx, widened)
}
