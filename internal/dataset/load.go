package dataset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"desmatamento/internal/core"
	"desmatamento/internal/log"
)

// Source yields the raw rows of both datasets.
type Source interface {
	Name() string
	Deforestation(ctx context.Context) ([]RawRow, error)
	Economic(ctx context.Context) ([]RawRow, error)
}

// Build cleans both raw collections, failing with ErrEmptyDataset when
// either one has no usable rows.
func Build(deforestationRows, economicRows []RawRow) (core.Dataset, error) {
	ds := core.Dataset{
		Deforestation: CleanDeforestation(deforestationRows),
		Economic:      CleanEconomic(economicRows),
	}
	if !ds.IsEmpty() {
		return ds, nil
	}
	switch {
	case len(ds.Deforestation) == 0 && len(ds.Economic) == 0:
		return core.Dataset{}, fmt.Errorf("deforestation and economic data: %w", ErrEmptyDataset)
	case len(ds.Deforestation) == 0:
		return core.Dataset{}, fmt.Errorf("deforestation data: %w", ErrEmptyDataset)
	default:
		return core.Dataset{}, fmt.Errorf("economic data: %w", ErrEmptyDataset)
	}
}

// Loader reads a Source once and falls back to the example dataset when
// reading, parsing or cleaning fails.
type Loader struct {
	source Source
	logger *log.Logger
	now    func() time.Time
}

func NewLoader(source Source, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Discard()
	}
	return &Loader{
		source: source,
		logger: logger.WithComponent(log.ComponentDataset),
		now:    time.Now,
	}
}

// Load never fails. A fallback dataset carries the reason in FallbackReason.
func (l *Loader) Load(ctx context.Context) core.Dataset {
	start := l.now()
	ds, err := l.load(ctx)
	if err != nil {
		ds = ExampleDataset()
		ds.FallbackReason = err.Error()
		l.logger.WarnContext(ctx, "Using example dataset",
			log.FieldSource, l.sourceName(),
			log.FieldReason, ds.FallbackReason,
			log.FieldOperation, log.OpLoad)
	}
	ds.LoadedAt = l.now()

	fields := log.NewFields().
		WithDataset(ds.Source, len(ds.Deforestation), len(ds.Economic), ds.Fallback).
		WithOperation(log.OpLoad)
	fields[log.FieldDuration] = ds.LoadedAt.Sub(start).Milliseconds()
	l.logger.InfoContext(ctx, "Dataset loaded", fields.ToSlice()...)
	return ds
}

func (l *Loader) load(ctx context.Context) (core.Dataset, error) {
	if l.source == nil {
		return core.Dataset{}, errors.New("no dataset source configured")
	}

	var defRows, ecoRows []RawRow
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := l.source.Deforestation(gctx)
		if err != nil {
			return fmt.Errorf("read deforestation data: %w", err)
		}
		defRows = rows
		return nil
	})
	g.Go(func() error {
		rows, err := l.source.Economic(gctx)
		if err != nil {
			return fmt.Errorf("read economic data: %w", err)
		}
		ecoRows = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.Dataset{}, err
	}

	ds, err := Build(defRows, ecoRows)
	if err != nil {
		return core.Dataset{}, err
	}
	ds.Source = l.source.Name()
	return ds, nil
}

func (l *Loader) sourceName() string {
	if l.source == nil {
		return ""
	}
	return l.source.Name()
}
