// Package sqlite serves a dataset snapshot previously imported into the
// SQLite repository.
package sqlite

import (
	"context"
	"fmt"

	"desmatamento/internal/dataset"
	"desmatamento/internal/sources"
)

type Source struct {
	snapshot sources.SnapshotReader
}

var _ dataset.Source = (*Source)(nil)

func New(snapshot sources.SnapshotReader) *Source {
	return &Source{snapshot: snapshot}
}

func (s *Source) Name() string { return sources.NameSQLite }

func (s *Source) Deforestation(ctx context.Context) ([]dataset.RawRow, error) {
	records, err := s.snapshot.Deforestation(ctx)
	if err != nil {
		return nil, fmt.Errorf("read deforestation snapshot: %w", err)
	}
	rows := make([]dataset.RawRow, len(records))
	for i, r := range records {
		rows[i] = dataset.DeforestationRow(r)
	}
	return rows, nil
}

func (s *Source) Economic(ctx context.Context) ([]dataset.RawRow, error) {
	records, err := s.snapshot.Economic(ctx)
	if err != nil {
		return nil, fmt.Errorf("read economic snapshot: %w", err)
	}
	rows := make([]dataset.RawRow, len(records))
	for i, r := range records {
		rows[i] = dataset.EconomicRow(r)
	}
	return rows, nil
}
