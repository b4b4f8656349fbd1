// Package sources holds the dataset.Source implementations: CSV files,
// Google Sheets ranges, and the SQLite snapshot.
package sources

import (
	"context"

	"desmatamento/internal/core"
)

// Source names reported in Dataset.Source.
const (
	NameBundled = "bundled"
	NameFiles   = "files"
	NameSheets  = "sheets"
	NameSQLite  = "sqlite"
)

// Ports implemented by outbound adapters.
type (
	// SnapshotReader is satisfied by the SQLite repository.
	SnapshotReader interface {
		Deforestation(ctx context.Context) ([]core.DeforestationRecord, error)
		Economic(ctx context.Context) ([]core.EconomicRecord, error)
	}

	// ValuesReader returns the cell matrix of a spreadsheet range.
	ValuesReader interface {
		ReadRange(ctx context.Context, rng string) ([][]interface{}, error)
	}
)
