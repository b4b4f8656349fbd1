package backend

import (
	"context"

	"desmatamento/internal/dataset"
	"desmatamento/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the dataset source and optional cleanup function
type BackendResult struct {
	Source  dataset.Source
	Cleanup CleanupFunc

	// Ready is set for backends holding a live connection.
	Ready func(ctx context.Context) error

	// LatestImport describes the stored snapshot, sqlite backend only.
	LatestImport func(ctx context.Context) (storage.Import, error)
}

// Factory creates dataset sources based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// Files specific. Empty paths select the bundled CSVs.
	DeforestationCSV string
	EconomicCSV      string

	// SQLite specific
	SQLiteDBPath string

	// Google Sheets specific
	GoogleSpreadsheetID      string
	GoogleDeforestationRange string
	GoogleEconomicRange      string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
}

// BackendType represents the type of backend
type BackendType string

const (
	FilesBackend  BackendType = "files"
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case FilesBackend, SQLiteBackend, SheetsBackend:
		return true
	default:
		return false
	}
}
