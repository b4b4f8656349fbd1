package backend

import (
	"context"
	"fmt"

	"desmatamento/internal/log"
	"desmatamento/internal/sources/files"
	"desmatamento/internal/sources/google"
	"desmatamento/internal/sources/sqlite"
	"desmatamento/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case FilesBackend:
		return f.createFilesBackend(ctx, config), nil
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createFilesBackend(ctx context.Context, config Config) *BackendResult {
	src := files.New(config.DeforestationCSV, config.EconomicCSV)

	f.logger.InfoContext(ctx, "Initialized files backend",
		log.FieldSource, src.Name(),
		"deforestation_csv", config.DeforestationCSV,
		"economic_csv", config.EconomicCSV)

	return &BackendResult{Source: src}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Source:       sqlite.New(repo),
		Cleanup:      repo.Close,
		Ready:        repo.Ping,
		LatestImport: repo.LatestImport,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	src, err := google.New(ctx, google.Config{
		SpreadsheetID:      config.GoogleSpreadsheetID,
		DeforestationRange: config.GoogleDeforestationRange,
		EconomicRange:      config.GoogleEconomicRange,
		CredentialsJSON:    config.GoogleServiceAccountJSON,
		CredentialsFile:    config.GoogleServiceAccountFile,
	}, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized Google Sheets backend",
		"deforestation_range", config.GoogleDeforestationRange,
		"economic_range", config.GoogleEconomicRange)

	return &BackendResult{Source: src}, nil
}
