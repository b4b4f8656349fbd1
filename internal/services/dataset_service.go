package services

import (
	"context"
	"errors"
	"fmt"

	"desmatamento/internal/core"
	"desmatamento/internal/dataset"
	"desmatamento/internal/log"
	"desmatamento/internal/storage"
)

// ErrFallbackImport is returned when an import would persist the example
// dataset instead of real source data.
var ErrFallbackImport = errors.New("source data unavailable, refusing to import example dataset")

// Publisher announces dataset loads. *amqp.Client satisfies it.
type Publisher interface {
	PublishDatasetLoaded(ctx context.Context, ds core.Dataset) error
	Close() error
}

// SnapshotWriter persists a cleaned dataset. *storage.SQLiteRepository
// satisfies it.
type SnapshotWriter interface {
	ReplaceSnapshot(ctx context.Context, ds core.Dataset) (storage.Import, error)
}

// DatasetService orchestrates dataset loading, snapshot imports and the
// optional AMQP announcement.
type DatasetService struct {
	loader    *dataset.Loader
	publisher Publisher
	logger    *log.Logger
}

func NewDatasetService(loader *dataset.Loader, publisher Publisher, logger *log.Logger) *DatasetService {
	if logger == nil {
		logger = log.Discard()
	}
	return &DatasetService{
		loader:    loader,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentDataset),
	}
}

// Load reads the configured source and publishes a dataset-loaded event.
// Publishing failures are logged and never fail the load.
func (s *DatasetService) Load(ctx context.Context) core.Dataset {
	ds := s.loader.Load(ctx)
	s.publish(ctx, ds)
	return ds
}

// Import loads the source and replaces the stored snapshot with it.
func (s *DatasetService) Import(ctx context.Context, w SnapshotWriter) (storage.Import, error) {
	ds := s.loader.Load(ctx)
	if ds.Fallback {
		return storage.Import{}, fmt.Errorf("%w: %s", ErrFallbackImport, ds.FallbackReason)
	}

	imp, err := w.ReplaceSnapshot(ctx, ds)
	if err != nil {
		return storage.Import{}, fmt.Errorf("replace snapshot: %w", err)
	}

	s.logger.InfoContext(ctx, "Snapshot imported",
		log.FieldOperation, log.OpImport,
		log.FieldSource, imp.Source,
		log.FieldDeforestRows, imp.DeforestationRows,
		log.FieldEconomicRows, imp.EconomicRows)

	s.publish(ctx, ds)
	return imp, nil
}

func (s *DatasetService) publish(ctx context.Context, ds core.Dataset) {
	if s.publisher == nil {
		s.logger.WarnContext(ctx, "AMQP client not available, skipping dataset event")
		return
	}
	if err := s.publisher.PublishDatasetLoaded(ctx, ds); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish dataset event",
			log.FieldOperation, log.OpPublish,
			log.FieldError, err.Error())
	}
}

// Close closes the publisher.
func (s *DatasetService) Close() error {
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.Close(); err != nil {
		return fmt.Errorf("close dataset service: %w", err)
	}
	return nil
}
