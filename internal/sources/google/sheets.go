// Package google reads the two datasets from ranges of a Google Sheets
// spreadsheet using a service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"desmatamento/internal/dataset"
	"desmatamento/internal/log"
	"desmatamento/internal/sources"
)

// Config selects the spreadsheet, the A1 ranges of each dataset and the
// service account credentials. CredentialsJSON wins over CredentialsFile.
type Config struct {
	SpreadsheetID      string
	DeforestationRange string
	EconomicRange      string
	CredentialsJSON    string
	CredentialsFile    string
}

type Source struct {
	values             sources.ValuesReader
	deforestationRange string
	economicRange      string
}

var _ dataset.Source = (*Source)(nil)

// New creates a read-only Sheets client from cfg.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Source, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	svc, err := newSheetsService(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return NewWithService(svc, cfg), nil
}

// NewWithService wraps an already configured service.
func NewWithService(svc *gsheet.Service, cfg Config) *Source {
	return NewWithReader(&valuesClient{svc: svc, spreadsheetID: cfg.SpreadsheetID}, cfg)
}

func NewWithReader(values sources.ValuesReader, cfg Config) *Source {
	return &Source{
		values:             values,
		deforestationRange: cfg.DeforestationRange,
		economicRange:      cfg.EconomicRange,
	}
}

func (s *Source) Name() string { return sources.NameSheets }

func (s *Source) Deforestation(ctx context.Context) ([]dataset.RawRow, error) {
	return s.read(ctx, s.deforestationRange)
}

func (s *Source) Economic(ctx context.Context) ([]dataset.RawRow, error) {
	return s.read(ctx, s.economicRange)
}

func (s *Source) read(ctx context.Context, rng string) ([]dataset.RawRow, error) {
	values, err := s.values.ReadRange(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("read range %q: %w", rng, err)
	}
	rows, err := dataset.NormalizeValues(values)
	if err != nil {
		return nil, fmt.Errorf("normalize range %q: %w", rng, err)
	}
	return rows, nil
}

type valuesClient struct {
	svc           *gsheet.Service
	spreadsheetID string
}

func (c *valuesClient) ReadRange(ctx context.Context, rng string) ([][]interface{}, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

// newSheetsService initializes a read-only Sheets Service using Service
// Account credentials.
func newSheetsService(ctx context.Context, cfg Config, logger *log.Logger) (*gsheet.Service, error) {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentSources)

	var (
		credentialsJSON []byte
		err             error
	)
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		logger.InfoContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(cfg.CredentialsJSON)
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		logger.InfoContext(ctx, "Reading credentials from file", "path", cfg.CredentialsFile)
		credentialsJSON, err = os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	logger.InfoContext(ctx, "Google Sheets service created", log.FieldSource, cfg.SpreadsheetID)
	return service, nil
}
