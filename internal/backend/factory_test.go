package backend

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"desmatamento/internal/config"
	"desmatamento/internal/storage"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "memory"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}

	cfg, err := FromAppConfig(&config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db"})
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "x.db" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"files without paths", Config{Type: FilesBackend}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"sheets without id", Config{Type: SheetsBackend}, true},
		{"sheets without credentials", Config{
			Type:                     SheetsBackend,
			GoogleSpreadsheetID:      "id",
			GoogleDeforestationRange: "a!A:C",
			GoogleEconomicRange:      "b!A:H",
		}, true},
		{"sheets complete", Config{
			Type:                     SheetsBackend,
			GoogleSpreadsheetID:      "id",
			GoogleDeforestationRange: "a!A:C",
			GoogleEconomicRange:      "b!A:H",
			GoogleServiceAccountFile: "sa.json",
		}, false},
		{"unknown", Config{Type: "memory"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateBackend(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(nil)

	res, err := f.CreateBackend(ctx, Config{Type: FilesBackend})
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	if res.Source.Name() != "bundled" || res.Cleanup != nil {
		t.Fatalf("files result = %+v", res)
	}

	res, err = f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "db", "d.db")})
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	if res.Source.Name() != "sqlite" || res.Cleanup == nil || res.Ready == nil {
		t.Fatalf("sqlite result = %+v", res)
	}
	if err := res.Ready(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if _, err := res.LatestImport(ctx); !errors.Is(err, storage.ErrNoSnapshot) {
		t.Fatalf("fresh database should have no snapshot, got %v", err)
	}
	if err := res.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	_, err = f.CreateBackend(ctx, Config{
		Type:                     SheetsBackend,
		GoogleSpreadsheetID:      "id",
		GoogleDeforestationRange: "a!A:C",
		GoogleEconomicRange:      "b!A:H",
		GoogleServiceAccountFile: filepath.Join(t.TempDir(), "missing.json"),
	})
	if err == nil {
		t.Fatal("expected error for unreadable credentials file")
	}
}
