package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"desmatamento/internal/core"
	"desmatamento/internal/log"

	_ "modernc.org/sqlite"
)

// ErrNoSnapshot means no import has been recorded yet.
var ErrNoSnapshot = errors.New("no dataset snapshot imported")

// Import describes one snapshot written by ReplaceSnapshot.
type Import struct {
	ID                int64     `json:"id"`
	Source            string    `json:"source"`
	DeforestationRows int       `json:"deforestation_rows"`
	EconomicRows      int       `json:"economic_rows"`
	ImportedAt        time.Time `json:"imported_at"`
}

// SQLiteRepository stores a cleaned dataset snapshot.
type SQLiteRepository struct {
	db     *sql.DB
	logger *log.Logger
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:     db,
		logger: log.FromContext(context.Background()).WithComponent(log.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReplaceSnapshot swaps the stored dataset for ds in one transaction.
// Duplicate keys keep the last record, matching the join.
func (r *SQLiteRepository) ReplaceSnapshot(ctx context.Context, ds core.Dataset) (Import, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Import{}, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM deforestation`, `DELETE FROM economic`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return Import{}, fmt.Errorf("clear snapshot: %w", err)
		}
	}

	defStmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO deforestation (municipality, year, area_km) VALUES (?, ?, ?)`)
	if err != nil {
		return Import{}, fmt.Errorf("prepare deforestation insert: %w", err)
	}
	defer defStmt.Close()
	for _, d := range ds.Deforestation {
		if _, err := defStmt.ExecContext(ctx, d.Municipality, d.Year, d.DeforestedArea); err != nil {
			return Import{}, fmt.Errorf("insert deforestation %s/%d: %w", d.Municipality, d.Year, err)
		}
	}

	ecoStmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO economic
			(municipality, year, gdp, gdp_per_capita, agriculture_value, industry_value, services_value)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Import{}, fmt.Errorf("prepare economic insert: %w", err)
	}
	defer ecoStmt.Close()
	for _, e := range ds.Economic {
		if _, err := ecoStmt.ExecContext(ctx, e.Municipality, e.Year, e.GDP, e.GDPPerCapita,
			e.AgricultureValue, e.IndustryValue, e.ServicesValue); err != nil {
			return Import{}, fmt.Errorf("insert economic %s/%d: %w", e.Municipality, e.Year, err)
		}
	}

	// Counts come from the tables since INSERT OR REPLACE folds duplicate keys.
	imp := Import{Source: ds.Source, ImportedAt: time.Now().UTC()}
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM deforestation`).Scan(&imp.DeforestationRows); err != nil {
		return Import{}, fmt.Errorf("count deforestation: %w", err)
	}
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM economic`).Scan(&imp.EconomicRows); err != nil {
		return Import{}, fmt.Errorf("count economic: %w", err)
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO imports (source, deforestation_rows, economic_rows, imported_at) VALUES (?, ?, ?, ?)`,
		imp.Source, imp.DeforestationRows, imp.EconomicRows, imp.ImportedAt)
	if err != nil {
		return Import{}, fmt.Errorf("record import: %w", err)
	}
	if imp.ID, err = res.LastInsertId(); err != nil {
		return Import{}, fmt.Errorf("import id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Import{}, fmt.Errorf("commit snapshot: %w", err)
	}

	r.logger.InfoContext(ctx, "Dataset snapshot stored",
		"import_id", imp.ID,
		log.FieldSource, imp.Source,
		log.FieldDeforestRows, imp.DeforestationRows,
		log.FieldEconomicRows, imp.EconomicRows)
	return imp, nil
}

// Deforestation returns the stored records ordered by municipality, year.
func (r *SQLiteRepository) Deforestation(ctx context.Context) ([]core.DeforestationRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT municipality, year, area_km FROM deforestation ORDER BY municipality, year`)
	if err != nil {
		return nil, fmt.Errorf("query deforestation: %w", err)
	}
	defer rows.Close()

	var out []core.DeforestationRecord
	for rows.Next() {
		var d core.DeforestationRecord
		if err := rows.Scan(&d.Municipality, &d.Year, &d.DeforestedArea); err != nil {
			return nil, fmt.Errorf("scan deforestation: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Economic returns the stored records ordered by municipality, year.
func (r *SQLiteRepository) Economic(ctx context.Context) ([]core.EconomicRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT municipality, year, gdp, gdp_per_capita, agriculture_value, industry_value, services_value
		 FROM economic ORDER BY municipality, year`)
	if err != nil {
		return nil, fmt.Errorf("query economic: %w", err)
	}
	defer rows.Close()

	var out []core.EconomicRecord
	for rows.Next() {
		var e core.EconomicRecord
		if err := rows.Scan(&e.Municipality, &e.Year, &e.GDP, &e.GDPPerCapita,
			&e.AgricultureValue, &e.IndustryValue, &e.ServicesValue); err != nil {
			return nil, fmt.Errorf("scan economic: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// LatestImport returns the most recent import or ErrNoSnapshot.
func (r *SQLiteRepository) LatestImport(ctx context.Context) (Import, error) {
	var imp Import
	err := r.db.QueryRowContext(ctx,
		`SELECT id, source, deforestation_rows, economic_rows, imported_at
		 FROM imports ORDER BY id DESC LIMIT 1`).
		Scan(&imp.ID, &imp.Source, &imp.DeforestationRows, &imp.EconomicRows, &imp.ImportedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Import{}, ErrNoSnapshot
	}
	if err != nil {
		return Import{}, fmt.Errorf("query latest import: %w", err)
	}
	return imp, nil
}

// Ping is used by the readiness probe.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
