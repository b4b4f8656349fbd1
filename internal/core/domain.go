package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// DeforestationRecord is one municipality-year observation of cleared area in km².
	DeforestationRecord struct {
		Municipality   string  `json:"municipality"`
		Year           int     `json:"year"`
		DeforestedArea float64 `json:"deforested_area"`
	}

	// EconomicRecord is one municipality-year observation of GDP and its breakdowns.
	EconomicRecord struct {
		Municipality     string  `json:"municipality"`
		Year             int     `json:"year"`
		GDP              float64 `json:"gdp"`
		GDPPerCapita     float64 `json:"gdp_per_capita"`
		AgricultureValue float64 `json:"agriculture_value"`
		IndustryValue    float64 `json:"industry_value"`
		ServicesValue    float64 `json:"services_value"`
	}

	// JoinedRecord exists only for keys present in both source collections.
	JoinedRecord struct {
		Municipality     string  `json:"municipality"`
		Year             int     `json:"year"`
		DeforestedArea   float64 `json:"deforested_area"`
		GDP              float64 `json:"gdp"`
		GDPPerCapita     float64 `json:"gdp_per_capita"`
		AgricultureValue float64 `json:"agriculture_value"`
		IndustryValue    float64 `json:"industry_value"`
		ServicesValue    float64 `json:"services_value"`
	}

	// YearAggregate sums a municipality subset for a single year.
	YearAggregate struct {
		Year               int     `json:"year"`
		TotalDeforestation float64 `json:"total_deforestation"`
		TotalGDP           float64 `json:"total_gdp"`
		TotalAgriculture   float64 `json:"total_agriculture"`
		TotalIndustry      float64 `json:"total_industry"`
		TotalServices      float64 `json:"total_services"`
	}

	// Key identifies a municipality-year pair.
	Key struct {
		Municipality string
		Year         int
	}

	// Dataset holds the canonical collections and where they came from.
	Dataset struct {
		Deforestation  []DeforestationRecord `json:"-"`
		Economic       []EconomicRecord      `json:"-"`
		Source         string                `json:"source"`
		Fallback       bool                  `json:"fallback"`
		FallbackReason string                `json:"fallback_reason,omitempty"`
		LoadedAt       time.Time             `json:"loaded_at"`
	}
)

var (
	ErrEmptyMunicipality = errors.New("empty municipality")
	ErrInvalidYear       = errors.New("invalid year")
)

func (r DeforestationRecord) Key() Key { return Key{Municipality: r.Municipality, Year: r.Year} }

func (r EconomicRecord) Key() Key { return Key{Municipality: r.Municipality, Year: r.Year} }

func (r JoinedRecord) Key() Key { return Key{Municipality: r.Municipality, Year: r.Year} }

func (k Key) Validate() error {
	if strings.TrimSpace(k.Municipality) == "" {
		return ErrEmptyMunicipality
	}
	if k.Year <= 0 {
		return ErrInvalidYear
	}
	return nil
}

// IsEmpty reports whether either collection has no rows.
func (d Dataset) IsEmpty() bool {
	return len(d.Deforestation) == 0 || len(d.Economic) == 0
}
