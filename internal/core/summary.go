package core

// Insights are the three headline cards of the dashboard.
type Insights struct {
	DeforestationTrend Trend  `json:"deforestation_trend"`
	GDPGrowth          Trend  `json:"gdp_growth"`
	PredominantSector  Sector `json:"predominant_sector"`
	HasSector          bool   `json:"has_sector"`
}

// Trend is a percentage change between the first and last year of a range.
type Trend struct {
	Available bool    `json:"available"`
	Percent   float64 `json:"percent"`
	FromYear  int     `json:"from_year"`
	ToYear    int     `json:"to_year"`
}

// Sector names an economic activity breakdown.
type Sector string

const (
	SectorAgriculture Sector = "agriculture"
	SectorIndustry    Sector = "industry"
	SectorServices    Sector = "services"
)

// ScatterPoint feeds the deforestation vs GDP scatter chart.
type ScatterPoint struct {
	Municipality   string  `json:"municipality"`
	Year           int     `json:"year"`
	DeforestedArea float64 `json:"deforested_area"`
	GDPMillions    float64 `json:"gdp_millions"`
	GDPPerCapita   float64 `json:"gdp_per_capita"`
}

// MunicipalityTotal is a municipality with its summed deforested area.
type MunicipalityTotal struct {
	Municipality string  `json:"municipality"`
	Area         float64 `json:"area"`
}
