package dataset

import (
	"math"

	"desmatamento/internal/core"
)

// SourceExample names the bundled fallback dataset.
const SourceExample = "example"

const (
	exampleFirstYear = 2010
	exampleYears     = 12
)

type exampleMunicipality struct {
	name       string
	area       [exampleYears]float64 // km² cleared per year, 2010..2021
	gdp2010    float64               // R$ 1.000
	growth     float64
	population float64
	agro, ind  float64 // share of gross value added; services take the rest
}

var exampleMunicipalities = []exampleMunicipality{
	{
		name:    "Altamira",
		area:    [exampleYears]float64{161.2, 131.4, 123.9, 254.6, 227.3, 193.8, 352.1, 269.5, 387.2, 545.7, 620.4, 541.9},
		gdp2010: 1048000, growth: 0.082, population: 99075, agro: 0.14, ind: 0.21,
	},
	{
		name:    "Itaituba",
		area:    [exampleYears]float64{58.3, 72.1, 64.8, 93.5, 81.0, 105.6, 121.4, 138.9, 160.2, 212.7, 250.3, 266.8},
		gdp2010: 812000, growth: 0.071, population: 97493, agro: 0.11, ind: 0.24,
	},
	{
		name:    "Marabá",
		area:    [exampleYears]float64{44.6, 39.2, 31.7, 42.8, 37.9, 40.3, 52.6, 47.1, 55.9, 70.4, 61.2, 58.5},
		gdp2010: 4096000, growth: 0.065, population: 233669, agro: 0.06, ind: 0.39,
	},
	{
		name:    "Novo Progresso",
		area:    [exampleYears]float64{74.9, 98.6, 60.3, 111.7, 93.2, 101.5, 159.8, 145.6, 182.3, 247.1, 212.9, 276.4},
		gdp2010: 298000, growth: 0.093, population: 25124, agro: 0.31, ind: 0.12,
	},
	{
		name:    "Paragominas",
		area:    [exampleYears]float64{25.1, 19.8, 14.2, 12.9, 10.6, 15.3, 18.7, 16.2, 21.9, 28.4, 24.6, 22.3},
		gdp2010: 1124000, growth: 0.068, population: 97819, agro: 0.22, ind: 0.33,
	},
	{
		name:    "São Félix do Xingu",
		area:    [exampleYears]float64{233.5, 187.2, 211.9, 289.4, 263.8, 301.6, 412.7, 338.5, 466.1, 652.3, 701.8, 583.2},
		gdp2010: 486000, growth: 0.101, population: 91340, agro: 0.46, ind: 0.07,
	},
}

// ExampleDataset returns the bundled Pará dataset used when real input
// cannot be loaded. It is rebuilt on each call and never empty.
func ExampleDataset() core.Dataset {
	deforestation := make([]core.DeforestationRecord, 0, len(exampleMunicipalities)*exampleYears)
	economic := make([]core.EconomicRecord, 0, len(exampleMunicipalities)*exampleYears)

	for _, m := range exampleMunicipalities {
		for i := 0; i < exampleYears; i++ {
			year := exampleFirstYear + i
			deforestation = append(deforestation, core.DeforestationRecord{
				Municipality:   m.name,
				Year:           year,
				DeforestedArea: m.area[i],
			})

			gdp := round(m.gdp2010 * math.Pow(1+m.growth, float64(i)))
			// value added is roughly 88% of GDP, the rest being product taxes
			vab := gdp * 0.88
			economic = append(economic, core.EconomicRecord{
				Municipality:     m.name,
				Year:             year,
				GDP:              gdp,
				GDPPerCapita:     round(gdp * 1000 / (m.population * math.Pow(1.012, float64(i)))),
				AgricultureValue: round(vab * m.agro),
				IndustryValue:    round(vab * m.ind),
				ServicesValue:    round(vab * (1 - m.agro - m.ind)),
			})
		}
	}

	return core.Dataset{
		Deforestation: deforestation,
		Economic:      economic,
		Source:        SourceExample,
		Fallback:      true,
	}
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
