package analysis

import (
	"sort"

	"desmatamento/internal/core"
)

const million = 1_000_000

// AggregateByYear sums each subset per year over the union of their years,
// ascending. Years without records are omitted.
func AggregateByYear(def []core.DeforestationRecord, eco []core.EconomicRecord) []core.YearAggregate {
	byYear := make(map[int]*core.YearAggregate)
	get := func(year int) *core.YearAggregate {
		a, ok := byYear[year]
		if !ok {
			a = &core.YearAggregate{Year: year}
			byYear[year] = a
		}
		return a
	}
	for _, r := range def {
		get(r.Year).TotalDeforestation += r.DeforestedArea
	}
	for _, r := range eco {
		a := get(r.Year)
		a.TotalGDP += r.GDP
		a.TotalAgriculture += r.AgricultureValue
		a.TotalIndustry += r.IndustryValue
		a.TotalServices += r.ServicesValue
	}
	return flatten(byYear)
}

// AggregateJoined groups joined records by year.
func AggregateJoined(joined []core.JoinedRecord) []core.YearAggregate {
	byYear := make(map[int]*core.YearAggregate)
	for _, r := range joined {
		a, ok := byYear[r.Year]
		if !ok {
			a = &core.YearAggregate{Year: r.Year}
			byYear[r.Year] = a
		}
		a.TotalDeforestation += r.DeforestedArea
		a.TotalGDP += r.GDP
		a.TotalAgriculture += r.AgricultureValue
		a.TotalIndustry += r.IndustryValue
		a.TotalServices += r.ServicesValue
	}
	return flatten(byYear)
}

// Millions converts a monetary value for display.
func Millions(v float64) float64 {
	return v / million
}

// ToMillions expresses the monetary totals of a in millions. Deforestation
// stays in km².
func ToMillions(a core.YearAggregate) core.YearAggregate {
	a.TotalGDP = Millions(a.TotalGDP)
	a.TotalAgriculture = Millions(a.TotalAgriculture)
	a.TotalIndustry = Millions(a.TotalIndustry)
	a.TotalServices = Millions(a.TotalServices)
	return a
}

func flatten(byYear map[int]*core.YearAggregate) []core.YearAggregate {
	out := make([]core.YearAggregate, 0, len(byYear))
	for _, a := range byYear {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
