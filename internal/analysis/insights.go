package analysis

import (
	"sort"

	"desmatamento/internal/core"
)

// Summarize computes the headline insights over ascending year aggregates.
func Summarize(aggs []core.YearAggregate) core.Insights {
	var in core.Insights
	if len(aggs) == 0 {
		return in
	}
	first, last := aggs[0], aggs[len(aggs)-1]
	in.DeforestationTrend = trend(first.Year, last.Year, first.TotalDeforestation, last.TotalDeforestation, len(aggs))
	in.GDPGrowth = trend(first.Year, last.Year, first.TotalGDP, last.TotalGDP, len(aggs))
	in.PredominantSector = predominant(last)
	in.HasSector = true
	return in
}

func trend(fromYear, toYear int, first, last float64, n int) core.Trend {
	if n < 2 || first == 0 {
		return core.Trend{}
	}
	return core.Trend{
		Available: true,
		Percent:   (last/first - 1) * 100,
		FromYear:  fromYear,
		ToYear:    toYear,
	}
}

func predominant(a core.YearAggregate) core.Sector {
	switch {
	case a.TotalServices > a.TotalIndustry && a.TotalServices > a.TotalAgriculture:
		return core.SectorServices
	case a.TotalIndustry > a.TotalAgriculture:
		return core.SectorIndustry
	default:
		return core.SectorAgriculture
	}
}

// Scatter projects joined records onto the deforestation vs GDP plane,
// with GDP in millions.
func Scatter(joined []core.JoinedRecord) []core.ScatterPoint {
	out := make([]core.ScatterPoint, 0, len(joined))
	for _, r := range joined {
		out = append(out, core.ScatterPoint{
			Municipality:   r.Municipality,
			Year:           r.Year,
			DeforestedArea: r.DeforestedArea,
			GDPMillions:    Millions(r.GDP),
			GDPPerCapita:   r.GDPPerCapita,
		})
	}
	return out
}

// TopDeforesters ranks municipalities by total cleared area, descending,
// breaking ties by name. n <= 0 returns every municipality.
func TopDeforesters(def []core.DeforestationRecord, n int) []core.MunicipalityTotal {
	totals := make(map[string]float64)
	for _, r := range def {
		totals[r.Municipality] += r.DeforestedArea
	}
	out := make([]core.MunicipalityTotal, 0, len(totals))
	for name, area := range totals {
		out = append(out, core.MunicipalityTotal{Municipality: name, Area: area})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Area != out[j].Area {
			return out[i].Area > out[j].Area
		}
		return out[i].Municipality < out[j].Municipality
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
