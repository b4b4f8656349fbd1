// Package analysis derives read-only views from a cleaned dataset: the
// municipality universe, key intersections, the joined collection and
// per-year aggregates.
package analysis

import (
	"sort"

	"desmatamento/internal/core"
)

// MunicipalityUniverse is the sorted, deduplicated union of municipalities
// across both collections.
func MunicipalityUniverse(def []core.DeforestationRecord, eco []core.EconomicRecord) []string {
	seen := make(map[string]struct{}, len(def))
	for _, r := range def {
		seen[r.Municipality] = struct{}{}
	}
	for _, r := range eco {
		seen[r.Municipality] = struct{}{}
	}
	return sortedKeys(seen)
}

// YearIntersection lists, ascending, the years present in both collections.
func YearIntersection(def []core.DeforestationRecord, eco []core.EconomicRecord) []int {
	defYears := make(map[int]struct{})
	for _, r := range def {
		defYears[r.Year] = struct{}{}
	}
	both := make(map[int]struct{})
	for _, r := range eco {
		if _, ok := defYears[r.Year]; ok {
			both[r.Year] = struct{}{}
		}
	}
	years := make([]int, 0, len(both))
	for y := range both {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// MunicipalityIntersection lists, sorted, the municipalities present in both
// collections.
func MunicipalityIntersection(def []core.DeforestationRecord, eco []core.EconomicRecord) []string {
	defNames := make(map[string]struct{})
	for _, r := range def {
		defNames[r.Municipality] = struct{}{}
	}
	both := make(map[string]struct{})
	for _, r := range eco {
		if _, ok := defNames[r.Municipality]; ok {
			both[r.Municipality] = struct{}{}
		}
	}
	return sortedKeys(both)
}

// Join emits one record per (municipality, year) inside both intersections
// for which both collections hold a record. Duplicate keys within a
// collection resolve to the last occurrence. Output is ordered by
// municipality, then year.
func Join(def []core.DeforestationRecord, eco []core.EconomicRecord) []core.JoinedRecord {
	areas := make(map[core.Key]float64, len(def))
	for _, r := range def {
		areas[r.Key()] = r.DeforestedArea
	}
	economics := make(map[core.Key]core.EconomicRecord, len(eco))
	for _, r := range eco {
		economics[r.Key()] = r
	}

	years := YearIntersection(def, eco)
	names := MunicipalityIntersection(def, eco)
	out := make([]core.JoinedRecord, 0, len(areas))
	for _, name := range names {
		for _, year := range years {
			k := core.Key{Municipality: name, Year: year}
			area, ok := areas[k]
			if !ok {
				continue
			}
			e, ok := economics[k]
			if !ok {
				continue
			}
			out = append(out, core.JoinedRecord{
				Municipality:     name,
				Year:             year,
				DeforestedArea:   area,
				GDP:              e.GDP,
				GDPPerCapita:     e.GDPPerCapita,
				AgricultureValue: e.AgricultureValue,
				IndustryValue:    e.IndustryValue,
				ServicesValue:    e.ServicesValue,
			})
		}
	}
	return out
}

// JoinDataset is Join over a Dataset's collections.
func JoinDataset(ds core.Dataset) []core.JoinedRecord {
	return Join(ds.Deforestation, ds.Economic)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
