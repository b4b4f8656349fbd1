package dataset

import (
	"strings"

	"desmatamento/internal/core"
)

// CleanDeforestation keeps rows carrying a municipality, a readable year and
// an area column. The area column may be empty; it then coerces to 0.0.
func CleanDeforestation(rows []RawRow) []core.DeforestationRecord {
	out := make([]core.DeforestationRecord, 0, len(rows))
	for _, row := range rows {
		name, year, ok := keyOf(row)
		if !ok {
			continue
		}
		area, ok := Resolve(row, FieldArea)
		if !ok {
			continue
		}
		out = append(out, core.DeforestationRecord{
			Municipality:   name,
			Year:           year,
			DeforestedArea: CoerceNumber(area),
		})
	}
	return out
}

// CleanEconomic keeps rows carrying a municipality, a readable year and a
// non-empty GDP value under either naming convention. Each numeric field is
// coerced on its own.
func CleanEconomic(rows []RawRow) []core.EconomicRecord {
	out := make([]core.EconomicRecord, 0, len(rows))
	for _, row := range rows {
		name, year, ok := keyOf(row)
		if !ok {
			continue
		}
		gdp, _ := Resolve(row, FieldGDP)
		if strings.TrimSpace(gdp) == "" {
			continue
		}
		out = append(out, core.EconomicRecord{
			Municipality:     name,
			Year:             year,
			GDP:              CoerceNumber(gdp),
			GDPPerCapita:     number(row, FieldGDPPerCapita),
			AgricultureValue: number(row, FieldAgriculture),
			IndustryValue:    number(row, FieldIndustry),
			ServicesValue:    number(row, FieldServices),
		})
	}
	return out
}

func keyOf(row RawRow) (string, int, bool) {
	name, _ := Resolve(row, FieldMunicipality)
	y, _ := Resolve(row, FieldYear)
	year, ok := ParseYear(y)
	if !ok {
		return "", 0, false
	}
	k := core.Key{Municipality: strings.TrimSpace(name), Year: year}
	if k.Validate() != nil {
		return "", 0, false
	}
	return k.Municipality, k.Year, true
}

func number(row RawRow, f Field) float64 {
	v, _ := Resolve(row, f)
	return CoerceNumber(v)
}
