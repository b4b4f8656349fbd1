package dataset

import (
	"sort"
	"strings"
)

// Field is a canonical column name.
type Field string

const (
	FieldMunicipality Field = "municipality"
	FieldYear         Field = "year"
	FieldArea         Field = "area"
	FieldGDP          Field = "gdp"
	FieldGDPPerCapita Field = "gdp_per_capita"
	FieldAgriculture  Field = "agriculture"
	FieldIndustry     Field = "industry"
	FieldServices     Field = "services"
)

// Aliases lists, per canonical field, the accepted source header names in
// the order they are tried.
var Aliases = map[Field][]string{
	FieldMunicipality: {"NM_MUN", "municipio", "municipality", "MUNICIPIO"},
	FieldYear:         {"year", "ano", "ANO", "YEAR"},
	FieldArea:         {"area_km", "AREA_KM", "area"},
	FieldGDP:          {"pib", "PIB"},
	FieldGDPPerCapita: {"pib_per_capita", "PIB_PER_CAPITA"},
	FieldAgriculture: {
		"Valor adicionado bruto da Agropecuária, a preços correntes (R$ 1.000)",
		"valor_agropecuaria",
		"VALOR_AGROPECUARIA",
	},
	FieldIndustry: {"valor_industria", "VALOR_INDUSTRIA"},
	FieldServices: {"valor_servicos", "VALOR_SERVICOS"},
}

// Resolve returns the value of field in row. The first alias holding a
// non-empty value wins; failing that, the first alias present at all is
// returned with its empty value. Header case is ignored as a last resort,
// trying aliases in order and differently cased headers in sorted order.
// The bool reports whether any alias key was present.
func Resolve(row RawRow, field Field) (string, bool) {
	aliases := Aliases[field]
	if v, ok := resolveExact(row, aliases); ok {
		return v, true
	}

	folded := make(map[string][]string, len(row))
	for key := range row {
		lower := strings.ToLower(key)
		folded[lower] = append(folded[lower], key)
	}
	present := false
	for _, name := range aliases {
		keys := folded[strings.ToLower(name)]
		sort.Strings(keys)
		for _, key := range keys {
			if v := row[key]; v != "" {
				return v, true
			}
			present = true
		}
	}
	return "", present
}

func resolveExact(row RawRow, aliases []string) (string, bool) {
	present := false
	for _, name := range aliases {
		v, ok := row[name]
		if !ok {
			continue
		}
		if v != "" {
			return v, true
		}
		present = true
	}
	return "", present
}
