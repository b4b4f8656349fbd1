package dataset

import (
	"strconv"

	"desmatamento/internal/core"
)

// DeforestationRow renders a record back into a RawRow under the primary
// alias of each field, so stored snapshots go through the same cleaner as
// files.
func DeforestationRow(r core.DeforestationRecord) RawRow {
	return RawRow{
		Aliases[FieldMunicipality][0]: r.Municipality,
		Aliases[FieldYear][0]:         strconv.Itoa(r.Year),
		Aliases[FieldArea][0]:         formatFloat(r.DeforestedArea),
	}
}

// EconomicRow is the EconomicRecord counterpart of DeforestationRow.
func EconomicRow(r core.EconomicRecord) RawRow {
	return RawRow{
		Aliases[FieldMunicipality][0]: r.Municipality,
		Aliases[FieldYear][0]:         strconv.Itoa(r.Year),
		Aliases[FieldGDP][0]:          formatFloat(r.GDP),
		Aliases[FieldGDPPerCapita][0]: formatFloat(r.GDPPerCapita),
		Aliases[FieldAgriculture][0]:  formatFloat(r.AgricultureValue),
		Aliases[FieldIndustry][0]:     formatFloat(r.IndustryValue),
		Aliases[FieldServices][0]:     formatFloat(r.ServicesValue),
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
