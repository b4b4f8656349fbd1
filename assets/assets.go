package assets

import "embed"

// DataFS embeds the bundled Pará datasets served when no CSV path is set.
//
//go:embed data/*.csv
var DataFS embed.FS

// Paths of the bundled files inside DataFS.
const (
	DeforestationFile = "data/desmatamento_prodes_para_municipios_2008_2024.csv"
	EconomicFile      = "data/pib_para_estudo.csv"
)
