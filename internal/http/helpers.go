package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"
	"time"

	"desmatamento/internal/analysis"
	"desmatamento/internal/core"
)

// templateFuncs are available to every dashboard template.
var templateFuncs = template.FuncMap{
	"number":   formatNumber,
	"percent":  formatPercent,
	"millions": func(v float64) string { return formatNumber(analysis.Millions(v), 2) },
	"sector":   sectorLabel,
	"datetime": func(t time.Time) string { return t.Format("02/01/2006 15:04") },
}

// formatNumber renders v with pt-BR separators, e.g. 1234.5 -> "1.234,50".
func formatNumber(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	neg := v < 0
	s := strconv.FormatFloat(math.Abs(v), 'f', decimals, 64)

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if frac != "" {
		out += "," + frac
	}
	if neg && strings.Trim(out, "0.,") != "" {
		out = "-" + out
	}
	return out
}

// formatPercent renders one decimal, e.g. 12.34 -> "12,3%".
func formatPercent(p float64) string {
	return formatNumber(p, 1) + "%"
}

func sectorLabel(s core.Sector) string {
	switch s {
	case core.SectorServices:
		return "Serviços"
	case core.SectorIndustry:
		return "Indústria"
	case core.SectorAgriculture:
		return "Agropecuária"
	default:
		return string(s)
	}
}

// sanitizeInput removes control characters except tab and newlines, and
// trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
