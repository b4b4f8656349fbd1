// Package export writes the filtered dashboard data as an XLSX workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"desmatamento/internal/analysis"
	"desmatamento/internal/dashboard"
)

const (
	SheetData       = "Dados"
	SheetAggregates = "Agregados"
	SheetSelection  = "Filtros"
)

var (
	dataHeaders = []string{
		"Município", "Ano", "Desmatamento (km²)", "PIB (R$)", "PIB (R$ milhões)",
		"PIB per capita (R$)", "Agropecuária (R$)", "Indústria (R$)", "Serviços (R$)",
	}
	aggregateHeaders = []string{
		"Ano", "Desmatamento (km²)", "PIB (R$ milhões)",
		"Agropecuária (R$ milhões)", "Indústria (R$ milhões)", "Serviços (R$ milhões)",
	}
)

// Workbook builds the export for m. The caller closes the returned file.
func Workbook(m dashboard.Model) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetData); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	rows := make([][]interface{}, 0, len(m.FilteredJoined))
	for _, r := range m.FilteredJoined {
		rows = append(rows, []interface{}{
			r.Municipality, r.Year, r.DeforestedArea, r.GDP, analysis.Millions(r.GDP),
			r.GDPPerCapita, r.AgricultureValue, r.IndustryValue, r.ServicesValue,
		})
	}
	if err := writeSheet(f, SheetData, dataHeaders, rows); err != nil {
		f.Close()
		return nil, err
	}

	rows = make([][]interface{}, 0, len(m.YearAggregatesMillions))
	for _, a := range m.YearAggregatesMillions {
		rows = append(rows, []interface{}{
			a.Year, a.TotalDeforestation, a.TotalGDP,
			a.TotalAgriculture, a.TotalIndustry, a.TotalServices,
		})
	}
	if err := writeSheet(f, SheetAggregates, aggregateHeaders, rows); err != nil {
		f.Close()
		return nil, err
	}

	selection := [][]interface{}{
		{"Ano inicial", m.Selection.YearStart},
		{"Ano final", m.Selection.YearEnd},
		{"Fonte", m.Dataset.Source},
		{"Dados de exemplo", m.Dataset.Fallback},
	}
	for _, name := range m.Selection.Municipalities {
		selection = append(selection, []interface{}{"Município", name})
	}
	if err := writeSheet(f, SheetSelection, []string{"Filtro", "Valor"}, selection); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// WriteXLSX streams the workbook for m to w.
func WriteXLSX(w io.Writer, m dashboard.Model) error {
	f, err := Workbook(m)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}) error {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return fmt.Errorf("look up sheet %s: %w", sheet, err)
	}
	if idx == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("write %s header: %w", sheet, err)
		}
		col, _, _ := excelize.SplitCellName(cell)
		if err := f.SetColWidth(sheet, col, col, 20); err != nil {
			return fmt.Errorf("set %s column width: %w", sheet, err)
		}
	}

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("write %s row %d: %w", sheet, r+1, err)
			}
		}
	}
	return nil
}
