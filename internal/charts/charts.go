// Package charts renders the dashboard charts to PNG with gonum/plot.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"desmatamento/internal/core"
	"desmatamento/internal/dashboard"
)

// Chart names served under /charts/{name}.png.
const (
	Deforestation = "deforestation"
	GDP           = "gdp"
	Sectors       = "sectors"
	Scatter       = "scatter"
)

var ErrUnknownChart = errors.New("unknown chart")

const (
	defaultWidth  = 8 * vg.Inch
	defaultHeight = 4 * vg.Inch
	noDataTitle   = "Sem dados para os filtros selecionados"
)

var (
	colorDeforestation = color.RGBA{R: 220, G: 38, B: 38, A: 255}
	colorGDP           = color.RGBA{R: 37, G: 99, B: 235, A: 255}
	colorAgriculture   = color.RGBA{R: 34, G: 139, B: 34, A: 255}
	colorIndustry      = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	colorServices      = color.RGBA{R: 70, G: 130, B: 180, A: 255}
)

// Names lists every chart in display order.
func Names() []string {
	return []string{Deforestation, GDP, Sectors, Scatter}
}

// Valid reports whether name is a known chart.
func Valid(name string) bool {
	for _, n := range Names() {
		if n == name {
			return true
		}
	}
	return false
}

// RenderPNG draws the named chart for m.
func RenderPNG(name string, m dashboard.Model) ([]byte, error) {
	var (
		p   *plot.Plot
		err error
	)
	switch name {
	case Deforestation:
		p, err = deforestationPlot(m.YearAggregates)
	case GDP:
		p, err = gdpPlot(m.YearAggregatesMillions)
	case Sectors:
		p, err = sectorsPlot(m.YearAggregatesMillions)
	case Scatter:
		p, err = scatterPlot(m.Scatter)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
	if err != nil {
		return nil, fmt.Errorf("build %s chart: %w", name, err)
	}
	return encode(p, defaultWidth, defaultHeight)
}

func encode(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("png writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

func yearSeries(aggs []core.YearAggregate, value func(core.YearAggregate) float64) plotter.XYs {
	xys := make(plotter.XYs, len(aggs))
	for i, a := range aggs {
		xys[i].X = float64(a.Year)
		xys[i].Y = value(a)
	}
	return xys
}

func lineWithPoints(xys plotter.XYs, c color.Color) (*plotter.Line, *plotter.Scatter, error) {
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, nil, err
	}
	line.Color = c
	line.Width = vg.Points(2)

	points, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, nil, err
	}
	points.GlyphStyle.Color = c
	points.GlyphStyle.Radius = vg.Points(3)
	points.GlyphStyle.Shape = draw.CircleGlyph{}
	return line, points, nil
}

func deforestationPlot(aggs []core.YearAggregate) (*plot.Plot, error) {
	p := newPlot("Desmatamento total por ano", "Ano", "Área desmatada (km²)")
	if len(aggs) == 0 {
		p.Title.Text = noDataTitle
		return p, nil
	}
	line, points, err := lineWithPoints(yearSeries(aggs, func(a core.YearAggregate) float64 {
		return a.TotalDeforestation
	}), colorDeforestation)
	if err != nil {
		return nil, err
	}
	p.Add(line, points)
	p.X.Tick.Marker = yearTicks{}
	return p, nil
}

func gdpPlot(aggs []core.YearAggregate) (*plot.Plot, error) {
	p := newPlot("PIB total por ano", "Ano", "PIB (R$ milhões)")
	if len(aggs) == 0 {
		p.Title.Text = noDataTitle
		return p, nil
	}
	line, points, err := lineWithPoints(yearSeries(aggs, func(a core.YearAggregate) float64 {
		return a.TotalGDP
	}), colorGDP)
	if err != nil {
		return nil, err
	}
	p.Add(line, points)
	p.X.Tick.Marker = yearTicks{}
	return p, nil
}

func sectorsPlot(aggs []core.YearAggregate) (*plot.Plot, error) {
	p := newPlot("Valor adicionado por setor", "Ano", "R$ milhões")
	if len(aggs) == 0 {
		p.Title.Text = noDataTitle
		return p, nil
	}

	series := []struct {
		label string
		color color.Color
		value func(core.YearAggregate) float64
	}{
		{"Agropecuária", colorAgriculture, func(a core.YearAggregate) float64 { return a.TotalAgriculture }},
		{"Indústria", colorIndustry, func(a core.YearAggregate) float64 { return a.TotalIndustry }},
		{"Serviços", colorServices, func(a core.YearAggregate) float64 { return a.TotalServices }},
	}

	width := vg.Points(8)
	for i, s := range series {
		values := make(plotter.Values, len(aggs))
		for j, a := range aggs {
			values[j] = s.value(a)
		}
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return nil, err
		}
		bars.Color = s.color
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = vg.Length(i-1) * width
		p.Add(bars)
		p.Legend.Add(s.label, bars)
	}
	p.Legend.Top = true

	labels := make([]string, len(aggs))
	for i, a := range aggs {
		labels[i] = strconv.Itoa(a.Year)
	}
	p.NominalX(labels...)
	return p, nil
}

func scatterPlot(points []core.ScatterPoint) (*plot.Plot, error) {
	p := newPlot("Desmatamento vs PIB", "Área desmatada (km²)", "PIB (R$ milhões)")
	if len(points) == 0 {
		p.Title.Text = noDataTitle
		return p, nil
	}
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = pt.DeforestedArea
		xys[i].Y = pt.GDPMillions
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Color = colorDeforestation
	s.GlyphStyle.Radius = vg.Points(4)
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(s)
	return p, nil
}

// yearTicks labels every integer year inside the axis range.
type yearTicks struct{}

func (yearTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for y := int(min); float64(y) <= max; y++ {
		if float64(y) < min {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: float64(y), Label: strconv.Itoa(y)})
	}
	return ticks
}
