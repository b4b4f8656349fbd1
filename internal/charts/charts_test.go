package charts

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"desmatamento/internal/dashboard"
	"desmatamento/internal/dataset"
	"desmatamento/internal/filter"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func exampleModel() dashboard.Model {
	svc := dashboard.NewService(dataset.ExampleDataset(), dashboard.DefaultOptions())
	return svc.Build(svc.NewSelection(), 1)
}

func TestRenderPNG(t *testing.T) {
	m := exampleModel()
	empty := dashboard.Model{Selection: filter.Selection{}}

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			png, err := RenderPNG(name, m)
			if err != nil {
				t.Fatalf("RenderPNG: %v", err)
			}
			if !bytes.HasPrefix(png, pngSignature) {
				t.Fatalf("output is not a PNG")
			}

			png, err = RenderPNG(name, empty)
			if err != nil {
				t.Fatalf("RenderPNG on empty model: %v", err)
			}
			if !bytes.HasPrefix(png, pngSignature) {
				t.Fatalf("empty output is not a PNG")
			}
		})
	}
}

func TestRenderPNG_UnknownChart(t *testing.T) {
	if Valid("pie") {
		t.Fatal("pie should not be a valid chart")
	}
	if _, err := RenderPNG("pie", exampleModel()); !errors.Is(err, ErrUnknownChart) {
		t.Fatalf("err = %v, want ErrUnknownChart", err)
	}
}

func TestRenderer_Caches(t *testing.T) {
	r := NewRenderer(8, time.Minute, nil)
	m := exampleModel()

	first, err := r.PNG(context.Background(), GDP, m)
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	if r.Cache().Size() != 1 {
		t.Fatalf("cache size = %d, want 1", r.Cache().Size())
	}
	second, err := r.PNG(context.Background(), GDP, m)
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	if &first[0] != &second[0] {
		t.Fatal("second call should be served from cache")
	}

	if _, err := r.PNG(context.Background(), "pie", m); err == nil {
		t.Fatal("expected error for unknown chart")
	}
}

func TestYearTicks(t *testing.T) {
	ticks := yearTicks{}.Ticks(2009.5, 2012)
	if len(ticks) != 3 || ticks[0].Label != "2010" || ticks[2].Label != "2012" {
		t.Fatalf("ticks = %+v", ticks)
	}
}
