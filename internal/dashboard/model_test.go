package dashboard

import (
	"errors"
	"reflect"
	"testing"

	"desmatamento/internal/core"
	"desmatamento/internal/dataset"
	"desmatamento/internal/filter"
)

func scenarioDataset(t *testing.T) core.Dataset {
	t.Helper()
	ds, err := dataset.Build(
		[]dataset.RawRow{
			{"municipality": "A", "year": "2010", "area_km": "5.5"},
			{"municipality": "B", "year": "2010", "area_km": "bad"},
		},
		[]dataset.RawRow{
			{"municipio": "A", "ANO": "2010", "pib": "100"},
			{"municipio": "B", "ANO": "2010", "pib": "200"},
		},
	)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return ds
}

func TestBuild_SingleMunicipalityScenario(t *testing.T) {
	svc := NewService(scenarioDataset(t), DefaultOptions())
	sel := filter.Selection{Municipalities: []string{"A"}, YearStart: 2010, YearEnd: 2010, Bounds: filter.DefaultBounds()}

	m := svc.Build(sel, 1)
	wantJoined := []core.JoinedRecord{{Municipality: "A", Year: 2010, DeforestedArea: 5.5, GDP: 100}}
	if !reflect.DeepEqual(m.FilteredJoined, wantJoined) {
		t.Fatalf("joined %+v", m.FilteredJoined)
	}
	wantAggs := []core.YearAggregate{{Year: 2010, TotalDeforestation: 5.5, TotalGDP: 100}}
	if !reflect.DeepEqual(m.YearAggregates, wantAggs) {
		t.Fatalf("aggregates %+v", m.YearAggregates)
	}
	if !reflect.DeepEqual(m.JoinedAggregates, wantAggs) {
		t.Fatalf("joined aggregates %+v", m.JoinedAggregates)
	}
	if m.YearAggregatesMillions[0].TotalGDP != 0.0001 {
		t.Fatalf("millions %+v", m.YearAggregatesMillions[0])
	}
	if !reflect.DeepEqual(m.MunicipalityUniverse, []string{"A", "B"}) {
		t.Fatalf("universe %v", m.MunicipalityUniverse)
	}
	if m.Table.Total != 1 || m.Empty() {
		t.Fatalf("table %+v", m.Table)
	}
}

func TestBuild_FallbackUniverseNotEmpty(t *testing.T) {
	_, err := dataset.Build(nil, nil)
	if !errors.Is(err, dataset.ErrEmptyDataset) {
		t.Fatalf("expected empty dataset error, got %v", err)
	}
	svc := NewService(dataset.ExampleDataset(), DefaultOptions())
	m := svc.Build(svc.NewSelection(), 1)
	if len(m.MunicipalityUniverse) == 0 || len(m.Selection.Municipalities) == 0 {
		t.Fatalf("fallback must yield a usable dashboard")
	}
	if !m.Dataset.Fallback {
		t.Fatalf("fallback flag lost")
	}
	if m.Empty() {
		t.Fatalf("default selection over example data should have rows")
	}
	if len(m.Years) != filter.DefaultMaxYear-filter.DefaultMinYear+1 {
		t.Fatalf("years %v", m.Years)
	}
}

func TestToggleMunicipality(t *testing.T) {
	svc := NewService(scenarioDataset(t), DefaultOptions())
	sel := svc.NewSelection()

	if _, err := svc.ToggleMunicipality(&sel, "Z"); !errors.Is(err, ErrUnknownMunicipality) {
		t.Fatalf("expected unknown municipality, got %v", err)
	}
	changed, err := svc.ToggleMunicipality(&sel, "B")
	if err != nil || !changed {
		t.Fatalf("toggle B: %v %v", changed, err)
	}
	changed, _ = svc.ToggleMunicipality(&sel, "A")
	if changed {
		t.Fatalf("removing the last municipality must be refused")
	}
	if !reflect.DeepEqual(sel.Municipalities, []string{"A"}) {
		t.Fatalf("selection %v", sel.Municipalities)
	}
}

func TestBuild_EmptyFilterAndStaleSelection(t *testing.T) {
	svc := NewService(scenarioDataset(t), DefaultOptions())
	sel := svc.NewSelection()
	svc.SetYearStart(&sel, 2015)
	m := svc.Build(sel, 1)
	if !m.Empty() || !m.Table.Empty {
		t.Fatalf("expected empty state, got %+v", m.Table)
	}

	stale := filter.Selection{Municipalities: []string{"Gone"}, YearStart: 2010, YearEnd: 2010}
	m = svc.Build(stale, 1)
	if !reflect.DeepEqual(m.Selection.Municipalities, []string{"A", "B"}) {
		t.Fatalf("stale selection should reset, got %v", m.Selection.Municipalities)
	}
}
