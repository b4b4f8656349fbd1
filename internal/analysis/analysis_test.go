package analysis

import (
	"math"
	"reflect"
	"testing"

	"desmatamento/internal/core"
)

func scenario() ([]core.DeforestationRecord, []core.EconomicRecord) {
	def := []core.DeforestationRecord{
		{Municipality: "A", Year: 2010, DeforestedArea: 5.5},
		{Municipality: "B", Year: 2010, DeforestedArea: 0},
	}
	eco := []core.EconomicRecord{
		{Municipality: "A", Year: 2010, GDP: 100},
		{Municipality: "B", Year: 2010, GDP: 200},
	}
	return def, eco
}

func TestJoin_Scenario(t *testing.T) {
	def, eco := scenario()
	got := Join(def, eco)
	want := []core.JoinedRecord{
		{Municipality: "A", Year: 2010, DeforestedArea: 5.5, GDP: 100},
		{Municipality: "B", Year: 2010, DeforestedArea: 0, GDP: 200},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}
}

func TestJoin_OnlyKeysInBoth(t *testing.T) {
	def := []core.DeforestationRecord{
		{Municipality: "A", Year: 2010, DeforestedArea: 1},
		{Municipality: "A", Year: 2011, DeforestedArea: 2},
		{Municipality: "B", Year: 2011, DeforestedArea: 3},
		{Municipality: "C", Year: 2010, DeforestedArea: 4},
	}
	eco := []core.EconomicRecord{
		{Municipality: "A", Year: 2011, GDP: 10},
		{Municipality: "B", Year: 2010, GDP: 20},
		{Municipality: "B", Year: 2011, GDP: 30},
		{Municipality: "D", Year: 2011, GDP: 40},
	}
	got := Join(def, eco)
	want := []core.Key{{Municipality: "A", Year: 2011}, {Municipality: "B", Year: 2011}}
	if len(got) != len(want) {
		t.Fatalf("got %d records: %+v", len(got), got)
	}
	for i, r := range got {
		if r.Key() != want[i] {
			t.Fatalf("record %d key %v, want %v", i, r.Key(), want[i])
		}
	}
}

func TestJoin_DuplicateKeysLastWins(t *testing.T) {
	def := []core.DeforestationRecord{
		{Municipality: "A", Year: 2010, DeforestedArea: 1},
		{Municipality: "A", Year: 2010, DeforestedArea: 9},
	}
	eco := []core.EconomicRecord{
		{Municipality: "A", Year: 2010, GDP: 1},
		{Municipality: "A", Year: 2010, GDP: 7},
	}
	got := Join(def, eco)
	if len(got) != 1 {
		t.Fatalf("expected a single record per key, got %+v", got)
	}
	if got[0].DeforestedArea != 9 || got[0].GDP != 7 {
		t.Fatalf("last occurrence should win: %+v", got[0])
	}
}

func TestJoin_UniqueKeys(t *testing.T) {
	def, eco := scenario()
	def = append(def, def...)
	eco = append(eco, eco...)
	seen := map[core.Key]bool{}
	for _, r := range Join(def, eco) {
		if seen[r.Key()] {
			t.Fatalf("duplicate joined key %v", r.Key())
		}
		seen[r.Key()] = true
	}
}

func TestMunicipalityUniverse(t *testing.T) {
	def := []core.DeforestationRecord{{Municipality: "Marabá"}, {Municipality: "Altamira"}, {Municipality: "Marabá"}}
	eco := []core.EconomicRecord{{Municipality: "Itaituba"}, {Municipality: "Altamira"}}
	want := []string{"Altamira", "Itaituba", "Marabá"}

	got := MunicipalityUniverse(def, eco)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if again := MunicipalityUniverse(def, eco); !reflect.DeepEqual(again, got) {
		t.Fatalf("universe not stable: %v vs %v", again, got)
	}
	if !reflect.DeepEqual(MunicipalityIntersection(def, eco), []string{"Altamira"}) {
		t.Fatalf("unexpected intersection")
	}
}

func TestYearIntersection(t *testing.T) {
	def := []core.DeforestationRecord{{Year: 2012}, {Year: 2010}, {Year: 2008}}
	eco := []core.EconomicRecord{{Year: 2010}, {Year: 2012}, {Year: 2021}}
	if got := YearIntersection(def, eco); !reflect.DeepEqual(got, []int{2010, 2012}) {
		t.Fatalf("got %v", got)
	}
}

func TestAggregateByYear(t *testing.T) {
	def := []core.DeforestationRecord{
		{Municipality: "A", Year: 2011, DeforestedArea: 2},
		{Municipality: "B", Year: 2011, DeforestedArea: 3},
		{Municipality: "A", Year: 2010, DeforestedArea: 1},
	}
	eco := []core.EconomicRecord{
		{Municipality: "A", Year: 2010, GDP: 10, AgricultureValue: 1, IndustryValue: 2, ServicesValue: 3},
		{Municipality: "B", Year: 2012, GDP: 5},
	}
	got := AggregateByYear(def, eco)
	want := []core.YearAggregate{
		{Year: 2010, TotalDeforestation: 1, TotalGDP: 10, TotalAgriculture: 1, TotalIndustry: 2, TotalServices: 3},
		{Year: 2011, TotalDeforestation: 5},
		{Year: 2012, TotalGDP: 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}
}

func TestAggregateByYear_Additive(t *testing.T) {
	a := []core.DeforestationRecord{{Municipality: "A", Year: 2010, DeforestedArea: 1.25}}
	b := []core.DeforestationRecord{{Municipality: "B", Year: 2010, DeforestedArea: 2.5}}
	ae := []core.EconomicRecord{{Municipality: "A", Year: 2010, GDP: 100, ServicesValue: 4}}
	be := []core.EconomicRecord{{Municipality: "B", Year: 2010, GDP: 50, ServicesValue: 6}}

	union := AggregateByYear(append(append([]core.DeforestationRecord{}, b...), a...), append(append([]core.EconomicRecord{}, be...), ae...))
	left := AggregateByYear(a, ae)
	right := AggregateByYear(b, be)
	if len(union) != 1 || len(left) != 1 || len(right) != 1 {
		t.Fatalf("expected single-year aggregates")
	}
	sum := core.YearAggregate{
		Year:               2010,
		TotalDeforestation: left[0].TotalDeforestation + right[0].TotalDeforestation,
		TotalGDP:           left[0].TotalGDP + right[0].TotalGDP,
		TotalServices:      left[0].TotalServices + right[0].TotalServices,
	}
	if union[0] != sum {
		t.Fatalf("union %+v != sum %+v", union[0], sum)
	}
}

func TestAggregateJoined(t *testing.T) {
	def, eco := scenario()
	got := AggregateJoined(Join(def, eco))
	if len(got) != 1 || got[0].TotalDeforestation != 5.5 || got[0].TotalGDP != 300 {
		t.Fatalf("unexpected aggregates %+v", got)
	}
}

func TestToMillions(t *testing.T) {
	a := core.YearAggregate{Year: 2010, TotalDeforestation: 12, TotalGDP: 3_500_000, TotalServices: 1_000_000}
	m := ToMillions(a)
	if m.TotalGDP != 3.5 || m.TotalServices != 1 || m.TotalDeforestation != 12 {
		t.Fatalf("unexpected conversion %+v", m)
	}
	if a.TotalGDP != 3_500_000 {
		t.Fatalf("input must not change")
	}
}

func TestSummarize(t *testing.T) {
	aggs := []core.YearAggregate{
		{Year: 2010, TotalDeforestation: 100, TotalGDP: 200},
		{Year: 2015, TotalDeforestation: 150, TotalGDP: 100, TotalAgriculture: 5, TotalIndustry: 7, TotalServices: 3},
	}
	in := Summarize(aggs)
	if !in.DeforestationTrend.Available || math.Abs(in.DeforestationTrend.Percent-50) > 1e-9 {
		t.Fatalf("deforestation trend %+v", in.DeforestationTrend)
	}
	if !in.GDPGrowth.Available || math.Abs(in.GDPGrowth.Percent+50) > 1e-9 {
		t.Fatalf("gdp growth %+v", in.GDPGrowth)
	}
	if in.DeforestationTrend.FromYear != 2010 || in.DeforestationTrend.ToYear != 2015 {
		t.Fatalf("trend years %+v", in.DeforestationTrend)
	}
	if !in.HasSector || in.PredominantSector != core.SectorIndustry {
		t.Fatalf("sector %q", in.PredominantSector)
	}

	single := Summarize(aggs[:1])
	if single.DeforestationTrend.Available || single.GDPGrowth.Available {
		t.Fatalf("a single year has no trend")
	}
	if Summarize(nil).HasSector {
		t.Fatalf("no aggregates, no sector")
	}
}

func TestPredominantSector(t *testing.T) {
	tests := []struct {
		agg  core.YearAggregate
		want core.Sector
	}{
		{core.YearAggregate{TotalAgriculture: 1, TotalIndustry: 2, TotalServices: 3}, core.SectorServices},
		{core.YearAggregate{TotalAgriculture: 1, TotalIndustry: 3, TotalServices: 3}, core.SectorIndustry},
		{core.YearAggregate{TotalAgriculture: 4, TotalIndustry: 3, TotalServices: 3}, core.SectorAgriculture},
		{core.YearAggregate{}, core.SectorAgriculture},
	}
	for i, tt := range tests {
		if got := predominant(tt.agg); got != tt.want {
			t.Errorf("case %d: got %s, want %s", i, got, tt.want)
		}
	}
}

func TestScatterAndRanking(t *testing.T) {
	joined := []core.JoinedRecord{{Municipality: "A", Year: 2010, DeforestedArea: 3, GDP: 2_000_000, GDPPerCapita: 9}}
	pts := Scatter(joined)
	if len(pts) != 1 || pts[0].GDPMillions != 2 || pts[0].GDPPerCapita != 9 {
		t.Fatalf("unexpected points %+v", pts)
	}

	def := []core.DeforestationRecord{
		{Municipality: "B", DeforestedArea: 2},
		{Municipality: "A", DeforestedArea: 1},
		{Municipality: "A", DeforestedArea: 1},
		{Municipality: "C", DeforestedArea: 5},
	}
	top := TopDeforesters(def, 2)
	want := []core.MunicipalityTotal{{Municipality: "C", Area: 5}, {Municipality: "A", Area: 2}}
	if !reflect.DeepEqual(top, want) {
		t.Fatalf("got %+v, want %+v", top, want)
	}
	if len(TopDeforesters(def, 0)) != 3 {
		t.Fatalf("n <= 0 keeps every municipality")
	}
}
