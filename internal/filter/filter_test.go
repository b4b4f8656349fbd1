package filter

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"desmatamento/internal/core"
)

var universe = []string{"Altamira", "Anapu", "Itaituba", "Marabá", "Novo Progresso", "Pacajá", "Portel"}

func TestNewSelection(t *testing.T) {
	s := NewSelection(universe, DefaultBounds(), DefaultDefaults())
	want := []string{"Altamira", "Anapu", "Itaituba", "Marabá", "Novo Progresso"}
	if !reflect.DeepEqual(s.Municipalities, want) {
		t.Fatalf("got %v", s.Municipalities)
	}
	if s.YearStart != 2010 || s.YearEnd != 2021 {
		t.Fatalf("years %d-%d", s.YearStart, s.YearEnd)
	}

	small := NewSelection([]string{"A", "B"}, DefaultBounds(), DefaultDefaults())
	if len(small.Municipalities) != 2 {
		t.Fatalf("small universe: %v", small.Municipalities)
	}

	clamped := NewSelection(universe, Bounds{MinYear: 2012, MaxYear: 2015}, DefaultDefaults())
	if clamped.YearStart != 2012 || clamped.YearEnd != 2015 {
		t.Fatalf("defaults not clamped: %d-%d", clamped.YearStart, clamped.YearEnd)
	}
}

func TestToggle(t *testing.T) {
	tests := []struct {
		name string
		sel  []string
		arg  string
	}{
		{"add then remove", []string{"A", "C"}, "B"},
		{"remove then add", []string{"A", "B", "C"}, "B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Selection{Municipalities: append([]string(nil), tt.sel...), Bounds: DefaultBounds()}
			if !s.Toggle(tt.arg) {
				t.Fatalf("first toggle should change selection")
			}
			if !s.Toggle(tt.arg) {
				t.Fatalf("second toggle should change selection")
			}
			if !reflect.DeepEqual(s.Municipalities, tt.sel) {
				t.Fatalf("double toggle not a no-op: %v", s.Municipalities)
			}
		})
	}
}

func TestToggle_KeepsLastMunicipality(t *testing.T) {
	s := Selection{Municipalities: []string{"A"}}
	if s.Toggle("A") {
		t.Fatalf("removing the last municipality must be refused")
	}
	if !reflect.DeepEqual(s.Municipalities, []string{"A"}) {
		t.Fatalf("selection changed: %v", s.Municipalities)
	}
	if s.Toggle("") {
		t.Fatalf("empty name is ignored")
	}
}

func TestToggle_DoesNotAliasClone(t *testing.T) {
	orig := Selection{Municipalities: []string{"A", "B", "C"}}
	c := orig.Clone()
	c.Toggle("B")
	c.Toggle("D")
	if !reflect.DeepEqual(orig.Municipalities, []string{"A", "B", "C"}) {
		t.Fatalf("clone mutated original: %v", orig.Municipalities)
	}
}

func TestSetYears(t *testing.T) {
	s := NewSelection(universe, DefaultBounds(), DefaultDefaults())

	s.SetYearStart(2019)
	if s.YearStart != 2019 || s.YearEnd != 2021 {
		t.Fatalf("got %d-%d", s.YearStart, s.YearEnd)
	}
	s.SetYearStart(2022)
	if s.YearStart != 2022 || s.YearEnd != 2022 {
		t.Fatalf("end should follow start: %d-%d", s.YearStart, s.YearEnd)
	}
	s.SetYearEnd(2015)
	if s.YearStart != 2015 || s.YearEnd != 2015 {
		t.Fatalf("start should follow end: %d-%d", s.YearStart, s.YearEnd)
	}
	s.SetYearStart(1990)
	s.SetYearEnd(2100)
	if s.YearStart != DefaultMinYear || s.YearEnd != DefaultMaxYear {
		t.Fatalf("years not clamped: %d-%d", s.YearStart, s.YearEnd)
	}
}

func TestSelectionJSONAndKey(t *testing.T) {
	s := NewSelection(universe, DefaultBounds(), DefaultDefaults())
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Selection
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Key() != s.Key() {
		t.Fatalf("key changed across JSON: %q vs %q", back.Key(), s.Key())
	}
	other := s.Clone()
	other.SetYearEnd(2020)
	if other.Key() == s.Key() {
		t.Fatalf("different selections share a key")
	}
}

func TestSelectionKey_SeparatorsInNames(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
	}{
		{"pipe", []string{"A|B"}, []string{"A", "B"}},
		{"colon", []string{"A:2010"}, []string{"A"}},
		{"length marker", []string{"1#A"}, []string{"A", "A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := Selection{Municipalities: tt.a, YearStart: 2010, YearEnd: 2012}
			y := Selection{Municipalities: tt.b, YearStart: 2010, YearEnd: 2012}
			if x.Key() == y.Key() {
				t.Fatalf("%v and %v share key %q", tt.a, tt.b, x.Key())
			}
		})
	}
}

func scenario() ([]core.DeforestationRecord, []core.EconomicRecord, []core.JoinedRecord) {
	def := []core.DeforestationRecord{
		{Municipality: "A", Year: 2010, DeforestedArea: 5.5},
		{Municipality: "B", Year: 2010, DeforestedArea: 0},
		{Municipality: "A", Year: 2011, DeforestedArea: math.NaN()},
	}
	eco := []core.EconomicRecord{
		{Municipality: "A", Year: 2010, GDP: 100},
		{Municipality: "B", Year: 2010, GDP: 200},
		{Municipality: "A", Year: 2011, GDP: math.Inf(1)},
	}
	joined := []core.JoinedRecord{
		{Municipality: "A", Year: 2010, DeforestedArea: 5.5, GDP: 100},
		{Municipality: "A", Year: 2011, DeforestedArea: math.NaN(), GDP: math.Inf(1)},
		{Municipality: "B", Year: 2010, GDP: 200},
	}
	return def, eco, joined
}

func TestApply_Scenario(t *testing.T) {
	def, eco, joined := scenario()
	sel := Selection{Municipalities: []string{"A"}, YearStart: 2010, YearEnd: 2010, Bounds: DefaultBounds()}
	v := Apply(sel, def, eco, joined)

	want := []core.JoinedRecord{{Municipality: "A", Year: 2010, DeforestedArea: 5.5, GDP: 100}}
	if !reflect.DeepEqual(v.Joined, want) {
		t.Fatalf("joined %+v", v.Joined)
	}
	if len(v.Deforestation) != 1 || len(v.Economic) != 1 {
		t.Fatalf("unexpected subsets %+v", v)
	}
}

func TestApply_FiniteAndIdempotent(t *testing.T) {
	def, eco, joined := scenario()
	sel := Selection{Municipalities: []string{"A", "B"}, YearStart: 2010, YearEnd: 2011, Bounds: DefaultBounds()}
	once := Apply(sel, def, eco, joined)
	for _, r := range once.Joined {
		if math.IsNaN(r.DeforestedArea) || math.IsInf(r.GDP, 0) {
			t.Fatalf("non-finite value leaked: %+v", r)
		}
	}
	twice := Apply(sel, once.Deforestation, once.Economic, once.Joined)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("filter not idempotent:\n%+v\n%+v", once, twice)
	}
}

func TestPaginate(t *testing.T) {
	rows := make([]core.JoinedRecord, 45)
	for i := range rows {
		rows[i] = core.JoinedRecord{Municipality: "A", Year: 2000 + i}
	}
	tests := []struct {
		name      string
		page      int
		wantNum   int
		wantLen   int
		wantFirst int
	}{
		{"first", 1, 1, 20, 2000},
		{"last", 3, 3, 5, 2040},
		{"past end", 9, 3, 5, 2040},
		{"before start", 0, 1, 20, 2000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(rows, tt.page, 0)
			if p.Number != tt.wantNum || len(p.Rows) != tt.wantLen || p.Rows[0].Year != tt.wantFirst {
				t.Fatalf("got page %d with %d rows starting %d", p.Number, len(p.Rows), p.Rows[0].Year)
			}
			if p.Total != 45 || p.Pages != 3 || !p.Truncated || p.Empty {
				t.Fatalf("unexpected metadata %+v", p)
			}
		})
	}

	empty := Paginate(nil, 1, 20)
	if !empty.Empty || empty.Total != 0 || len(empty.Rows) != 0 || empty.HasNext() {
		t.Fatalf("unexpected empty page %+v", empty)
	}
	full := Paginate(rows[:3], 1, 20)
	if full.Truncated || full.HasPrev() || full.HasNext() {
		t.Fatalf("a single page is not truncated: %+v", full)
	}
}
