package dataset

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalize_TrimsAndSkipsBlankLines(t *testing.T) {
	input := "\xEF\xBB\xBF\" NM_MUN \", year ,area_km\n" +
		"  Altamira , 2010 , 161.2 \n" +
		"\n" +
		"   \n" +
		"Itaituba,2011\n" +
		"Marabá,2012,44.6,extra\n"

	rows, err := Normalize(strings.NewReader(input))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d: %+v", len(rows), rows)
	}
	if rows[0]["NM_MUN"] != "Altamira" || rows[0]["year"] != "2010" || rows[0]["area_km"] != "161.2" {
		t.Fatalf("row 0 not trimmed: %+v", rows[0])
	}
	if _, ok := rows[1]["area_km"]; ok {
		t.Fatalf("short row should lack trailing key: %+v", rows[1])
	}
	if len(rows[2]) != 3 {
		t.Fatalf("extra cells should be ignored: %+v", rows[2])
	}
}

func TestNormalize_Delimiter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"comma", "municipio,ANO,PIB\nBelém,2010,100\n", "100"},
		{"semicolon", "municipio;ANO;PIB\nBelém;2010;1.234,5\n", "1.234,5"},
		{"quoted comma label", "municipio,ANO,\"Valor adicionado bruto da Agropecuária, a preços correntes (R$ 1.000)\",PIB\nBelém,2010,7,100\n", "100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Normalize(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if len(rows) != 1 {
				t.Fatalf("expected 1 row, got %d", len(rows))
			}
			if got := rows[0]["PIB"]; got != tt.want {
				t.Fatalf("PIB = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize_MissingHeader(t *testing.T) {
	for _, input := range []string{"", "\n\n", " , , \n"} {
		if _, err := Normalize(strings.NewReader(input)); !errors.Is(err, ErrMissingHeader) {
			t.Errorf("input %q: expected ErrMissingHeader, got %v", input, err)
		}
	}
}

func TestNormalizeValues(t *testing.T) {
	values := [][]interface{}{
		{"municipio", "ANO", "pib"},
		{"Altamira", 2010.0, 1048000.5},
		{},
		{"Itaituba", "2011"},
	}
	rows, err := NormalizeValues(values)
	if err != nil {
		t.Fatalf("normalize values: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["ANO"] != "2010" || rows[0]["pib"] != "1048000.5" {
		t.Fatalf("unexpected cell rendering: %+v", rows[0])
	}
	if _, ok := rows[1]["pib"]; ok {
		t.Fatalf("short row should lack pib: %+v", rows[1])
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		row     RawRow
		field   Field
		want    string
		present bool
	}{
		{"first alias", RawRow{"NM_MUN": "A", "municipio": "B"}, FieldMunicipality, "A", true},
		{"empty falls through", RawRow{"NM_MUN": "", "municipio": "B"}, FieldMunicipality, "B", true},
		{"present but empty", RawRow{"area_km": ""}, FieldArea, "", true},
		{"uppercase convention", RawRow{"PIB": "10"}, FieldGDP, "10", true},
		{"long label", RawRow{"Valor adicionado bruto da Agropecuária, a preços correntes (R$ 1.000)": "7"}, FieldAgriculture, "7", true},
		{"case insensitive", RawRow{"Pib_Per_Capita": "3"}, FieldGDPPerCapita, "3", true},
		{"absent", RawRow{"other": "x"}, FieldServices, "", false},
		{"case insensitive follows alias order", RawRow{"MUNICIPALITY": "X", "Municipio": "Y"}, FieldMunicipality, "Y", true},
		{"case insensitive skips empty", RawRow{"Ano": "", "YEAR_": "1", "Year": "2011"}, FieldYear, "2011", true},
		{"case insensitive present but empty", RawRow{"Area": ""}, FieldArea, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.row, tt.field)
			if got != tt.want || ok != tt.present {
				t.Fatalf("Resolve = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.present)
			}
		})
	}
}

func TestResolve_CaseCollisionIsStable(t *testing.T) {
	row := RawRow{"Year": "2011", "YeAr": "2012", "yEAR": "2013"}
	for i := 0; i < 50; i++ {
		if got, _ := Resolve(row, FieldYear); got != "2012" {
			t.Fatalf("run %d: Resolve = %q, want the first header in sorted order", i, got)
		}
	}
}
