package core

import "testing"

func TestKeyValidate(t *testing.T) {
	cases := []struct {
		k  Key
		ok bool
	}{
		{Key{Municipality: "Altamira", Year: 2010}, true},
		{Key{Municipality: "  ", Year: 2010}, false},
		{Key{Municipality: "Altamira", Year: 0}, false},
	}
	for i, tc := range cases {
		err := tc.k.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDatasetIsEmpty(t *testing.T) {
	d := Dataset{Deforestation: []DeforestationRecord{{Municipality: "A", Year: 2010}}}
	if !d.IsEmpty() {
		t.Fatalf("expected empty when economic collection is missing")
	}
	d.Economic = []EconomicRecord{{Municipality: "A", Year: 2010}}
	if d.IsEmpty() {
		t.Fatalf("expected non-empty dataset")
	}
}

func TestRecordKeysMatch(t *testing.T) {
	d := DeforestationRecord{Municipality: "A", Year: 2010}
	e := EconomicRecord{Municipality: "A", Year: 2010}
	if d.Key() != e.Key() {
		t.Fatalf("keys differ: %v vs %v", d.Key(), e.Key())
	}
}
