package ident

import "testing"

func TestLookupDispatch(t *testing.T) {
	ix := New()
	ix.AddCountry(2635167, "gb")
	ix.AddRegion(6269131, "GB.ENG")
	ix.AddPlace(2643743)

	tests := []struct {
		id   int64
		want Kind
	}{
		{2635167, KindCountry},
		{6269131, KindRegion},
		{2643743, KindPlace},
		{999, KindUnknown},
	}
	for _, tt := range tests {
		if got := ix.Lookup(tt.id); got != tt.want {
			t.Errorf("Lookup(%d) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestCountryCode(t *testing.T) {
	ix := New()
	ix.AddCountry(2635167, "gb")

	code, ok := ix.CountryCode(2635167)
	if !ok || code != "gb" {
		t.Errorf("CountryCode = %q, %v", code, ok)
	}
	if _, ok := ix.CountryCode(1); ok {
		t.Error("unknown id should not resolve")
	}
}

func TestRegionByCode(t *testing.T) {
	ix := New()
	ix.AddRegion(6269131, "GB.ENG")

	id, ok := ix.RegionByCode("GB.ENG")
	if !ok || id != 6269131 {
		t.Errorf("RegionByCode = %d, %v", id, ok)
	}
	if _, ok := ix.RegionByCode("GB.XXX"); ok {
		t.Error("unknown code should not resolve")
	}
}

func TestCounts(t *testing.T) {
	ix := New()
	ix.AddCountry(1, "aa")
	ix.AddRegion(2, "AA.01")
	ix.AddRegion(3, "AA.02")
	ix.AddPlace(4)
	ix.AddPlace(5)
	ix.AddPlace(6)

	c, r, p := ix.Counts()
	if c != 1 || r != 2 || p != 3 {
		t.Errorf("Counts = %d/%d/%d, want 1/2/3", c, r, p)
	}
}
