package geonames

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRowAbsentFields(t *testing.T) {
	r := Row{"123", "Name", "12.5"}

	if r.Field(1) != "Name" {
		t.Errorf("Field(1) = %q, want Name", r.Field(1))
	}
	if r.Field(10) != "" {
		t.Errorf("Field(10) = %q, want empty", r.Field(10))
	}
	if r.Int(0) != 123 {
		t.Errorf("Int(0) = %d, want 123", r.Int(0))
	}
	if r.Int(1) != 0 {
		t.Errorf("Int(1) on non-numeric = %d, want 0", r.Int(1))
	}
	if r.Float(2) != 12.5 {
		t.Errorf("Float(2) = %f, want 12.5", r.Float(2))
	}
	if r.Int(99) != 0 || r.Float(99) != 0 || r.Flag(99) {
		t.Error("out-of-range accessors must return zero values")
	}
}

func TestSourceSplitsOnTabs(t *testing.T) {
	input := "1\ta\tb\n2\tc\n"
	s := NewSource(strings.NewReader(input))

	if !s.Scan() {
		t.Fatal("expected first row")
	}
	if got := s.Row(); len(got) != 3 || got[0] != "1" || got[2] != "b" {
		t.Errorf("first row = %v", got)
	}

	if !s.Scan() {
		t.Fatal("expected second row")
	}
	// Short line: trailing fields read as absent, not as an error
	if got := s.Row(); got.Field(2) != "" || got.Field(1) != "c" {
		t.Errorf("second row = %v", got)
	}

	if s.Scan() {
		t.Error("expected end of stream")
	}
	if err := s.Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSourceCommentSkipping(t *testing.T) {
	input := "# header\n\nAD\tAND\n# trailer\nAE\tARE\n"

	// With SkipComments: only data rows survive
	s := NewSource(strings.NewReader(input), SkipComments())
	var codes []string
	for s.Scan() {
		codes = append(codes, s.Row().Field(0))
	}
	if len(codes) != 2 || codes[0] != "AD" || codes[1] != "AE" {
		t.Errorf("with SkipComments got %v, want [AD AE]", codes)
	}

	// Without: every line comes through
	s = NewSource(strings.NewReader(input))
	n := 0
	for s.Scan() {
		n++
	}
	if n != 5 {
		t.Errorf("without SkipComments got %d rows, want 5", n)
	}
}

func TestOpenZipStreamsMember(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cities.zip")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("cities.txt")
	if err != nil {
		t.Fatalf("zip Create: %v", err)
	}
	w.Write([]byte("100\tLondon\n200\tParis\n"))
	zw.Close()
	f.Close()

	s, err := OpenZip(path, "cities.txt")
	if err != nil {
		t.Fatalf("OpenZip: %v", err)
	}
	defer s.Close()

	var ids []string
	for s.Scan() {
		ids = append(ids, s.Row().Field(0))
	}
	if len(ids) != 2 || ids[0] != "100" || ids[1] != "200" {
		t.Errorf("got ids %v, want [100 200]", ids)
	}

	if _, err := OpenZip(path, "missing.txt"); err == nil {
		t.Error("expected error for missing member")
	}
}

func TestParsePlace(t *testing.T) {
	line := "2643743\tLondon\tLondon\tLondres\t51.50853\t-0.12574\tP\tPPLC\tGB\t\tENG\tGLA\t\t\t8961989\t\t25\tEurope/London\t2022-03-09"
	p := ParsePlace(Row(strings.Split(line, "\t")))

	if p.ID != 2643743 || p.Name != "London" {
		t.Errorf("id/name = %d/%q", p.ID, p.Name)
	}
	if p.Latitude != 51.50853 || p.Longitude != -0.12574 {
		t.Errorf("coords = %f,%f", p.Latitude, p.Longitude)
	}
	if p.FeatureCode != "PPLC" || p.CountryCode != "GB" || p.Admin1 != "ENG" {
		t.Errorf("fcode/country/admin1 = %q/%q/%q", p.FeatureCode, p.CountryCode, p.Admin1)
	}
	if p.Population != 8961989 {
		t.Errorf("population = %d", p.Population)
	}
	if p.RegionCode() != "GB.ENG" {
		t.Errorf("RegionCode() = %q", p.RegionCode())
	}
}

func TestExcludedFeatureCodes(t *testing.T) {
	for _, code := range []string{"PPLX", "PPLW", "PPLQ"} {
		if !Excluded(code) {
			t.Errorf("%s should be excluded", code)
		}
	}
	for _, code := range []string{"PPL", "PPLC", "PPLA", ""} {
		if Excluded(code) {
			t.Errorf("%s should not be excluded", code)
		}
	}
}

func TestParseAlternateName(t *testing.T) {
	line := "1551\t2643743\tfr\tLondres\t1\t\t\t"
	c := ParseAlternateName(Row(strings.Split(line, "\t")))

	if c.ID != 1551 || c.GeonameID != 2643743 {
		t.Errorf("ids = %d/%d", c.ID, c.GeonameID)
	}
	if c.Language != "fr" || c.Name != "Londres" {
		t.Errorf("lang/name = %q/%q", c.Language, c.Name)
	}
	if !c.Preferred || c.Short || c.Colloquial || c.Historic {
		t.Errorf("flags = %v/%v/%v/%v", c.Preferred, c.Short, c.Colloquial, c.Historic)
	}
}

func TestParseCountry(t *testing.T) {
	fields := make([]string, 19)
	fields[0] = "GB"
	fields[4] = "United Kingdom"
	fields[16] = "2635167"
	c := ParseCountry(Row(fields))

	if c.ISO2 != "gb" {
		t.Errorf("ISO2 = %q, want lower-cased gb", c.ISO2)
	}
	if c.ID != 2635167 || c.Name != "United Kingdom" {
		t.Errorf("id/name = %d/%q", c.ID, c.Name)
	}
}

func TestNormName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"London", "london"},
		{"St. Petersburg", "stpetersburg"},
		{"Rio de Janeiro", "riodejaneiro"},
		{"Köln", "köln"},
		{"Usti nad Labem 2", "ustinadlabem"},
		{"Москва", "москва"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormName(tt.in); got != tt.want {
			t.Errorf("NormName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormNameIdempotent(t *testing.T) {
	for _, name := range []string{"São Paulo", "Nizhniy Novgorod", "ﬁeld"} {
		once := NormName(name)
		if twice := NormName(once); twice != once {
			t.Errorf("NormName not idempotent for %q: %q vs %q", name, once, twice)
		}
	}
}
