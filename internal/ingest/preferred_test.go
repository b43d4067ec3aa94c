package ingest

import (
	"testing"

	"github.com/hip-hyena/geonamesdb/internal/geonames"
)

func TestPreferredFlagWinsRegardlessOfOrder(t *testing.T) {
	plain := geonames.AlternateName{ID: 5, GeonameID: 100, Language: "de", Name: "Muenchen"}
	flagged := geonames.AlternateName{ID: 9, GeonameID: 100, Language: "de", Name: "München", Preferred: true}

	p := NewPreferredNames()
	p.Consider(plain)
	p.Consider(flagged)

	if !p.Selected(flagged) {
		t.Error("preferred row seen second should win")
	}
	if p.Selected(plain) {
		t.Error("unflagged row should lose to a preferred one")
	}

	p = NewPreferredNames()
	p.Consider(flagged)
	p.Consider(plain)

	if !p.Selected(flagged) {
		t.Error("preferred row seen first should keep winning")
	}
}

func TestFirstUnflaggedRowWins(t *testing.T) {
	first := geonames.AlternateName{ID: 1, GeonameID: 42, Language: "fr", Name: "Londres"}
	second := geonames.AlternateName{ID: 2, GeonameID: 42, Language: "fr", Name: "Londre"}

	p := NewPreferredNames()
	p.Consider(first)
	p.Consider(second)

	if !p.Selected(first) {
		t.Error("first unflagged candidate should win")
	}
	if p.Selected(second) {
		t.Error("later unflagged candidate should lose")
	}
}

func TestCandidateFilters(t *testing.T) {
	tests := []struct {
		name string
		c    geonames.AlternateName
	}{
		{"colloquial", geonames.AlternateName{ID: 1, GeonameID: 7, Language: "en", Colloquial: true}},
		{"historic", geonames.AlternateName{ID: 2, GeonameID: 7, Language: "en", Historic: true}},
		{"link pseudo-language", geonames.AlternateName{ID: 3, GeonameID: 7, Language: "link"}},
		{"postal pseudo-language", geonames.AlternateName{ID: 4, GeonameID: 7, Language: "post"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPreferredNames()
			p.Consider(tt.c)
			if p.Len() != 0 {
				t.Errorf("candidate %q should have been filtered", tt.name)
			}
			if p.Selected(tt.c) {
				t.Errorf("filtered candidate %q must not be selected", tt.name)
			}
		})
	}
}

func TestSelectedRequiresMatchingRowID(t *testing.T) {
	winner := geonames.AlternateName{ID: 11, GeonameID: 300, Language: "uk", Name: "Київ", Preferred: true}
	loser := geonames.AlternateName{ID: 12, GeonameID: 300, Language: "uk", Name: "Киев"}

	p := NewPreferredNames()
	p.Consider(winner)
	p.Consider(loser)

	if p.Selected(loser) {
		t.Error("a different row for the same pair must not be selected")
	}
	if p.Selected(geonames.AlternateName{GeonameID: 999, Language: "uk"}) {
		t.Error("zero row id must never match")
	}
}

func TestDefaultLanguageRowsCompete(t *testing.T) {
	def := geonames.AlternateName{ID: 20, GeonameID: 55, Language: "", Name: "Praha"}

	p := NewPreferredNames()
	p.Consider(def)

	if !p.Selected(def) {
		t.Error("empty language code is a real pair and should resolve")
	}
	if p.Len() != 1 {
		t.Errorf("Len() = %d, want 1", p.Len())
	}
}
