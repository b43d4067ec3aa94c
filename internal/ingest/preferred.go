package ingest

import "github.com/hip-hyena/geonamesdb/internal/geonames"

type nameKey struct {
	id   int64
	lang string
}

// PreferredNames remembers which alternate-name row wins for each
// (geoname, language) pair. The first streaming pass feeds every candidate
// through Consider; the second pass asks Selected to decide which rows to
// materialize. Only row ids are held between passes.
type PreferredNames struct {
	winners map[nameKey]int64
}

func NewPreferredNames() *PreferredNames {
	return &PreferredNames{winners: make(map[nameKey]int64)}
}

// Consider records a candidate. A row flagged preferred displaces any
// earlier winner for its pair; among unflagged rows the first seen wins.
// Pseudo-language rows (links, postal codes) and colloquial or historic
// names never compete.
func (p *PreferredNames) Consider(c geonames.AlternateName) {
	if c.Colloquial || c.Historic || len(c.Language) > 3 {
		return
	}

	key := nameKey{id: c.GeonameID, lang: c.Language}
	if _, ok := p.winners[key]; !ok || c.Preferred {
		p.winners[key] = c.ID
	}
}

// Selected reports whether this exact row won its (geoname, language) pair
func (p *PreferredNames) Selected(c geonames.AlternateName) bool {
	if c.ID == 0 {
		return false
	}
	return p.winners[nameKey{id: c.GeonameID, lang: c.Language}] == c.ID
}

// Len returns the number of resolved pairs
func (p *PreferredNames) Len() int {
	return len(p.winners)
}
