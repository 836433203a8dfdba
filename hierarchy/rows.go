package hierarchy

import (
	"strings"

	"geo_hierarchy/models"
)

// path is one source row spread over the level columns it carries.
type path struct {
	ids   [numLevels]models.ID
	names [numLevels]models.Name
}

func clusterPaths(rows []models.ClusterLink) []path {
	out := make([]path, len(rows))
	for i, r := range rows {
		p := &out[i]
		p.ids[Cluster], p.names[Cluster] = r.ClusterID, r.ClusterName
		p.ids[Lok], p.names[Lok] = r.LokID, r.LokName
		p.ids[Vid], p.names[Vid] = r.VidID, r.VidName
	}
	return out
}

func sambhagPaths(rows []models.SambhagLink) []path {
	out := make([]path, len(rows))
	for i, r := range rows {
		p := &out[i]
		p.ids[Sambhag], p.names[Sambhag] = r.SambhagID, r.SambhagName
		p.ids[Jila], p.names[Jila] = r.JilaID, r.JilaName
		p.ids[Vid], p.names[Vid] = r.VidID, r.VidName
	}
	return out
}

func leafPaths(rows []models.LeafFact) []path {
	out := make([]path, len(rows))
	for i, r := range rows {
		p := &out[i]
		p.ids[Vid] = r.VidID
		p.ids[Mandal], p.names[Mandal] = r.MandalID, r.MandalName
		p.ids[Sakha], p.names[Sakha] = r.SakhaID, r.SakhaName
		p.ids[Booth], p.names[Booth] = r.BoothID, r.BoothName
	}
	return out
}

// key identifies a node. vid is set for vidhan-sabha scoped levels and man
// for sakhas listed under a mandal.
type key struct {
	vid models.ID
	man models.ID
	id  int64
}

// minName keeps the lexicographically smallest present name per key.
type minName map[key]models.Name

func (m minName) offer(k key, n models.Name) {
	if !n.Present() {
		if _, ok := m[k]; !ok {
			m[k] = models.Name{}
		}
		return
	}
	cur, ok := m[k]
	if !ok || !cur.Present() || n.Value < cur.Value {
		m[k] = models.Named(n.Value)
	}
}

func lessName(a, b models.Name) (less, equal bool) {
	as, bs := "", ""
	if a.Valid {
		as = a.Value
	}
	if b.Valid {
		bs = b.Value
	}
	c := strings.Compare(as, bs)
	return c < 0, c == 0
}

func lessID(a, b models.ID) (less, equal bool) {
	switch {
	case a.Valid != b.Valid:
		return !a.Valid, false
	case a.Value != b.Value:
		return a.Value < b.Value, false
	}
	return false, true
}

func distinctIDs(paths []path, l Level) []int64 {
	seen := make(map[int64]struct{})
	ids := []int64{}
	for _, p := range paths {
		id := p.ids[l]
		if !id.Valid {
			continue
		}
		if _, ok := seen[id.Value]; ok {
			continue
		}
		seen[id.Value] = struct{}{}
		ids = append(ids, id.Value)
	}
	return ids
}
