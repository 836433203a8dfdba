package source

import (
	"context"

	"geo_hierarchy/models"
)

// Memory evaluates the Source filters over rows held in memory.
type Memory struct {
	Clusters []models.ClusterLink
	Sambhags []models.SambhagLink
	Leaves   []models.LeafFact
}

func NewMemory(clusters []models.ClusterLink, sambhags []models.SambhagLink, leaves []models.LeafFact) *Memory {
	return &Memory{Clusters: clusters, Sambhags: sambhags, Leaves: leaves}
}

func (m *Memory) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *Memory) ClusterLinks(ctx context.Context, f ClusterFilter) ([]models.ClusterLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	roots := newIDSet(f.RootClusterIDs)
	rootVids := newIDSet(f.RootVidIDs)
	loks := newIDSet(f.LokIDs)
	vids := newIDSet(f.VidIDs)
	rootless := roots == nil && rootVids == nil

	var out []models.ClusterLink
	for _, l := range m.Clusters {
		if !rootless && !(roots.has(l.ClusterID) || rootVids.has(l.VidID)) {
			continue
		}
		if !loks.allows(l.LokID) || !vids.allows(l.VidID) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (m *Memory) SambhagLinks(ctx context.Context, f SambhagFilter) ([]models.SambhagLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sams := newIDSet(f.SambhagIDs)
	jilas := newIDSet(f.JilaIDs)
	vids := newIDSet(f.VidIDs)

	var out []models.SambhagLink
	for _, l := range m.Sambhags {
		if sams.allows(l.SambhagID) && jilas.allows(l.JilaID) && vids.allows(l.VidID) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *Memory) LeafFacts(ctx context.Context, f LeafFilter) ([]models.LeafFact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vids := newIDSet(f.VidIDs)
	mans := newIDSet(f.MandalIDs)
	saks := newIDSet(f.SakhaIDs)
	bts := newIDSet(f.BoothIDs)

	var out []models.LeafFact
	for _, l := range m.Leaves {
		if vids.allows(l.VidID) && mans.allows(l.MandalID) && saks.allows(l.SakhaID) && bts.allows(l.BoothID) {
			out = append(out, l)
		}
	}
	return out, nil
}

// idSet is nil for an unconstrained column.
type idSet map[int64]struct{}

func newIDSet(ids []int64) idSet {
	if ids == nil {
		return nil
	}
	s := make(idSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// has reports membership; a nil set contains nothing.
func (s idSet) has(id models.ID) bool {
	if s == nil || !id.Valid {
		return false
	}
	_, ok := s[id.Value]
	return ok
}

// allows is has, except that a nil set allows every value, NULL included.
func (s idSet) allows(id models.ID) bool {
	if s == nil {
		return true
	}
	return s.has(id)
}
