package hierarchy

import (
	"context"
	"fmt"
	"sort"

	"geo_hierarchy/models"
	"geo_hierarchy/source"
)

// Clusters lists the distinct clusters ordered by name.
func (a *Aggregator) Clusters(ctx context.Context) ([]Entry, error) {
	rows, err := a.src.ClusterLinks(ctx, source.ClusterFilter{})
	if err != nil {
		return nil, fmt.Errorf("list clusters: %w", err)
	}
	return roots(clusterPaths(rows), Cluster), nil
}

// Sambhags lists the distinct sambhags ordered by name.
func (a *Aggregator) Sambhags(ctx context.Context) ([]Entry, error) {
	rows, err := a.src.SambhagLinks(ctx, source.SambhagFilter{})
	if err != nil {
		return nil, fmt.Errorf("list sambhags: %w", err)
	}
	return roots(sambhagPaths(rows), Sambhag), nil
}

func (a *Aggregator) LokSabhasByCluster(ctx context.Context, clusterID int64) ([]Entry, error) {
	rows, err := a.src.ClusterLinks(ctx, source.ClusterFilter{RootClusterIDs: []int64{clusterID}})
	if err != nil {
		return nil, fmt.Errorf("list lok sabhas of cluster %d: %w", clusterID, err)
	}
	return children(clusterPaths(rows), Cluster, Lok), nil
}

func (a *Aggregator) JilasBySambhag(ctx context.Context, sambhagID int64) ([]Entry, error) {
	rows, err := a.src.SambhagLinks(ctx, source.SambhagFilter{SambhagIDs: []int64{sambhagID}})
	if err != nil {
		return nil, fmt.Errorf("list jilas of sambhag %d: %w", sambhagID, err)
	}
	return children(sambhagPaths(rows), Sambhag, Jila), nil
}

func (a *Aggregator) VidhanSabhasByLokSabha(ctx context.Context, lokID int64) ([]Entry, error) {
	rows, err := a.src.ClusterLinks(ctx, source.ClusterFilter{LokIDs: []int64{lokID}})
	if err != nil {
		return nil, fmt.Errorf("list vidhan sabhas of lok sabha %d: %w", lokID, err)
	}
	return children(clusterPaths(rows), Lok, Vid), nil
}

func (a *Aggregator) VidhanSabhasByJila(ctx context.Context, jilaID int64) ([]Entry, error) {
	rows, err := a.src.SambhagLinks(ctx, source.SambhagFilter{JilaIDs: []int64{jilaID}})
	if err != nil {
		return nil, fmt.Errorf("list vidhan sabhas of jila %d: %w", jilaID, err)
	}
	return children(sambhagPaths(rows), Jila, Vid), nil
}

func (a *Aggregator) MandalsByVidhanSabha(ctx context.Context, vidID int64) ([]Entry, error) {
	rows, err := a.src.LeafFacts(ctx, source.LeafFilter{VidIDs: []int64{vidID}})
	if err != nil {
		return nil, fmt.Errorf("list mandals of vidhan sabha %d: %w", vidID, err)
	}
	return children(leafPaths(rows), Vid, Mandal), nil
}

func (a *Aggregator) SakhasByMandal(ctx context.Context, vidID, mandalID int64) ([]Entry, error) {
	rows, err := a.src.LeafFacts(ctx, source.LeafFilter{
		VidIDs:    []int64{vidID},
		MandalIDs: []int64{mandalID},
	})
	if err != nil {
		return nil, fmt.Errorf("list sakhas of mandal %d/%d: %w", vidID, mandalID, err)
	}
	return children(leafPaths(rows), Mandal, Sakha), nil
}

// BoothsBySakha lists booths ordered by id.
func (a *Aggregator) BoothsBySakha(ctx context.Context, vidID, sakhaID int64) ([]Entry, error) {
	rows, err := a.src.LeafFacts(ctx, source.LeafFilter{
		VidIDs:   []int64{vidID},
		SakhaIDs: []int64{sakhaID},
	})
	if err != nil {
		return nil, fmt.Errorf("list booths of sakha %d/%d: %w", vidID, sakhaID, err)
	}
	return children(leafPaths(rows), Sakha, Booth), nil
}

func (a *Aggregator) ClusterRows(ctx context.Context) ([]models.ClusterLink, error) {
	rows, err := a.src.ClusterLinks(ctx, source.ClusterFilter{})
	if err != nil {
		return nil, fmt.Errorf("dump cludata: %w", err)
	}
	return nonNil(rows), nil
}

func (a *Aggregator) SambhagRows(ctx context.Context) ([]models.SambhagLink, error) {
	rows, err := a.src.SambhagLinks(ctx, source.SambhagFilter{})
	if err != nil {
		return nil, fmt.Errorf("dump smdata: %w", err)
	}
	return nonNil(rows), nil
}

func (a *Aggregator) LeafRows(ctx context.Context) ([]models.LeafFact, error) {
	rows, err := a.src.LeafFacts(ctx, source.LeafFilter{})
	if err != nil {
		return nil, fmt.Errorf("dump vddata: %w", err)
	}
	return nonNil(rows), nil
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}

func roots(paths []path, l Level) []Entry {
	names := minName{}
	var keys []key
	for _, p := range paths {
		k, ok := ancestorKey(p, l)
		if !ok {
			continue
		}
		if _, seen := names[k]; !seen {
			keys = append(keys, k)
		}
		names.offer(k, p.names[l])
	}
	sortAncestors(keys, names, l)

	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		out = append(out, Entry{Level: l, ID: k.id, Name: names[k], root: true})
	}
	return out
}

// children lists the distinct level-l children of rows already narrowed to
// one parent. Children need an id and a non-empty name.
func children(paths []path, parent, l Level) []Entry {
	names := minName{}
	parents := make(map[key]models.ID)
	var keys []key
	for _, p := range paths {
		k, ok := childKey(p, parent, l)
		if !ok {
			continue
		}
		if _, seen := names[k]; !seen {
			keys = append(keys, k)
			parents[k] = p.ids[parent]
		}
		names.offer(k, p.names[l])
	}

	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		out = append(out, Entry{
			Level:    l,
			ID:       k.id,
			Name:     names[k],
			Parent:   parent,
			ParentID: parents[k],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if l == Booth || out[i].Name.Value == out[j].Name.Value {
			return out[i].ID < out[j].ID
		}
		return out[i].Name.Value < out[j].Name.Value
	})
	return out
}
