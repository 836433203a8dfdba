package hierarchy

import (
	"context"
	"fmt"
	"sort"

	"geo_hierarchy/models"
	"geo_hierarchy/source"
)

type ClusterLok struct {
	ClusterID    int64           `json:"clusterId"`
	LokID        int64           `json:"lokId"`
	LokName      models.Name     `json:"lokName"`
	VidhanSabhas []ClusterVidhan `json:"vidhanSabhas"`
}

type ClusterVidhan struct {
	LokID   int64             `json:"lokId"`
	VidID   int64             `json:"vidId"`
	VidName models.Name       `json:"vidName"`
	Leaves  []models.LeafFact `json:"mandales_sakha_booths"`
}

// ClusterTree returns every lok sabha of one cluster with its vidhan sabhas
// and their flat leaf rows. Unlike Traverse, empty branches are kept.
func (a *Aggregator) ClusterTree(ctx context.Context, clusterID int64) ([]ClusterLok, error) {
	rows, err := a.src.ClusterLinks(ctx, source.ClusterFilter{RootClusterIDs: []int64{clusterID}})
	if err != nil {
		return nil, fmt.Errorf("load cluster %d: %w", clusterID, err)
	}

	lokNames := minName{}
	var lokKeys []key
	for _, p := range clusterPaths(rows) {
		k, ok := ancestorKey(p, Lok)
		if !ok {
			continue
		}
		if _, seen := lokNames[k]; !seen {
			lokKeys = append(lokKeys, k)
		}
		lokNames.offer(k, p.names[Lok])
	}
	if len(lokKeys) == 0 {
		return []ClusterLok{}, nil
	}
	sortAncestors(lokKeys, lokNames, Lok)

	lokIDs := make([]int64, len(lokKeys))
	for i, k := range lokKeys {
		lokIDs[i] = k.id
	}
	vidRows, err := a.src.ClusterLinks(ctx, source.ClusterFilter{LokIDs: lokIDs})
	if err != nil {
		return nil, fmt.Errorf("load vidhan sabhas of cluster %d: %w", clusterID, err)
	}
	vidhans := distinctVidhans(vidRows)
	sort.SliceStable(vidhans, func(i, j int) bool {
		return vidhans[i].LokID.Value < vidhans[j].LokID.Value
	})

	vidIDs := make([]int64, 0, len(vidhans))
	for _, v := range vidhans {
		vidIDs = append(vidIDs, v.VidID.Value)
	}
	var leaves []models.LeafFact
	if len(vidIDs) > 0 {
		leaves, err = a.src.LeafFacts(ctx, source.LeafFilter{VidIDs: vidIDs})
		if err != nil {
			return nil, fmt.Errorf("load leaf rows of cluster %d: %w", clusterID, err)
		}
	}
	byVid := groupLeaves(leaves)

	byLok := make(map[int64][]ClusterVidhan)
	for _, v := range vidhans {
		rows := byVid[v.VidID.Value]
		if rows == nil {
			rows = []models.LeafFact{}
		}
		byLok[v.LokID.Value] = append(byLok[v.LokID.Value], ClusterVidhan{
			LokID:   v.LokID.Value,
			VidID:   v.VidID.Value,
			VidName: v.VidName,
			Leaves:  rows,
		})
	}

	out := make([]ClusterLok, 0, len(lokKeys))
	for _, k := range lokKeys {
		vs := byLok[k.id]
		if vs == nil {
			vs = []ClusterVidhan{}
		}
		out = append(out, ClusterLok{
			ClusterID:    clusterID,
			LokID:        k.id,
			LokName:      lokNames[k],
			VidhanSabhas: vs,
		})
	}
	return out, nil
}

// groupLeaves is distinct on (VID, MAN, SAK, BT) and orders each vidhan
// sabha's rows by mandal, sakha and booth name.
func groupLeaves(leaves []models.LeafFact) map[int64][]models.LeafFact {
	type lk struct{ vid, man, sak, bt models.ID }
	seen := make(map[lk]struct{})
	byVid := make(map[int64][]models.LeafFact)
	for _, l := range leaves {
		if !l.VidID.Valid {
			continue
		}
		k := lk{l.VidID, l.MandalID, l.SakhaID, l.BoothID}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		byVid[l.VidID.Value] = append(byVid[l.VidID.Value], l)
	}

	for _, rows := range byVid {
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := rows[i], rows[j]
			if less, eq := lessName(a.MandalName, b.MandalName); !eq {
				return less
			}
			if less, eq := lessName(a.SakhaName, b.SakhaName); !eq {
				return less
			}
			if less, eq := lessName(a.BoothName, b.BoothName); !eq {
				return less
			}
			less, _ := lessID(a.BoothID, b.BoothID)
			return less
		})
	}
	return byVid
}
