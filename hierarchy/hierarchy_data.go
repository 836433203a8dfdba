package hierarchy

import (
	"context"
	"fmt"

	"geo_hierarchy/models"
	"geo_hierarchy/source"
)

// DataSummary counts the entities of a HierarchyData result. Mandal, sakha
// and booth are counted per vidhan sabha, like the traversal summary.
type DataSummary struct {
	Cluster     int `json:"cluster"`
	LokSabha    int `json:"lokSabha"`
	VidhanSabha int `json:"vidhanSabha"`
	Mandal      int `json:"mandal"`
	Sakha       int `json:"sakha"`
	Booth       int `json:"booth"`
}

type HierarchyData struct {
	Summary DataSummary `json:"summary"`
	Data    []DataLok   `json:"data"`
}

type DataLok struct {
	ClusterID    models.ID    `json:"clusterId"`
	LokID        int64        `json:"lokId"`
	LokName      models.Name  `json:"lokName"`
	VidhanSabhas []DataVidhan `json:"vidhanSabhas"`
}

type DataVidhan struct {
	VidID   int64             `json:"vidId"`
	VidName models.Name       `json:"vidName"`
	Leaves  []models.LeafFact `json:"mandales_sakha_booths"`
}

// HierarchyData returns lok sabhas with their vidhan sabhas and flat leaf
// rows. Unlike Traverse every leaf filter applies at once, and vidhan sabhas
// without matching leaves are kept with an empty list, as are lok sabhas
// without vidhan sabhas.
func (a *Aggregator) HierarchyData(ctx context.Context, f Filters) (*HierarchyData, error) {
	requestedClusters := len(f.ClusterIDs)

	smVids, err := a.sambhagVids(ctx, f)
	if err != nil {
		return nil, err
	}

	lokRows, err := a.src.ClusterLinks(ctx, source.ClusterFilter{
		RootClusterIDs: f.ClusterIDs,
		RootVidIDs:     smVids,
		LokIDs:         f.LokIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve lok sabhas: %w", err)
	}
	loks := distinctLoks(lokRows)
	if len(loks) == 0 {
		return &HierarchyData{
			Summary: DataSummary{Cluster: requestedClusters},
			Data:    []DataLok{},
		}, nil
	}

	lokIDs := make([]int64, 0, len(loks))
	lokSet := make(map[int64]struct{}, len(loks))
	clusters := make(map[int64]struct{})
	for _, l := range loks {
		if _, ok := lokSet[l.LokID.Value]; !ok {
			lokIDs = append(lokIDs, l.LokID.Value)
			lokSet[l.LokID.Value] = struct{}{}
		}
		if l.ClusterID.Valid {
			clusters[l.ClusterID.Value] = struct{}{}
		}
	}
	summary := DataSummary{Cluster: requestedClusters, LokSabha: len(lokSet)}
	if requestedClusters == 0 {
		summary.Cluster = len(clusters)
	}

	vidFilter := f.VidIDs
	if vidFilter == nil {
		vidFilter = smVids
	}
	vidRows, err := a.src.ClusterLinks(ctx, source.ClusterFilter{
		LokIDs: lokIDs,
		VidIDs: vidFilter,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve vidhan sabhas: %w", err)
	}
	vidhans := distinctVidhans(vidRows)
	if len(vidhans) == 0 {
		return &HierarchyData{Summary: summary, Data: []DataLok{}}, nil
	}
	summary.VidhanSabha = len(vidhans)

	vidIDs := make([]int64, 0, len(vidhans))
	for _, v := range vidhans {
		vidIDs = append(vidIDs, v.VidID.Value)
	}
	leaves, err := a.src.LeafFacts(ctx, source.LeafFilter{
		VidIDs:    vidIDs,
		MandalIDs: f.MandalIDs,
		SakhaIDs:  f.SakhaIDs,
		BoothIDs:  f.BoothIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("load leaf rows: %w", err)
	}
	byVid := groupLeaves(leaves)
	summary.Mandal, summary.Sakha, summary.Booth = countLeaves(byVid)

	byLok := make(map[int64][]DataVidhan)
	for _, v := range vidhans {
		rows := byVid[v.VidID.Value]
		if rows == nil {
			rows = []models.LeafFact{}
		}
		byLok[v.LokID.Value] = append(byLok[v.LokID.Value], DataVidhan{
			VidID:   v.VidID.Value,
			VidName: v.VidName,
			Leaves:  rows,
		})
	}

	data := make([]DataLok, 0, len(loks))
	for _, l := range loks {
		vs := byLok[l.LokID.Value]
		if vs == nil {
			vs = []DataVidhan{}
		}
		data = append(data, DataLok{
			ClusterID:    l.ClusterID,
			LokID:        l.LokID.Value,
			LokName:      l.LokName,
			VidhanSabhas: vs,
		})
	}
	return &HierarchyData{Summary: summary, Data: data}, nil
}

// countLeaves counts distinct mandals, sakhas and booths among grouped leaf
// rows, skipping null ids.
func countLeaves(byVid map[int64][]models.LeafFact) (mandals, sakhas, booths int) {
	type manKey struct{ vid, man int64 }
	type sakKey struct{ vid, man, sak int64 }
	type btKey struct{ vid, man, sak, bt int64 }
	man := make(map[manKey]struct{})
	sak := make(map[sakKey]struct{})
	bt := make(map[btKey]struct{})
	for vid, rows := range byVid {
		for _, l := range rows {
			if !l.MandalID.Valid {
				continue
			}
			man[manKey{vid, l.MandalID.Value}] = struct{}{}
			if !l.SakhaID.Valid {
				continue
			}
			sak[sakKey{vid, l.MandalID.Value, l.SakhaID.Value}] = struct{}{}
			if l.BoothID.Valid {
				bt[btKey{vid, l.MandalID.Value, l.SakhaID.Value, l.BoothID.Value}] = struct{}{}
			}
		}
	}
	return len(man), len(sak), len(bt)
}
