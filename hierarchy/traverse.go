package hierarchy

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"geo_hierarchy/models"
	"geo_hierarchy/source"
)

// Summary holds distinct entity counts of a traversal result.
type Summary struct {
	Cluster     int `json:"cluster"`
	Sambhag     int `json:"sambhag"`
	Jila        int `json:"jila"`
	LokSabha    int `json:"lokSabha"`
	VidhanSabha int `json:"vidhanSabha"`
	Mandal      int `json:"mandal"`
	Sakha       int `json:"sakha"`
	Booth       int `json:"booth"`
}

type Traversal struct {
	Summary Summary     `json:"summary"`
	Data    []LokBranch `json:"data"`
}

type LokBranch struct {
	ClusterID    models.ID      `json:"clusterId"`
	LokID        int64          `json:"lokId"`
	LokName      models.Name    `json:"lokName"`
	VidhanSabhas []VidhanBranch `json:"vidhanSabhas"`
}

type VidhanBranch struct {
	VidID   int64          `json:"vidId"`
	VidName models.Name    `json:"vidName"`
	Mandals []MandalBranch `json:"mandales_sakha_booths"`
}

type MandalBranch struct {
	ID     int64         `json:"MAN_ID"`
	Name   models.Name   `json:"MAN_NM"`
	Sakhas []SakhaBranch `json:"sakhas"`
}

type SakhaBranch struct {
	ID     int64       `json:"SAK_ID"`
	Name   models.Name `json:"SAK_NM"`
	Booths []BoothLeaf `json:"booths"`
}

type BoothLeaf struct {
	ID   int64       `json:"BT_ID"`
	Name models.Name `json:"BT_NM"`
}

func emptyTraversal() *Traversal {
	return &Traversal{Data: []LokBranch{}}
}

// Traverse returns the lok -> vidhan -> mandal -> sakha -> booth subtree
// matching every filter. The tree is built bottom-up: vidhan sabhas without a
// surviving booth, and lok sabhas without a surviving vidhan sabha, are left
// out.
func (a *Aggregator) Traverse(ctx context.Context, f Filters) (*Traversal, error) {
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
		return emptyTraversal(), nil
	}

	vidFilter := f.VidIDs
	if vidFilter == nil {
		vidFilter = smVids
	}
	lokIDs := make([]int64, 0, len(loks))
	for _, l := range loks {
		lokIDs = append(lokIDs, l.LokID.Value)
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
		return emptyTraversal(), nil
	}

	vidIDs := make([]int64, 0, len(vidhans))
	for _, v := range vidhans {
		vidIDs = append(vidIDs, v.VidID.Value)
	}
	booths, sakhas, mandals := f.deepestLeaf()
	leaves, err := a.src.LeafFacts(ctx, source.LeafFilter{
		VidIDs:    vidIDs,
		MandalIDs: mandals,
		SakhaIDs:  sakhas,
		BoothIDs:  booths,
	})
	if err != nil {
		return nil, fmt.Errorf("load leaf rows: %w", err)
	}

	trees, summary := buildVidhanTrees(leaves)
	if len(trees) == 0 {
		return emptyTraversal(), nil
	}

	surviving := make([]int64, 0, len(trees))
	for vid := range trees {
		surviving = append(surviving, vid)
	}
	sort.Slice(surviving, func(i, j int) bool { return surviving[i] < surviving[j] })

	out := &Traversal{Summary: summary}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := a.src.SambhagLinks(gctx, source.SambhagFilter{VidIDs: surviving})
		if err != nil {
			return fmt.Errorf("reverse sambhag lookup: %w", err)
		}
		paths := sambhagPaths(rows)
		out.Summary.Sambhag = len(distinctIDs(paths, Sambhag))
		out.Summary.Jila = len(distinctIDs(paths, Jila))
		return nil
	})
	g.Go(func() error {
		out.Data = assemble(loks, vidhans, trees)
		clusters := make(map[int64]struct{})
		lokSet := make(map[int64]struct{})
		for _, l := range out.Data {
			if l.ClusterID.Valid {
				clusters[l.ClusterID.Value] = struct{}{}
			}
			lokSet[l.LokID] = struct{}{}
		}
		out.Summary.Cluster = len(clusters)
		out.Summary.LokSabha = len(lokSet)
		out.Summary.VidhanSabha = len(trees)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// sambhagVids resolves the sambhag and jila filters to vidhan sabha ids
// through smdata. It returns nil, which narrows nothing, when neither filter is
// set or when they match no vidhan sabha.
func (a *Aggregator) sambhagVids(ctx context.Context, f Filters) ([]int64, error) {
	if len(f.SambhagIDs) == 0 && len(f.JilaIDs) == 0 {
		return nil, nil
	}
	rows, err := a.src.SambhagLinks(ctx, source.SambhagFilter{
		SambhagIDs: f.SambhagIDs,
		JilaIDs:    f.JilaIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve sambhag/jila: %w", err)
	}
	vids := distinctIDs(sambhagPaths(rows), Vid)
	if len(vids) == 0 {
		return nil, nil
	}
	return vids, nil
}

// distinctLoks is distinct on (LOK_ID, CLUS_ID), ordered by lok name.
func distinctLoks(rows []models.ClusterLink) []models.ClusterLink {
	type lk struct {
		lok int64
		clu models.ID
	}
	seen := make(map[lk]int)
	var out []models.ClusterLink
	for _, r := range rows {
		if !r.LokID.Valid {
			continue
		}
		k := lk{r.LokID.Value, r.ClusterID}
		if i, ok := seen[k]; ok {
			out[i].LokName = smaller(out[i].LokName, r.LokName)
			continue
		}
		seen[k] = len(out)
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if less, eq := lessName(out[i].LokName, out[j].LokName); !eq {
			return less
		}
		if out[i].LokID.Value != out[j].LokID.Value {
			return out[i].LokID.Value < out[j].LokID.Value
		}
		less, _ := lessID(out[i].ClusterID, out[j].ClusterID)
		return less
	})
	return out
}

// distinctVidhans is distinct on (LOK_ID, VID_ID), ordered by vidhan name.
func distinctVidhans(rows []models.ClusterLink) []models.ClusterLink {
	type vk struct{ lok, vid int64 }
	seen := make(map[vk]int)
	var out []models.ClusterLink
	for _, r := range rows {
		if !r.LokID.Valid || !r.VidID.Valid {
			continue
		}
		k := vk{r.LokID.Value, r.VidID.Value}
		if i, ok := seen[k]; ok {
			out[i].VidName = smaller(out[i].VidName, r.VidName)
			continue
		}
		seen[k] = len(out)
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if less, eq := lessName(out[i].VidName, out[j].VidName); !eq {
			return less
		}
		if out[i].VidID.Value != out[j].VidID.Value {
			return out[i].VidID.Value < out[j].VidID.Value
		}
		return out[i].LokID.Value < out[j].LokID.Value
	})
	return out
}

func smaller(a, b models.Name) models.Name {
	m := minName{}
	m.offer(key{}, a)
	m.offer(key{}, b)
	return m[key{}]
}

// buildVidhanTrees groups complete leaf rows into vid -> mandal -> sakha ->
// booth and counts distinct composite keys per level.
func buildVidhanTrees(leaves []models.LeafFact) (map[int64][]MandalBranch, Summary) {
	type manKey struct{ vid, man int64 }
	type sakKey struct{ vid, man, sak int64 }
	type btKey struct{ vid, man, sak, bt int64 }

	manNames := make(map[manKey]models.Name)
	sakNames := make(map[sakKey]models.Name)
	btNames := make(map[btKey]models.Name)
	manOrder := make(map[int64][]manKey)
	sakOrder := make(map[manKey][]sakKey)
	btOrder := make(map[sakKey][]btKey)

	for _, l := range leaves {
		if !l.VidID.Valid || !l.MandalID.Valid || !l.SakhaID.Valid || !l.BoothID.Valid {
			continue
		}
		mk := manKey{l.VidID.Value, l.MandalID.Value}
		sk := sakKey{mk.vid, mk.man, l.SakhaID.Value}
		bk := btKey{sk.vid, sk.man, sk.sak, l.BoothID.Value}

		if _, ok := manNames[mk]; !ok {
			manOrder[mk.vid] = append(manOrder[mk.vid], mk)
		}
		manNames[mk] = smaller(manNames[mk], l.MandalName)
		if _, ok := sakNames[sk]; !ok {
			sakOrder[mk] = append(sakOrder[mk], sk)
		}
		sakNames[sk] = smaller(sakNames[sk], l.SakhaName)
		if _, ok := btNames[bk]; !ok {
			btOrder[sk] = append(btOrder[sk], bk)
		}
		btNames[bk] = smaller(btNames[bk], l.BoothName)
	}

	trees := make(map[int64][]MandalBranch, len(manOrder))
	for vid, mks := range manOrder {
		mandals := make([]MandalBranch, 0, len(mks))
		for _, mk := range mks {
			sakhas := make([]SakhaBranch, 0, len(sakOrder[mk]))
			for _, sk := range sakOrder[mk] {
				booths := make([]BoothLeaf, 0, len(btOrder[sk]))
				for _, bk := range btOrder[sk] {
					booths = append(booths, BoothLeaf{ID: bk.bt, Name: btNames[bk]})
				}
				sort.Slice(booths, func(i, j int) bool { return booths[i].ID < booths[j].ID })
				sakhas = append(sakhas, SakhaBranch{ID: sk.sak, Name: sakNames[sk], Booths: booths})
			}
			sort.Slice(sakhas, func(i, j int) bool {
				if less, eq := lessName(sakhas[i].Name, sakhas[j].Name); !eq {
					return less
				}
				return sakhas[i].ID < sakhas[j].ID
			})
			mandals = append(mandals, MandalBranch{ID: mk.man, Name: manNames[mk], Sakhas: sakhas})
		}
		sort.Slice(mandals, func(i, j int) bool {
			if less, eq := lessName(mandals[i].Name, mandals[j].Name); !eq {
				return less
			}
			return mandals[i].ID < mandals[j].ID
		})
		trees[vid] = mandals
	}

	return trees, Summary{
		Mandal: len(manNames),
		Sakha:  len(sakNames),
		Booth:  len(btNames),
	}
}

func assemble(loks, vidhans []models.ClusterLink, trees map[int64][]MandalBranch) []LokBranch {
	byLok := make(map[int64][]VidhanBranch)
	for _, v := range vidhans {
		mandals, ok := trees[v.VidID.Value]
		if !ok {
			continue
		}
		byLok[v.LokID.Value] = append(byLok[v.LokID.Value], VidhanBranch{
			VidID:   v.VidID.Value,
			VidName: v.VidName,
			Mandals: mandals,
		})
	}

	data := []LokBranch{}
	for _, l := range loks {
		vs, ok := byLok[l.LokID.Value]
		if !ok {
			continue
		}
		data = append(data, LokBranch{
			ClusterID:    l.ClusterID,
			LokID:        l.LokID.Value,
			LokName:      l.LokName,
			VidhanSabhas: vs,
		})
	}
	return data
}
