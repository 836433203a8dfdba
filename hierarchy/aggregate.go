// Package hierarchy aggregates the cluster/sambhag lookup tables and the
// vddata leaf table into counts, listings and nested trees.
package hierarchy

import (
	"context"
	"fmt"
	"sort"

	"geo_hierarchy/models"
	"geo_hierarchy/source"
)

// Aggregator answers hierarchy queries from a Source. It holds no per-request
// state and is safe for concurrent use.
type Aggregator struct {
	src source.Source
}

func NewAggregator(src source.Source) *Aggregator {
	return &Aggregator{src: src}
}

// Ping checks the underlying data source.
func (a *Aggregator) Ping(ctx context.Context) error {
	return a.src.Ping(ctx)
}

// Scope restricts a projection to one ancestor. VidID narrows mandal and
// sakha ancestors, whose ids repeat across vidhan sabhas.
type Scope struct {
	ID    int64
	VidID models.ID
}

// Project lists the distinct column-level descendants of every ancestor.
// Ancestors without descendants are kept with a zero count.
func (a *Aggregator) Project(ctx context.Context, ancestor, column Level, scope *Scope) (*Projection, error) {
	if !Supported(ancestor, column) {
		return nil, fmt.Errorf("%w: %s in %s", ErrUnsupportedPair, column, ancestor)
	}

	ancRows, err := a.rowsFor(ctx, ancestor, scope)
	if err != nil {
		return nil, err
	}

	ancNames := minName{}
	var ancKeys []key
	for _, p := range ancRows {
		k, ok := ancestorKey(p, ancestor)
		if !ok {
			continue
		}
		if _, seen := ancNames[k]; !seen {
			ancKeys = append(ancKeys, k)
		}
		ancNames.offer(k, p.names[ancestor])
	}

	childRows, owners, err := a.descendants(ctx, ancestor, column, ancRows)
	if err != nil {
		return nil, err
	}

	childNames := minName{}
	groups := make(map[key]map[key]struct{}, len(ancKeys))
	for _, p := range childRows {
		ck, ok := childKey(p, ancestor, column)
		if !ok {
			continue
		}
		childNames.offer(ck, p.names[column])
		for _, ak := range owners(p) {
			set, ok := groups[ak]
			if !ok {
				set = make(map[key]struct{})
				groups[ak] = set
			}
			set[ck] = struct{}{}
		}
	}

	sortAncestors(ancKeys, ancNames, ancestor)

	out := &Projection{
		TotalLevelCount: len(ancKeys),
		CountData:       make([]HierarchyNode, 0, len(ancKeys)),
		DetailedData:    make([]DetailedNode, 0, len(ancKeys)),
	}
	for _, ak := range ancKeys {
		children := make([]Child, 0, len(groups[ak]))
		for ck := range groups[ak] {
			children = append(children, Child{
				Level: column,
				VidID: ck.vid,
				ID:    ck.id,
				Name:  childNames[ck].Value,
			})
		}
		sortChildren(children, column)

		out.TotalColumnCount += len(children)
		out.CountData = append(out.CountData, HierarchyNode{
			ID:     NodeID{VidID: ak.vid, ID: ak.id, scoped: ancestor.vidScoped()},
			Name:   ancNames[ak],
			Count:  len(children),
			Level:  ancestor.String(),
			Column: column.String(),
		})
		out.DetailedData = append(out.DetailedData, DetailedNode{
			Level:    ancestor,
			Column:   column,
			VidID:    ak.vid,
			ID:       ak.id,
			Name:     ancNames[ak],
			Children: children,
		})
	}
	return out, nil
}

// rowsFor loads the rows of the table owning level, narrowed by scope.
func (a *Aggregator) rowsFor(ctx context.Context, l Level, scope *Scope) ([]path, error) {
	var only []int64
	if scope != nil {
		only = []int64{scope.ID}
	}

	switch l.table() {
	case cludata:
		var f source.ClusterFilter
		switch l {
		case Cluster:
			f.RootClusterIDs = only
		case Lok:
			f.LokIDs = only
		case Vid:
			f.VidIDs = only
		}
		rows, err := a.src.ClusterLinks(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("load %s rows: %w", l, err)
		}
		return clusterPaths(rows), nil

	case smdata:
		var f source.SambhagFilter
		switch l {
		case Sambhag:
			f.SambhagIDs = only
		case Jila:
			f.JilaIDs = only
		}
		rows, err := a.src.SambhagLinks(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("load %s rows: %w", l, err)
		}
		return sambhagPaths(rows), nil

	default:
		var f source.LeafFilter
		switch l {
		case Mandal:
			f.MandalIDs = only
		case Sakha:
			f.SakhaIDs = only
		}
		if scope != nil && scope.VidID.Valid {
			f.VidIDs = []int64{scope.VidID.Value}
		}
		rows, err := a.src.LeafFacts(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("load %s rows: %w", l, err)
		}
		return leafPaths(rows), nil
	}
}

// descendants returns the candidate child rows and, for each, the ancestors
// owning it. When the ancestor's table carries the column, each row belongs
// to its own ancestor; otherwise vddata rows join through VID_ID.
func (a *Aggregator) descendants(ctx context.Context, ancestor, column Level, ancRows []path) ([]path, func(path) []key, error) {
	if column.carriedBy(ancestor.table()) {
		return ancRows, func(p path) []key {
			k, ok := ancestorKey(p, ancestor)
			if !ok {
				return nil
			}
			return []key{k}
		}, nil
	}

	byVid := make(map[int64][]key)
	linked := make(map[[2]key]struct{})
	for _, p := range ancRows {
		ak, ok := ancestorKey(p, ancestor)
		vid := p.ids[Vid]
		if !ok || !vid.Valid {
			continue
		}
		link := [2]key{ak, {id: vid.Value}}
		if _, dup := linked[link]; dup {
			continue
		}
		linked[link] = struct{}{}
		byVid[vid.Value] = append(byVid[vid.Value], ak)
	}
	if len(byVid) == 0 {
		return nil, func(path) []key { return nil }, nil
	}

	vids := make([]int64, 0, len(byVid))
	for v := range byVid {
		vids = append(vids, v)
	}
	sort.Slice(vids, func(i, j int) bool { return vids[i] < vids[j] })

	leaves, err := a.src.LeafFacts(ctx, source.LeafFilter{VidIDs: vids})
	if err != nil {
		return nil, nil, fmt.Errorf("load %s rows: %w", column, err)
	}
	return leafPaths(leaves), func(p path) []key {
		if !p.ids[Vid].Valid {
			return nil
		}
		return byVid[p.ids[Vid].Value]
	}, nil
}

func ancestorKey(p path, l Level) (key, bool) {
	id := p.ids[l]
	if !id.Valid {
		return key{}, false
	}
	k := key{id: id.Value}
	if l.vidScoped() {
		if !p.ids[Vid].Valid {
			return key{}, false
		}
		k.vid = p.ids[Vid]
	}
	return k, true
}

// childKey is the composite identity of a descendant. A child needs an id
// and a non-empty name.
func childKey(p path, ancestor, column Level) (key, bool) {
	id := p.ids[column]
	if !id.Valid || !p.names[column].Present() {
		return key{}, false
	}
	k := key{id: id.Value}
	if column.vidScoped() {
		if !p.ids[Vid].Valid {
			return key{}, false
		}
		k.vid = p.ids[Vid]
		if column == Sakha && ancestor == Mandal {
			k.man = p.ids[Mandal]
		}
	}
	return k, true
}

func sortAncestors(keys []key, names minName, l Level) {
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if l.vidScoped() {
			if less, eq := lessID(a.vid, b.vid); !eq {
				return less
			}
			return a.id < b.id
		}
		if less, eq := lessName(names[a], names[b]); !eq {
			return less
		}
		return a.id < b.id
	})
}

func sortChildren(children []Child, column Level) {
	sort.Slice(children, func(i, j int) bool {
		a, b := children[i], children[j]
		if column == Booth {
			if a.ID != b.ID {
				return a.ID < b.ID
			}
			less, _ := lessID(a.VidID, b.VidID)
			return less
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if less, eq := lessID(a.VidID, b.VidID); !eq {
			return less
		}
		return a.ID < b.ID
	})
}
