package hierarchy

import (
	"net/url"
	"sort"
	"strings"

	"geo_hierarchy/utils"
)

// CacheKeyPrefix namespaces multi-filter traversal results in the cache.
const CacheKeyPrefix = "hierarchy:multiple:"

// Filters are the multi-select id filters of a traversal. A nil list means
// the level is unconstrained. Lists are sorted and de-duplicated.
type Filters struct {
	ClusterIDs []int64
	SambhagIDs []int64
	JilaIDs    []int64
	LokIDs     []int64
	VidIDs     []int64
	MandalIDs  []int64
	SakhaIDs   []int64
	BoothIDs   []int64
}

// ParseFilters reads clusterId, sambhagId, jilaId, lokId, vidId, manId,
// sakhaId and btId. Each may repeat and may hold a comma-separated list;
// non-numeric entries are silently dropped.
func ParseFilters(q url.Values) Filters {
	return Filters{
		ClusterIDs: utils.ParseIDs(q["clusterId"]),
		SambhagIDs: utils.ParseIDs(q["sambhagId"]),
		JilaIDs:    utils.ParseIDs(q["jilaId"]),
		LokIDs:     utils.ParseIDs(q["lokId"]),
		VidIDs:     utils.ParseIDs(q["vidId"]),
		MandalIDs:  utils.ParseIDs(q["manId"]),
		SakhaIDs:   utils.ParseIDs(q["sakhaId"]),
		BoothIDs:   utils.ParseIDs(q["btId"]),
	}
}

func (f Filters) params() map[string][]int64 {
	return map[string][]int64{
		"clusterId": f.ClusterIDs,
		"sambhagId": f.SambhagIDs,
		"jilaId":    f.JilaIDs,
		"lokId":     f.LokIDs,
		"vidId":     f.VidIDs,
		"manId":     f.MandalIDs,
		"sakhaId":   f.SakhaIDs,
		"btId":      f.BoothIDs,
	}
}

// CacheKey is stable across value order and duplication:
// clusterId=3,1,2 and clusterId=2&clusterId=1&clusterId=3 share a key.
func (f Filters) CacheKey() string {
	var parts []string
	for name, ids := range f.params() {
		if len(ids) == 0 {
			continue
		}
		parts = append(parts, name+":"+utils.JoinIDs(utils.SortedUnique(append([]int64(nil), ids...))))
	}
	sort.Strings(parts)
	return CacheKeyPrefix + strings.Join(parts, "|")
}

// deepestLeaf returns the leaf filter that applies: only the deepest of
// booth, sakha and mandal ids is used, shallower ones are ignored.
func (f Filters) deepestLeaf() (booths, sakhas, mandals []int64) {
	switch {
	case len(f.BoothIDs) > 0:
		return f.BoothIDs, nil, nil
	case len(f.SakhaIDs) > 0:
		return nil, f.SakhaIDs, nil
	case len(f.MandalIDs) > 0:
		return nil, nil, f.MandalIDs
	}
	return nil, nil, nil
}
