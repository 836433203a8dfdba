package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"geo_hierarchy/cache"
	"geo_hierarchy/hierarchy"
	"geo_hierarchy/utils"
)

// HierarchyHandler serves the step-by-step browse routes and the cluster and
// multi-filter trees.
type HierarchyHandler struct {
	agg          *hierarchy.Aggregator
	cache        *cache.Cache
	traversalTTL time.Duration
}

func NewHierarchyHandler(agg *hierarchy.Aggregator, c *cache.Cache, traversalTTL time.Duration) *HierarchyHandler {
	return &HierarchyHandler{agg: agg, cache: c, traversalTTL: traversalTTL}
}

func (h *HierarchyHandler) Register(r *mux.Router) {
	r.HandleFunc("/clusters", h.GetClusters).Methods(http.MethodGet)
	r.HandleFunc("/sambhags", h.GetSambhags).Methods(http.MethodGet)
	r.HandleFunc("/loksabha/{clusterId}", h.GetLokSabhas).Methods(http.MethodGet)
	r.HandleFunc("/jila/{sambhagId}", h.GetJilas).Methods(http.MethodGet)
	r.HandleFunc("/vidhansabha/loksabha/{lokId}", h.GetVidhanSabhasByLokSabha).Methods(http.MethodGet)
	r.HandleFunc("/vidhansabha/jila/{jilaId}", h.GetVidhanSabhasByJila).Methods(http.MethodGet)
	r.HandleFunc("/mandal/{vidId}", h.GetMandals).Methods(http.MethodGet)
	r.HandleFunc("/sakha/{vidId}/{manId}", h.GetSakhas).Methods(http.MethodGet)
	r.HandleFunc("/booth/{vidId}/{sakId}", h.GetBooths).Methods(http.MethodGet)

	r.HandleFunc("/get-cluster-all-data", h.GetClusterAllData).Methods(http.MethodGet)
	r.HandleFunc("/get-hierarchy-data", h.GetHierarchyData).Methods(http.MethodGet)
	r.HandleFunc("/get-hierarchy-data-mutiple", h.GetHierarchyDataMultiple).Methods(http.MethodGet)
}

// pathIDs parses the named path variables, writing a 400 when one is not an
// integer.
func pathIDs(w http.ResponseWriter, r *http.Request, names ...string) ([]int64, bool) {
	vars := mux.Vars(r)
	ids := make([]int64, len(names))
	for i, name := range names {
		id, ok := utils.ParseID(vars[name])
		if !ok {
			utils.WriteError(w, http.StatusBadRequest, "Invalid "+name)
			return nil, false
		}
		ids[i] = id
	}
	return ids, true
}

func writeEntries(w http.ResponseWriter, r *http.Request, entries []hierarchy.Entry, err error) {
	if err != nil {
		serverError(w, r, "error browsing hierarchy", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{"data": entries})
}

func (h *HierarchyHandler) GetClusters(w http.ResponseWriter, r *http.Request) {
	entries, err := h.agg.Clusters(r.Context())
	writeEntries(w, r, entries, err)
}

func (h *HierarchyHandler) GetSambhags(w http.ResponseWriter, r *http.Request) {
	entries, err := h.agg.Sambhags(r.Context())
	writeEntries(w, r, entries, err)
}

func (h *HierarchyHandler) GetLokSabhas(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "clusterId")
	if !ok {
		return
	}
	entries, err := h.agg.LokSabhasByCluster(r.Context(), ids[0])
	writeEntries(w, r, entries, err)
}

func (h *HierarchyHandler) GetJilas(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "sambhagId")
	if !ok {
		return
	}
	entries, err := h.agg.JilasBySambhag(r.Context(), ids[0])
	writeEntries(w, r, entries, err)
}

func (h *HierarchyHandler) GetVidhanSabhasByLokSabha(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "lokId")
	if !ok {
		return
	}
	entries, err := h.agg.VidhanSabhasByLokSabha(r.Context(), ids[0])
	writeEntries(w, r, entries, err)
}

func (h *HierarchyHandler) GetVidhanSabhasByJila(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "jilaId")
	if !ok {
		return
	}
	entries, err := h.agg.VidhanSabhasByJila(r.Context(), ids[0])
	writeEntries(w, r, entries, err)
}

func (h *HierarchyHandler) GetMandals(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "vidId")
	if !ok {
		return
	}
	entries, err := h.agg.MandalsByVidhanSabha(r.Context(), ids[0])
	writeEntries(w, r, entries, err)
}

func (h *HierarchyHandler) GetSakhas(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "vidId", "manId")
	if !ok {
		return
	}
	entries, err := h.agg.SakhasByMandal(r.Context(), ids[0], ids[1])
	writeEntries(w, r, entries, err)
}

func (h *HierarchyHandler) GetBooths(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "vidId", "sakId")
	if !ok {
		return
	}
	entries, err := h.agg.BoothsBySakha(r.Context(), ids[0], ids[1])
	writeEntries(w, r, entries, err)
}

func (h *HierarchyHandler) GetClusterAllData(w http.ResponseWriter, r *http.Request) {
	clusterID, ok := utils.ParseID(r.URL.Query().Get("clusterId"))
	if !ok {
		utils.WriteMessage(w, http.StatusBadRequest, false, "Invalid or missing clusterId")
		return
	}

	tree, err := h.agg.ClusterTree(r.Context(), clusterID)
	if err != nil {
		serverError(w, r, "error building cluster tree", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "data": tree})
}

// GetHierarchyData applies every filter at once and keeps vidhan sabhas
// that have no matching leaf rows.
func (h *HierarchyHandler) GetHierarchyData(w http.ResponseWriter, r *http.Request) {
	out, err := h.agg.HierarchyData(r.Context(), hierarchy.ParseFilters(r.URL.Query()))
	if err != nil {
		serverError(w, r, "error loading hierarchy data", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"summary": out.Summary,
		"data":    out.Data,
	})
}

type traversalResponse struct {
	Success bool                  `json:"success"`
	Cached  bool                  `json:"cached"`
	Summary hierarchy.Summary     `json:"summary"`
	Data    []hierarchy.LokBranch `json:"data"`
}

// GetHierarchyDataMultiple answers the multi-filter traversal. Results are
// cached under a key that ignores parameter order and duplicates.
func (h *HierarchyHandler) GetHierarchyDataMultiple(w http.ResponseWriter, r *http.Request) {
	filters := hierarchy.ParseFilters(r.URL.Query())
	key := filters.CacheKey()

	var hit map[string]json.RawMessage
	if h.cache.Get(r.Context(), key, &hit) && hit != nil {
		hit["cached"] = json.RawMessage("true")
		utils.WriteJSON(w, http.StatusOK, hit)
		return
	}

	out, err := h.agg.Traverse(r.Context(), filters)
	if err != nil {
		serverError(w, r, "error traversing hierarchy", err)
		return
	}

	resp := traversalResponse{Success: true, Summary: out.Summary, Data: out.Data}
	h.cache.Set(r.Context(), key, resp, h.traversalTTL)
	utils.WriteJSON(w, http.StatusOK, resp)
}
