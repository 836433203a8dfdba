package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"geo_hierarchy/cache"
	"geo_hierarchy/hierarchy"
	"geo_hierarchy/logger"
	"geo_hierarchy/models"
	"geo_hierarchy/utils"
)

type projectionFunc func(*hierarchy.Aggregator, context.Context, *hierarchy.Scope) (*hierarchy.Projection, error)

type projectionRoute struct {
	path    string
	project projectionFunc
	cached  bool
}

var projectionRoutes = []projectionRoute{
	{"/all-mandal-cluster", (*hierarchy.Aggregator).MandalsInCluster, false},
	{"/all-mandal-sambhag", (*hierarchy.Aggregator).MandalsInSambhag, false},
	{"/all-mandal-loc", (*hierarchy.Aggregator).MandalsInLokSabha, false},
	{"/all-mandal-jila", (*hierarchy.Aggregator).MandalsInJila, false},
	{"/all-mandal-vidhan", (*hierarchy.Aggregator).MandalsInVidhanSabha, false},

	{"/all-sakti-cluster", (*hierarchy.Aggregator).SakhasInCluster, false},
	{"/all-sakti-sambhag", (*hierarchy.Aggregator).SakhasInSambhag, false},
	{"/all-sakti-mandale", (*hierarchy.Aggregator).SakhasInMandal, false},
	{"/all-sakti-jila", (*hierarchy.Aggregator).SakhasInJila, false},
	{"/all-sakti-loc", (*hierarchy.Aggregator).SakhasInLokSabha, false},
	{"/all-sakti-vidhan", (*hierarchy.Aggregator).SakhasInVidhanSabha, false},

	{"/all-booth-cluster", (*hierarchy.Aggregator).BoothsInCluster, true},
	{"/all-booth-sambhag", (*hierarchy.Aggregator).BoothsInSambhag, true},
	{"/all-booth-loc", (*hierarchy.Aggregator).BoothsInLokSabha, true},
	{"/all-booth-vidhan", (*hierarchy.Aggregator).BoothsInVidhanSabha, true},
	{"/all-booth-jila", (*hierarchy.Aggregator).BoothsInJila, true},
	{"/all-booth-mandale", (*hierarchy.Aggregator).BoothsInMandal, true},
	{"/all-booth-sakha", (*hierarchy.Aggregator).BoothsInSakha, true},

	{"/all-vidhan-cluster", (*hierarchy.Aggregator).VidhanSabhasInCluster, false},
	{"/all-loc-cluster", (*hierarchy.Aggregator).LokSabhasInCluster, false},
	{"/all-vidhan-loc", (*hierarchy.Aggregator).VidhanSabhasInLokSabha, false},
	{"/all-jila-sambhag", (*hierarchy.Aggregator).JilasInSambhag, false},
	{"/all-vidhan-sambhag", (*hierarchy.Aggregator).VidhanSabhasInSambhag, false},
	{"/all-vidhan-jila", (*hierarchy.Aggregator).VidhanSabhasInJila, false},
}

// AdminHandler serves the whole-hierarchy projections and the raw table dumps.
type AdminHandler struct {
	agg      *hierarchy.Aggregator
	cache    *cache.Cache
	boothTTL time.Duration
}

func NewAdminHandler(agg *hierarchy.Aggregator, c *cache.Cache, boothTTL time.Duration) *AdminHandler {
	return &AdminHandler{agg: agg, cache: c, boothTTL: boothTTL}
}

// Register mounts the admin routes on r. Access control is left to the caller.
func (h *AdminHandler) Register(r *mux.Router) {
	r.HandleFunc("/smdata", h.GetSmData).Methods(http.MethodGet)
	r.HandleFunc("/cludata", h.GetCluData).Methods(http.MethodGet)
	r.HandleFunc("/vddata", h.GetVdData).Methods(http.MethodGet)

	for _, route := range projectionRoutes {
		r.HandleFunc(route.path, h.projection(route)).Methods(http.MethodGet)
	}
}

func (h *AdminHandler) GetSmData(w http.ResponseWriter, r *http.Request) {
	rows, err := h.agg.SambhagRows(r.Context())
	if err != nil {
		serverError(w, r, "error fetching smdata", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{"data": rows})
}

func (h *AdminHandler) GetCluData(w http.ResponseWriter, r *http.Request) {
	rows, err := h.agg.ClusterRows(r.Context())
	if err != nil {
		serverError(w, r, "error fetching cludata", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{"data": rows})
}

func (h *AdminHandler) GetVdData(w http.ResponseWriter, r *http.Request) {
	rows, err := h.agg.LeafRows(r.Context())
	if err != nil {
		serverError(w, r, "error fetching vddata", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{"data": rows})
}

func (h *AdminHandler) projection(route projectionRoute) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, ok := parseScope(r)
		if !ok {
			utils.WriteError(w, http.StatusBadRequest, "Invalid id or vidId")
			return
		}

		key := projectionKey(route.path, scope)
		if route.cached {
			var hit map[string]json.RawMessage
			if h.cache.Get(r.Context(), key, &hit) && hit != nil {
				hit["cached"] = json.RawMessage("true")
				utils.WriteJSON(w, http.StatusOK, hit)
				return
			}
		}

		p, err := route.project(h.agg, r.Context(), scope)
		if err != nil {
			serverError(w, r, "error building "+route.path, err)
			return
		}

		if route.cached {
			h.cache.Set(r.Context(), key, p, h.boothTTL)
		}
		utils.WriteJSON(w, http.StatusOK, p)
	}
}

// parseScope reads the optional id and vidId query parameters. A present
// but malformed value is rejected.
func parseScope(r *http.Request) (*hierarchy.Scope, bool) {
	q := r.URL.Query()
	rawID, rawVid := q.Get("id"), q.Get("vidId")
	if rawID == "" {
		return nil, rawVid == ""
	}

	id, ok := utils.ParseID(rawID)
	if !ok {
		return nil, false
	}
	scope := &hierarchy.Scope{ID: id}
	if rawVid != "" {
		vid, ok := utils.ParseID(rawVid)
		if !ok {
			return nil, false
		}
		scope.VidID = models.Some(vid)
	}
	return scope, true
}

func projectionKey(path string, scope *hierarchy.Scope) string {
	key := "admin" + path
	if scope == nil {
		return key
	}
	key += ":" + strconv.FormatInt(scope.ID, 10)
	if scope.VidID.Valid {
		key += ":" + strconv.FormatInt(scope.VidID.Value, 10)
	}
	return key
}

func serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logger.Log.Errorw(msg, "path", r.URL.Path, "error", err)
	utils.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
}
