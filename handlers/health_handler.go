package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"geo_hierarchy/cache"
	"geo_hierarchy/hierarchy"
	"geo_hierarchy/users"
	"geo_hierarchy/utils"
)

type HealthResponse struct {
	Status          string `json:"status"`
	DBStatus        string `json:"db_status"`
	CacheStatus     string `json:"cache_status"`
	UserStoreStatus string `json:"user_store_status"`
	DBDetails       struct {
		Driver string   `json:"driver"`
		Tables []string `json:"tables"`
	} `json:"db_details"`
	Uptime string   `json:"uptime"`
	Errors []string `json:"errors,omitempty"`
}

// TableLister reports which of the hierarchy tables exist.
type TableLister func(ctx context.Context) ([]string, error)

type HealthHandler struct {
	agg     *hierarchy.Aggregator
	cache   *cache.Cache
	users   users.Store
	tables  TableLister
	driver  string
	started time.Time
}

func NewHealthHandler(agg *hierarchy.Aggregator, c *cache.Cache, store users.Store, tables TableLister, driver string) *HealthHandler {
	return &HealthHandler{agg: agg, cache: c, users: store, tables: tables, driver: driver, started: time.Now()}
}

func (h *HealthHandler) Register(r *mux.Router) {
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)
	r.HandleFunc("/health/detailed", h.Detailed).Methods(http.MethodGet)
}

// Detailed checks the data source, the cache and the user store. The cache
// being down degrades the service but does not fail it.
func (h *HealthHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var (
		dbErr, userErr, tableErr error
		tables                   []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dbErr = h.agg.Ping(gctx)
		return nil
	})
	g.Go(func() error {
		userErr = h.users.Ping(gctx)
		return nil
	})
	if h.tables != nil {
		g.Go(func() error {
			tables, tableErr = h.tables(gctx)
			return nil
		})
	}
	_ = g.Wait()

	resp := HealthResponse{
		Status:          "ok",
		DBStatus:        "connected",
		CacheStatus:     "connected",
		UserStoreStatus: "connected",
		Uptime:          time.Since(h.started).Round(time.Second).String(),
	}
	resp.DBDetails.Driver = h.driver
	resp.DBDetails.Tables = tables
	if resp.DBDetails.Tables == nil {
		resp.DBDetails.Tables = []string{}
	}

	status := http.StatusOK
	if dbErr != nil {
		resp.Status, resp.DBStatus = "error", "connection_error"
		resp.Errors = append(resp.Errors, "data source: "+dbErr.Error())
		status = http.StatusServiceUnavailable
	}
	if tableErr != nil {
		resp.Errors = append(resp.Errors, "tables: "+tableErr.Error())
	}
	if userErr != nil {
		resp.Status, resp.UserStoreStatus = "error", "connection_error"
		resp.Errors = append(resp.Errors, "user store: "+userErr.Error())
		status = http.StatusServiceUnavailable
	}
	if !h.cache.Connected() {
		resp.CacheStatus = "disconnected"
		if resp.Status == "ok" {
			resp.Status = "degraded"
		}
	}

	utils.WriteJSON(w, status, resp)
}
