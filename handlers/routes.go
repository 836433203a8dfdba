package handlers

import (
	"time"

	"github.com/gorilla/mux"

	"geo_hierarchy/cache"
	"geo_hierarchy/hierarchy"
	"geo_hierarchy/middleware"
	"geo_hierarchy/models"
	"geo_hierarchy/users"
)

// Dependencies are the services the HTTP surface is built on.
type Dependencies struct {
	Aggregator   *hierarchy.Aggregator
	Cache        *cache.Cache
	Users        users.Store
	Auth         *middleware.Auth
	Tables       TableLister
	Driver       string
	BoothTTL     time.Duration
	TraversalTTL time.Duration
}

// RegisterRoutes mounts every API route on api (the /api/v1 subrouter).
func RegisterRoutes(api *mux.Router, d Dependencies) {
	NewHealthHandler(d.Aggregator, d.Cache, d.Users, d.Tables, d.Driver).Register(api)

	NewAuthHandler(d.Users, d.Auth).Register(api.PathPrefix("/auth").Subrouter())

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(d.Auth.Authenticate, middleware.RequireRole(models.RoleAdmin))
	NewAdminHandler(d.Aggregator, d.Cache, d.BoothTTL).Register(admin)

	hier := api.PathPrefix("/hierarchy").Subrouter()
	hier.Use(d.Auth.Authenticate)
	NewHierarchyHandler(d.Aggregator, d.Cache, d.TraversalTTL).Register(hier)
}
