package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/mongo"

	"geo_hierarchy/config"
	apihandlers "geo_hierarchy/handlers"
	"geo_hierarchy/hierarchy"
	"geo_hierarchy/logger"
	"geo_hierarchy/middleware"
	"geo_hierarchy/source"
	"geo_hierarchy/users"
)

func main() {
	if err := run(); err != nil {
		logger.Log.Errorw("server exited", "error", err)
		logger.Sync()
		os.Exit(1)
	}
}

func run() error {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	logger.Log.Infow("starting server initialization", "at", startTime.Format(time.RFC3339))
	if cfg.EnvFile != "" {
		logger.Log.Infow("loaded env file", "path", cfg.EnvFile)
	}

	ctx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	db, err := config.InitDBWithRetry(ctx, cfg.DB, 5)
	if err != nil {
		return err
	}

	src, err := buildSource(ctx, db, cfg)
	if err != nil {
		db.Close()
		return err
	}

	responseCache := config.InitCache(ctx, cfg)
	defer responseCache.Close()

	userStore, mongoClient, err := buildUserStore(ctx, cfg)
	if err != nil {
		db.Close()
		return err
	}
	defer config.CloseDB(db, mongoClient)

	if cfg.JWTSecret == "" {
		logger.Log.Warnw("JWT_SECRET is not set, authenticated routes will fail")
	}

	r := mux.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Requested-With",
			"Origin",
			middleware.RequestIDHeader,
		},
		ExposedHeaders: []string{
			"Content-Length",
			"Content-Type",
			middleware.RequestIDHeader,
		},
		AllowCredentials: false,
		MaxAge:           86400,
	})

	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(handlers.CompressHandler)

	api := r.PathPrefix("/api/v1").Subrouter()
	apihandlers.RegisterRoutes(api, apihandlers.Dependencies{
		Aggregator: hierarchy.NewAggregator(src),
		Cache:      responseCache,
		Users:      userStore,
		Auth:       middleware.NewAuth(cfg.JWTSecret, cfg.JWTTTL),
		Tables: func(ctx context.Context) ([]string, error) {
			return config.ExistingTables(ctx, db, cfg.DB.Driver)
		},
		Driver:       cfg.DB.Driver,
		BoothTTL:     cfg.BoothCacheTTL,
		TraversalTTL: cfg.HierarchyCacheTTL,
	})
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	logger.Log.Infow("routes registered")

	// Preflight requests match no route, so CORS has to wrap the router.
	var handler http.Handler = corsHandler.Handler(r)
	if cfg.CORSDebug {
		handler = middleware.CORSDebugMiddleware(handler)
	}

	srv := &http.Server{
		Handler:           http.TimeoutHandler(handler, cfg.RequestTimeout, `{"success":false,"error":"Request timed out"}`),
		Addr:              ":" + cfg.Port,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Log.Infow("starting server", "port", cfg.Port, "startup", time.Since(startTime).String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-stop:
		logger.Log.Infow("shutdown signal received", "signal", sig.String())
	case serveErr = <-serverErrors:
		logger.Log.Errorw("server error received", "error", serveErr)
	}

	logger.Log.Infow("shutting down server")
	stopBackground()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("error during server shutdown", "error", err)
	} else {
		logger.Log.Infow("server shutdown completed")
	}
	return serveErr
}

// buildSource serves the hierarchy straight from SQL, or from an in-memory
// snapshot refreshed every SNAPSHOT_REFRESH when that is set.
func buildSource(ctx context.Context, db *sql.DB, cfg *config.Config) (source.Source, error) {
	sqlSource := source.NewSQL(db, cfg.DB.Dialect())
	if cfg.SnapshotRefresh <= 0 {
		return sqlSource, nil
	}

	snap, err := source.NewSnapshot(ctx, sqlSource)
	if err != nil {
		return nil, fmt.Errorf("load hierarchy snapshot: %w", err)
	}
	go snap.Run(ctx, cfg.SnapshotRefresh)
	logger.Log.Infow("serving hierarchy from snapshot", "refresh", cfg.SnapshotRefresh.String())
	return snap, nil
}

func buildUserStore(ctx context.Context, cfg *config.Config) (users.Store, *mongo.Client, error) {
	if cfg.UserStore == config.StoreMemory {
		logger.Log.Warnw("using in-memory user store, users are lost on restart")
		return users.NewMemoryStore(), nil, nil
	}

	client, mdb, err := config.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		return nil, nil, err
	}
	store := users.NewMongoStore(mdb)
	if err := store.EnsureIndexes(ctx); err != nil {
		config.CloseDB(nil, client)
		return nil, nil, fmt.Errorf("create user indexes: %w", err)
	}
	return store, client, nil
}
