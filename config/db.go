package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	_ "modernc.org/sqlite"

	"geo_hierarchy/logger"
	"geo_hierarchy/source"
)

// HierarchyTables must exist before the API can serve anything.
var HierarchyTables = []string{"cludata", "smdata", "vddata"}

const retryDelay = 5 * time.Second

// Dialect maps the configured driver to the SQL source dialect.
func (c DBConfig) Dialect() source.Dialect {
	if c.Driver == DriverSQLite {
		return source.SQLite
	}
	return source.Postgres
}

// InitDBWithRetry opens the hierarchy database, retrying while it is not
// reachable or not yet populated.
func InitDBWithRetry(ctx context.Context, cfg DBConfig, maxRetries int) (*sql.DB, error) {
	var err error
	for i := 0; i < maxRetries; i++ {
		var db *sql.DB
		db, err = InitDB(ctx, cfg)
		if err == nil {
			return db, nil
		}
		logger.Log.Warnw("database not ready", "attempt", i+1, "max", maxRetries, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, fmt.Errorf("failed to connect to %s after %d attempts: %w", cfg.Driver, maxRetries, err)
}

func InitDB(ctx context.Context, cfg DBConfig) (*sql.DB, error) {
	logger.Log.Infow("connecting to database",
		"driver", cfg.Driver,
		"host", cfg.Host,
		"port", cfg.Port,
		"name", cfg.Name,
		"sslmode", cfg.SSLMode,
		"path", cfg.Path,
	)

	db, err := sql.Open(cfg.Driver, cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to %s database: %w", cfg.Driver, err)
	}

	present, err := ExistingTables(pingCtx, db, cfg.Driver)
	if err != nil {
		db.Close()
		return nil, err
	}
	if missing := missingTables(present); len(missing) > 0 {
		db.Close()
		return nil, fmt.Errorf("tables %v do not exist in the database", missing)
	}

	logger.Log.Infow("verified hierarchy tables", "tables", present)
	return db, nil
}

// ExistingTables returns which of HierarchyTables exist, in their order.
func ExistingTables(ctx context.Context, db *sql.DB, driver string) ([]string, error) {
	query := `
        SELECT EXISTS (
            SELECT FROM information_schema.tables
            WHERE table_name = $1
        )`
	if driver == DriverSQLite {
		query = `SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?)`
	}

	existing := []string{}
	for _, table := range HierarchyTables {
		var exists bool
		if err := db.QueryRowContext(ctx, query, table).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check table %s: %w", table, err)
		}
		if exists {
			existing = append(existing, table)
		}
	}
	return existing, nil
}

func missingTables(present []string) []string {
	have := make(map[string]bool, len(present))
	for _, t := range present {
		have[t] = true
	}
	var missing []string
	for _, t := range HierarchyTables {
		if !have[t] {
			missing = append(missing, t)
		}
	}
	return missing
}

// ConnectMongo opens the user directory database.
func ConnectMongo(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	clientOptions := options.Client().ApplyURI(uri).
		SetMaxPoolSize(50).
		SetMinPoolSize(2).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second).
		SetSocketTimeout(30 * time.Second).
		SetRetryWrites(true).
		SetRetryReads(true).
		SetWriteConcern(writeconcern.Majority()).
		SetReadConcern(readconcern.Majority()).
		SetReadPreference(readpref.Primary())

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	logger.Log.Infow("connected to MongoDB", "database", dbName)
	return client, client.Database(dbName), nil
}

// CloseDB releases the database handles that were opened. Either may be nil.
func CloseDB(db *sql.DB, client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if db != nil {
		if err := db.Close(); err != nil {
			logger.Log.Errorw("error closing database", "error", err)
		}
	}
	if client != nil {
		if err := client.Disconnect(ctx); err != nil {
			logger.Log.Errorw("error closing MongoDB connection", "error", err)
		}
	}
}
