package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type DBConfig struct {
	Driver       string
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	Path         string
	MaxOpenConns int
	MaxIdleConns int
}

// ConnString is the driver-specific data source name.
func (c DBConfig) ConnString() string {
	if c.Driver == DriverSQLite {
		return c.Path
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type Config struct {
	Port string

	DB              DBConfig
	SnapshotRefresh time.Duration

	CacheBackend      string
	RedisURL          string
	CacheNamespace    string
	BoothCacheTTL     time.Duration
	HierarchyCacheTTL time.Duration

	UserStore   string
	MongoURI    string
	MongoDBName string

	JWTSecret string
	JWTTTL    time.Duration

	CORSAllowedOrigins []string
	CORSDebug          bool
	RequestTimeout     time.Duration

	LogLevel  string
	LogFormat string

	// EnvFile is the .env file that was read, or "" when none was found.
	EnvFile string
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	BackendRedis  = "redis"
	BackendMemory = "memory"

	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "geo")
	v.SetDefault("DB_SSL_MODE", "")
	v.SetDefault("DB_PATH", "geo.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("SNAPSHOT_REFRESH", time.Duration(0))

	v.SetDefault("CACHE_BACKEND", BackendRedis)
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("CACHE_NAMESPACE", "geo")
	v.SetDefault("BOOTH_CACHE_TTL", 24*time.Hour)
	v.SetDefault("HIERARCHY_CACHE_TTL", time.Hour)

	v.SetDefault("USER_STORE", StoreMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB_NAME", "geo")

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", 24*time.Hour)

	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("CORS_DEBUG", false)
	v.SetDefault("REQUEST_TIMEOUT", 30*time.Second)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// envFile returns the first .env found in the usual places, or "".
func envFile() string {
	for _, path := range []string{".env", "../.env", "../../.env", os.Getenv("GEO_ENV")} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load resolves the configuration. Precedence: env > .env file > defaults.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	path := envFile()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("dotenv")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
	v.AutomaticEnv()

	cfg, err := fromViper(v)
	if err != nil {
		return nil, err
	}
	cfg.EnvFile = path
	return cfg, nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port: v.GetString("PORT"),
		DB: DBConfig{
			Driver:       strings.ToLower(v.GetString("DB_DRIVER")),
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSL_MODE"),
			Path:         v.GetString("DB_PATH"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		SnapshotRefresh: v.GetDuration("SNAPSHOT_REFRESH"),

		CacheBackend:      strings.ToLower(v.GetString("CACHE_BACKEND")),
		RedisURL:          v.GetString("REDIS_URL"),
		CacheNamespace:    v.GetString("CACHE_NAMESPACE"),
		BoothCacheTTL:     v.GetDuration("BOOTH_CACHE_TTL"),
		HierarchyCacheTTL: v.GetDuration("HIERARCHY_CACHE_TTL"),

		UserStore:   strings.ToLower(v.GetString("USER_STORE")),
		MongoURI:    v.GetString("MONGO_URI"),
		MongoDBName: v.GetString("MONGO_DB_NAME"),

		JWTSecret: v.GetString("JWT_SECRET"),
		JWTTTL:    v.GetDuration("JWT_TTL"),

		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		CORSDebug:          v.GetBool("CORS_DEBUG"),
		RequestTimeout:     v.GetDuration("REQUEST_TIMEOUT"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
	}

	if cfg.DB.SSLMode == "" {
		// managed Postgres providers refuse plaintext
		if strings.Contains(cfg.DB.Host, "aivencloud.com") {
			cfg.DB.SSLMode = "require"
		} else {
			cfg.DB.SSLMode = "disable"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unknown backends and non-positive TTLs.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DB.Driver)
	}
	switch c.CacheBackend {
	case BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend)
	}
	switch c.UserStore {
	case StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("unknown USER_STORE %q", c.UserStore)
	}
	if c.BoothCacheTTL <= 0 || c.HierarchyCacheTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	if c.SnapshotRefresh < 0 {
		return fmt.Errorf("SNAPSHOT_REFRESH must not be negative")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
