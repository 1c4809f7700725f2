package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	BaseURL   string
	DBDSN     string
	PublicDir string
	LogFile   string

	JWTSecret    string
	LegacyTokens bool

	IdpJWTSecret string
	IdpJWKSURL   string
	IdpIssuer    string

	StorageDriver string // local | bucket
	StorageURL    string
	StorageBucket string
	StorageKey    string

	CacheTTL             time.Duration
	CacheCapacity        uint64
	CacheWriteInvalidate bool

	TranslateURL string

	MigrateOnStart bool
	AllowedOrigins string
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Port:          getenv("PORT", "8082"),
		BaseURL:       getenv("BASE_URL", "http://localhost:8082"),
		DBDSN:         getenv("DB_DSN", "marketnest.db"),
		PublicDir:     getenv("PUBLIC_DIR", "./public"),
		LogFile:       getenv("LOG_FILE", ""),
		JWTSecret:     getenv("JWT_SECRET", "dev-only-secret"),
		LegacyTokens:  getbool("AUTH_LEGACY_TOKENS", true),
		IdpJWTSecret:  os.Getenv("IDP_JWT_SECRET"),
		IdpJWKSURL:    os.Getenv("IDP_JWKS_URL"),
		IdpIssuer:     os.Getenv("IDP_ISSUER"),
		StorageDriver: getenv("STORAGE_DRIVER", "local"),
		StorageURL:    os.Getenv("STORAGE_URL"),
		StorageBucket: os.Getenv("STORAGE_BUCKET"),
		StorageKey:    os.Getenv("STORAGE_KEY"),

		CacheTTL:             getdur("CACHE_TTL", time.Minute),
		CacheCapacity:        getuint("CACHE_CAPACITY", 1024),
		CacheWriteInvalidate: getbool("CACHE_WRITE_INVALIDATE", true),

		TranslateURL: os.Getenv("TRANSLATE_URL"),

		MigrateOnStart: getbool("MIGRATE_ON_START", true),
		AllowedOrigins: getenv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000"),
	}

	log.Printf("[config] PORT=%s DB_DSN=%s PUBLIC_DIR=%s STORAGE=%s CACHE_TTL=%s",
		cfg.Port, cfg.DBDSN, cfg.PublicDir, cfg.StorageDriver, cfg.CacheTTL)
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getdur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getuint(key string, def uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}
