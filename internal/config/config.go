package config // package config loads application configuration from environment variables

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds to
// one or more environment variables. The database may be left unconfigured:
// the server still starts and reports the store as unavailable, which keeps
// local frontend work possible without a database.
type Config struct {
	Env            string        // application environment ("dev", "prod", ...)
	Port           string        // HTTP port to listen on
	DSN            string        // MySQL DSN; empty when the database is unconfigured
	MaxOpenConns   int           // connection pool: max open connections
	MaxIdleConns   int           // connection pool: max idle connections
	ConnLifetime   time.Duration // connection pool: max connection lifetime
	QueryTimeout   time.Duration // per-operation query timeout
	AcquireTimeout time.Duration // how long a request waits for a healthy pool
	JWTSecret      string        // secret used to sign access tokens
	TokenTTL       time.Duration // access token lifetime
	BcryptCost     int           // bcrypt cost for password hashing
	DevAuth        bool          // whether the X-Session-User fallback is honoured
	BackendImage   string        // backend image tag reported by /health
	FrontendImage  string        // frontend image tag reported by /health
}

// Load reads configuration from the environment. JWT_SECRET is the only
// required variable; there is no safe default for a signing secret. The
// X-Session-User identity fallback is an unverified, dev-only convenience
// and is enabled exclusively when APP_ENV is "dev".
func Load() Config {
	env := getenv("APP_ENV", "dev")
	return Config{
		Env:            env,
		Port:           getenv("APP_PORT", "8080"),
		DSN:            DatabaseDSN(),
		MaxOpenConns:   envInt("DB_MAX_OPEN", 25),
		MaxIdleConns:   envInt("DB_MAX_IDLE", 25),
		ConnLifetime:   envDur("DB_CONN_LIFETIME", 30*time.Minute),
		QueryTimeout:   envDur("DB_QUERY_TIMEOUT", 5*time.Second),
		AcquireTimeout: envDur("DB_ACQUIRE_TIMEOUT", 3*time.Second),
		JWTSecret:      must("JWT_SECRET"),
		TokenTTL:       envDur("JWT_TTL", 8*time.Hour),
		BcryptCost:     envInt("BCRYPT_COST", 10),
		DevAuth:        env == "dev",
		BackendImage:   getenv("BACKEND_IMAGE", "unknown"),
		FrontendImage:  getenv("FRONTEND_IMAGE", "unknown"),
	}
}

// DatabaseDSN resolves the MySQL DSN. DATABASE_DSN wins when set; otherwise
// the DSN is assembled from the discrete DB_* variables. An empty string
// means the database is unconfigured. parseTime=true makes DATETIME columns
// scan into time.Time and loc=UTC keeps all instants in UTC.
func DatabaseDSN() string {
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		return dsn
	}
	host := os.Getenv("DB_HOST")
	name := os.Getenv("DB_NAME")
	if host == "" || name == "" {
		return ""
	}
	auth := getenv("DB_USER", "root")
	if pass := os.Getenv("DB_PASS"); pass != "" {
		auth = fmt.Sprintf("%s:%s", auth, pass)
	}
	port := getenv("DB_PORT", "3306")
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid duration for %s: %q", key, v)
	}
	return d
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return def
}
