package config

import (
	"bufio"
	"fmt"
	"net"
	neturl "net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store selects the user store backend.
type Store string

const (
	// StorePostgres persists users in PostgreSQL.
	StorePostgres Store = "postgres"
	// StoreMemory keeps users in a process-local map.
	StoreMemory Store = "memory"
)

// Config centralises runtime configuration.
type Config struct {
	HTTPPort        string   `env:"PORT" envDefault:"8080"`
	Store           Store    `env:"STORE" envDefault:"postgres"`
	JWTSecret       string   `env:"JWT_SECRET"`
	JWTIssuer       string   `env:"JWT_ISSUER" envDefault:"usermgmt"`
	JWTExpire       string   `env:"JWT_EXPIRE" envDefault:"7d"`
	AllowedOrigins  []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	ReadTimeoutSec  int      `env:"HTTP_READ_TIMEOUT" envDefault:"15"`
	WriteTimeoutSec int      `env:"HTTP_WRITE_TIMEOUT" envDefault:"15"`
	IdleTimeoutSec  int      `env:"HTTP_IDLE_TIMEOUT" envDefault:"60"`
	Development     bool     `env:"DEV_MODE" envDefault:"false"`

	// Derived after parsing; not read from the environment directly.
	DatabaseURL string
	JWTExpiry   time.Duration
}

// Load reads configuration from a .env file (when present) and the
// environment, providing sane defaults.
func Load() (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	cfg.DatabaseURL = resolveDatabaseURL()

	expiry, err := parseLifetime(cfg.JWTExpire)
	if err != nil {
		return Config{}, fmt.Errorf("JWT_EXPIRE: %w", err)
	}
	cfg.JWTExpiry = expiry

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	switch cfg.Store {
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("database configuration missing: provide DATABASE_URL or PG* env vars, or set STORE=memory")
		}
	case StoreMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORE %q", cfg.Store)
	}
	return cfg, nil
}

// parseLifetime accepts Go durations plus a day suffix, e.g. "7d".
func parseLifetime(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err == nil {
			return time.Duration(n) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(value)
}

func resolveDatabaseURL() string {
	for _, key := range []string{"DATABASE_URL", "POSTGRES_URL", "PGURL"} {
		if url := coerceDatabaseURL(os.Getenv(key)); url != "" {
			return url
		}
	}

	host := firstNonEmpty(os.Getenv("PGHOST"), os.Getenv("DB_HOST"))
	if host == "" {
		return ""
	}
	user := firstNonEmpty(os.Getenv("PGUSER"), os.Getenv("DB_USER"), "postgres")
	password := firstNonEmpty(os.Getenv("PGPASSWORD"), os.Getenv("DB_PASSWORD"))
	database := firstNonEmpty(os.Getenv("PGDATABASE"), os.Getenv("DB_NAME"), user)
	port := firstNonEmpty(os.Getenv("PGPORT"), os.Getenv("DB_PORT"), "5432")
	sslMode := firstNonEmpty(os.Getenv("PGSSLMODE"), "prefer")

	dsn := &neturl.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + database,
	}
	dsn.User = neturl.User(user)
	if password != "" {
		dsn.User = neturl.UserPassword(user, password)
	}

	query := dsn.Query()
	query.Set("sslmode", sslMode)
	dsn.RawQuery = query.Encode()

	return dsn.String()
}

func coerceDatabaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "postgresql://") {
		return "postgres://" + strings.TrimPrefix(raw, "postgresql://")
	}
	if strings.HasPrefix(raw, "postgres://") {
		return raw
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func loadDotEnv(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf(".env line %d: missing '='", lineNum)
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if key == "" {
			return fmt.Errorf(".env line %d: empty key", lineNum)
		}

		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') || (value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		// Real environment wins over the .env file.
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf(".env line %d: %w", lineNum, err)
		}
	}
	return scanner.Err()
}
