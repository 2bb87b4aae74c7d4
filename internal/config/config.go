package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/Skotchmaster/favorites_api/internal/es"
	pkgcfg "github.com/Skotchmaster/favorites_api/pkg/config"
	pkgdb "github.com/Skotchmaster/favorites_api/pkg/db"
)

const minAppKeyLen = 16

type Config struct {
	Host   string
	Port   int
	AppEnv string
	AppKey []byte

	DBConnection string
	DatabaseDSN  string

	FakeStoreURL string
	LogLevel     string

	KafkaBrokers []string

	Elastic es.Config
	ESIndex string
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Load reads the process environment and reports every missing or invalid
// variable in a single error.
func Load() (*Config, error) {
	var p pkgcfg.Problems

	cfg := &Config{
		Host:         pkgcfg.EnvDefault("HOST", "0.0.0.0"),
		AppEnv:       pkgcfg.EnvDefault("APP_ENV", "development"),
		AppKey:       []byte(os.Getenv("APP_KEY")),
		DBConnection: pkgcfg.EnvDefault("DB_CONNECTION", pkgdb.DialectPostgres),
		FakeStoreURL: strings.TrimRight(pkgcfg.EnvDefault("FAKE_STORE_API_URL", "https://fakestoreapi.com"), "/"),
		LogLevel:     pkgcfg.EnvDefault("LOG_LEVEL", "info"),
		KafkaBrokers: pkgcfg.CSV(os.Getenv("KAFKA_BROKERS")),
		Elastic: es.Config{
			URL:      os.Getenv("ES_URL"),
			User:     os.Getenv("ES_USER"),
			Password: os.Getenv("ES_PASSWORD"),
		},
		ESIndex: pkgcfg.EnvDefault("ES_INDEX", es.DefaultIndex),
	}

	port, err := strconv.Atoi(pkgcfg.EnvDefault("PORT", "3333"))
	if err != nil || port < 1 || port > 65535 {
		p.Addf("env PORT must be a port number, got %q", os.Getenv("PORT"))
	}
	cfg.Port = port

	p.OneOf(cfg.AppEnv, "APP_ENV", "development", "production", "test")
	p.NonEmpty(string(cfg.AppKey), "APP_KEY")
	if n := len(cfg.AppKey); n > 0 && n < minAppKeyLen {
		p.Addf("env APP_KEY must be at least %d bytes, got %d", minAppKeyLen, n)
	}
	if u, err := url.Parse(cfg.FakeStoreURL); err != nil || u.Scheme == "" || u.Host == "" {
		p.Addf("env FAKE_STORE_API_URL must be an absolute URL, got %q", cfg.FakeStoreURL)
	}

	p.OneOf(cfg.DBConnection, "DB_CONNECTION", pkgdb.DialectPostgres, pkgdb.DialectSQLite)
	switch cfg.DBConnection {
	case pkgdb.DialectPostgres:
		cfg.DatabaseDSN = postgresDSN(&p)
	case pkgdb.DialectSQLite:
		cfg.DatabaseDSN = sqliteDSN(pkgcfg.EnvDefault("SQLITE_PATH", "favorites.db"))
	}

	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func postgresDSN(p *pkgcfg.Problems) string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}

	host, user, name := os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_DATABASE")
	p.NonEmpty(host, "DB_HOST")
	p.NonEmpty(user, "DB_USER")
	p.NonEmpty(name, "DB_DATABASE")

	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(host, pkgcfg.EnvDefault("DB_PORT", "5432")),
		Path:     "/" + name,
		RawQuery: "sslmode=" + pkgcfg.EnvDefault("DB_SSLMODE", "disable"),
	}
	if pw := os.Getenv("DB_PASSWORD"); pw != "" {
		u.User = url.UserPassword(user, pw)
	} else {
		u.User = url.User(user)
	}
	return u.String()
}

// sqliteDSN turns foreign keys on so that favorites cascade with their customer.
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=foreign_keys(1)"
}
