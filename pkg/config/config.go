package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "KASBOOK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env      string `envconfig:"KASBOOK_APP_ENV" required:"true"`
	Port     string `envconfig:"KASBOOK_APP_PORT" default:"8080"`
	LogLevel string `envconfig:"KASBOOK_LOG_LEVEL" default:"info"`

	// AutoMigrate runs pending goose migrations on startup. Dev only.
	AutoMigrate bool `envconfig:"KASBOOK_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"KASBOOK_DB_DSN"`

	Host     string `envconfig:"KASBOOK_DB_HOST"`
	Port     int    `envconfig:"KASBOOK_DB_PORT" default:"5432"`
	User     string `envconfig:"KASBOOK_DB_USER"`
	Password string `envconfig:"KASBOOK_DB_PASSWORD"`
	Name     string `envconfig:"KASBOOK_DB_NAME"`
	SSLMode  string `envconfig:"KASBOOK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KASBOOK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KASBOOK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KASBOOK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KASBOOK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN builds a Postgres DSN from the discrete fields when one was not
// provided directly.
func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	var missing []string
	for env, value := range map[string]string{
		"KASBOOK_DB_HOST": db.Host,
		"KASBOOK_DB_USER": db.User,
		"KASBOOK_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either KASBOOK_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:     db.Name,
		RawQuery: url.Values{"sslmode": []string{db.SSLMode}}.Encode(),
	}
	db.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"KASBOOK_REDIS_URL"`
	Address      string        `envconfig:"KASBOOK_REDIS_ADDRESS"`
	Password     string        `envconfig:"KASBOOK_REDIS_PASSWORD"`
	DB           int           `envconfig:"KASBOOK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KASBOOK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KASBOOK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KASBOOK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KASBOOK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KASBOOK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured. Redis is optional:
// without it the API runs with request replay protection disabled.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}
