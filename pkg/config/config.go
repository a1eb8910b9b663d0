package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "MESACOMPRAS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "MESACOMPRAS_DB_DSN"
	EnvDBHost = "MESACOMPRAS_DB_HOST"
	EnvDBUser = "MESACOMPRAS_DB_USER"
	EnvDBName = "MESACOMPRAS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Import   ImportConfig
	Flags    FeatureFlagsConfig
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
	Env          string `envconfig:"MESACOMPRAS_APP_ENV" required:"true"`
	Port         string `envconfig:"MESACOMPRAS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MESACOMPRAS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MESACOMPRAS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MESACOMPRAS_DB_DSN"`
	Driver string `envconfig:"MESACOMPRAS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MESACOMPRAS_DB_HOST"`
	LegacyPort     int    `envconfig:"MESACOMPRAS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MESACOMPRAS_DB_USER"`
	LegacyPassword string `envconfig:"MESACOMPRAS_DB_PASSWORD"`
	LegacyName     string `envconfig:"MESACOMPRAS_DB_NAME"`
	LegacySSLMode  string `envconfig:"MESACOMPRAS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MESACOMPRAS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MESACOMPRAS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MESACOMPRAS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MESACOMPRAS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MESACOMPRAS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MESACOMPRAS_REDIS_ADDR"`
	Password     string        `envconfig:"MESACOMPRAS_REDIS_PASSWORD"`
	DB           int           `envconfig:"MESACOMPRAS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MESACOMPRAS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MESACOMPRAS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MESACOMPRAS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MESACOMPRAS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MESACOMPRAS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MESACOMPRAS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MESACOMPRAS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MESACOMPRAS_JWT_EXPIRATION_MINUTES" default:"480"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MESACOMPRAS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MESACOMPRAS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MESACOMPRAS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MESACOMPRAS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MESACOMPRAS_ARGON_KEY_LEN" default:"32"`
}

// ImportConfig governs how spreadsheet imports react to row-level failures.
// Lenient mode (default) attempts every row and reports failures per row;
// strict mode aborts the import on the first failing row.
type ImportConfig struct {
	Strict         bool          `envconfig:"MESACOMPRAS_IMPORT_STRICT" default:"false"`
	MaxUploadMB    int           `envconfig:"MESACOMPRAS_IMPORT_MAX_UPLOAD_MB" default:"20"`
	IdempotencyTTL time.Duration `envconfig:"MESACOMPRAS_IMPORT_IDEMPOTENCY_TTL" default:"24h"`
	RowWorkers     int           `envconfig:"MESACOMPRAS_IMPORT_ROW_WORKERS" default:"8"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MESACOMPRAS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
