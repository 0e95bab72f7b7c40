package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Seeder       SeederConfig
	Cron         CronConfig
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
	Env          string `envconfig:"FLEETOPS_APP_ENV" required:"true"`
	Port         string `envconfig:"FLEETOPS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"FLEETOPS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FLEETOPS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"FLEETOPS_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"FLEETOPS_DB_DSN"`
	Driver string `envconfig:"FLEETOPS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FLEETOPS_DB_HOST"`
	LegacyPort     int    `envconfig:"FLEETOPS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FLEETOPS_DB_USER"`
	LegacyPassword string `envconfig:"FLEETOPS_DB_PASSWORD"`
	LegacyName     string `envconfig:"FLEETOPS_DB_NAME"`
	LegacySSLMode  string `envconfig:"FLEETOPS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FLEETOPS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FLEETOPS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FLEETOPS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FLEETOPS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FLEETOPS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FLEETOPS_REDIS_ADDR"`
	Password     string        `envconfig:"FLEETOPS_REDIS_PASSWORD"`
	DB           int           `envconfig:"FLEETOPS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FLEETOPS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FLEETOPS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FLEETOPS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FLEETOPS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FLEETOPS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FLEETOPS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FLEETOPS_JWT_ISSUER" default:"fleetops"`
	ExpirationMinutes int    `envconfig:"FLEETOPS_JWT_EXPIRATION_MINUTES" default:"60"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FLEETOPS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FLEETOPS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FLEETOPS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FLEETOPS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FLEETOPS_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FLEETOPS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FLEETOPS_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"FLEETOPS_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"FLEETOPS_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"FLEETOPS_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"FLEETOPS_GCS_BUCKET_NAME"`
}

// SeederConfig controls workbook imports.
type SeederConfig struct {
	Bucket       string `envconfig:"FLEETOPS_SEEDER_BUCKET"`
	ObjectPrefix string `envconfig:"FLEETOPS_SEEDER_OBJECT_PREFIX" default:"seeds/"`
	ActorUserID  int64  `envconfig:"FLEETOPS_SEEDER_ACTOR_USER_ID" default:"1"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"FLEETOPS_CRON_INTERVAL" default:"15m"`
	LockTTL  time.Duration `envconfig:"FLEETOPS_CRON_LOCK_TTL" default:"10m"`
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
