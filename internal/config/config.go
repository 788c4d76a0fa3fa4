package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	pkglogger "github.com/vidora/vidora-backend/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration loaded from configs/config.<env>.yaml
type Config struct {
	App           AppConfig           `yaml:"app"`
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Mongo         MongoConfig         `yaml:"mongo"`
	Redis         RedisConfig         `yaml:"redis"`
	JWT           JWTConfig           `yaml:"jwt"`
	Storage       StorageConfig       `yaml:"storage"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	CORS          CORSConfig          `yaml:"cors"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	Reaction      ReactionConfig      `yaml:"reaction"`
}

type AppConfig struct {
	Name string `yaml:"name"`
	Env  string `yaml:"env"`
}

type ServerConfig struct {
	Port            int  `yaml:"port"`
	ReadTimeout     int  `yaml:"read_timeout"`
	WriteTimeout    int  `yaml:"write_timeout"`
	ShutdownTimeout int  `yaml:"shutdown_timeout"`
	MaxUploadMB     int  `yaml:"max_upload_mb"`
	SecureCookies   bool `yaml:"secure_cookies"`
}

type DatabaseConfig struct {
	Driver          string `yaml:"driver"` // mysql | sqlite
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	DBName          string `yaml:"dbname"`
	Charset         string `yaml:"charset"`
	SQLitePath      string `yaml:"sqlite_path"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"`
	LogLevel        string `yaml:"log_level"`
}

// GetDSN builds the MySQL DSN
func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.Charset)
}

type MongoConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type JWTConfig struct {
	Secret        string `yaml:"secret"`
	RefreshSecret string `yaml:"refresh_secret"`
	ExpiresIn     int    `yaml:"expires_in"` // seconds
	RefreshIn     int    `yaml:"refresh_in"` // seconds
}

type StorageConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	CDNURL          string `yaml:"cdn_url"`
	BasePath        string `yaml:"base_path"`
	ForcePathStyle  bool   `yaml:"force_path_style"`
}

type ElasticsearchConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Addresses []string `yaml:"addresses"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	Index     string   `yaml:"index"`
}

type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"` // comma separated
}

type RateLimitConfig struct {
	RequestsPerMinute  int `yaml:"requests_per_minute"`
	ReactionsPerMinute int `yaml:"reactions_per_minute"`
}

type ReactionConfig struct {
	Store string `yaml:"store"` // sql | mongo
}

// IsDevelopment reports whether the app runs in a local/dev environment
func (c *Config) IsDevelopment() bool {
	switch c.App.Env {
	case "", "local", "dev", "development":
		return true
	}
	return false
}

// Load reads the YAML file at path, expands ${VAR} references and applies env overrides
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "vidora-backend"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 512
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.Charset == "" {
		c.Database.Charset = "utf8mb4"
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 10
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 50
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.JWT.ExpiresIn == 0 {
		c.JWT.ExpiresIn = 900
	}
	if c.JWT.RefreshIn == 0 {
		c.JWT.RefreshIn = 7 * 24 * 3600
	}
	if c.Elasticsearch.Index == "" {
		c.Elasticsearch.Index = "videos"
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "vidora"
	}
	if c.RateLimit.RequestsPerMinute == 0 {
		c.RateLimit.RequestsPerMinute = 120
	}
	if c.RateLimit.ReactionsPerMinute == 0 {
		c.RateLimit.ReactionsPerMinute = 60
	}
	if c.Reaction.Store == "" {
		c.Reaction.Store = "sql"
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("APP_ENV"); v != "" {
		c.App.Env = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	overrideString(&c.Database.Password, "DB_PASSWORD")
	overrideString(&c.Database.Host, "DB_HOST")
	overrideString(&c.Redis.Password, "REDIS_PASSWORD")
	overrideString(&c.JWT.Secret, "JWT_SECRET")
	overrideString(&c.JWT.RefreshSecret, "JWT_REFRESH_SECRET")
	overrideString(&c.Storage.AccessKeyID, "S3_ACCESS_KEY_ID")
	overrideString(&c.Storage.SecretAccessKey, "S3_SECRET_ACCESS_KEY")
	overrideString(&c.Mongo.URI, "MONGO_URI")
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks settings the server cannot start without
func (c *Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret is required"))
	} else if !c.IsDevelopment() && len(c.JWT.Secret) < 32 {
		errs = append(errs, errors.New("jwt.secret must be at least 32 characters outside development"))
	}
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("database.driver %q is not supported", c.Database.Driver))
	}
	switch c.Reaction.Store {
	case "sql":
	case "mongo":
		if !c.Mongo.Enabled || c.Mongo.URI == "" {
			errs = append(errs, errors.New("reaction.store=mongo requires mongo.enabled and mongo.uri"))
		}
	default:
		errs = append(errs, fmt.Errorf("reaction.store %q is not supported", c.Reaction.Store))
	}
	return errors.Join(errs...)
}

// AllowedOrigins splits CORS.AllowOrigins on commas
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORS.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return origins
}

// LogResolved logs the effective non-secret settings
func LogResolved(cfg *Config) {
	pkglogger.GetLogger().Info().
		Str("env", cfg.App.Env).
		Int("port", cfg.Server.Port).
		Str("db_driver", cfg.Database.Driver).
		Str("db_host", cfg.Database.Host).
		Str("db_name", cfg.Database.DBName).
		Str("redis", fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)).
		Bool("storage", cfg.Storage.Enabled).
		Bool("elasticsearch", cfg.Elasticsearch.Enabled).
		Bool("mongo", cfg.Mongo.Enabled).
		Str("reaction_store", cfg.Reaction.Store).
		Msg("config resolved")
}
