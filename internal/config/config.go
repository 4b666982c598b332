package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"line-relay/internal/domain"
)

type RuntimeConfig struct {
	Dev bool
}

type HTTPConfig struct {
	Port          int           `yaml:"port"`
	ReadTimeout   time.Duration `yaml:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`
}

type LineConfig struct {
	ChannelAccessToken string        `yaml:"channel_access_token"`
	ChannelSecret      string        `yaml:"channel_secret"`
	Endpoint           string        `yaml:"endpoint"` // empty means the SDK default
	Timeout            time.Duration `yaml:"timeout"`
	DryRun             bool          `yaml:"dry_run"` // log instead of calling LINE
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type RegistryConfig struct {
	Backend  string `yaml:"backend"`   // memory|redis|postgres
	RedisKey string `yaml:"redis_key"` // set key when backend=redis
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
}

type ReplyConfig struct {
	Lang string `yaml:"lang"` // locale file under i18n/locales
}

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Line     LineConfig     `yaml:"line"`
	Log      LogConfig      `yaml:"log"`
	Registry RegistryConfig `yaml:"registry"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
	Reply    ReplyConfig    `yaml:"reply"`

	Runtime RuntimeConfig `yaml:"-"`
}

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// LoadConfig reads the optional YAML file at path, then overlays .env and the
// process environment. A missing file is not an error: the channel
// credentials are normally supplied through the environment only.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// .env never overrides variables already set in the environment.
	_ = godotenv.Load()
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	cfg.Runtime.Dev = dev
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Line.ChannelAccessToken, "LINE_CHANNEL_ACCESS_TOKEN")
	setString(&cfg.Line.ChannelSecret, "LINE_CHANNEL_SECRET")
	setString(&cfg.Line.Endpoint, "LINE_API_ENDPOINT")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")
	setString(&cfg.Registry.Backend, "REGISTRY_BACKEND")
	setString(&cfg.Redis.URL, "REDIS_URL")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.Reply.Lang, "REPLY_LANG")

	if v := os.Getenv("HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HTTP_PORT: %w", err)
		}
		cfg.HTTP.Port = port
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		cfg.Redis.DB = db
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 5001
	}
	if cfg.HTTP.ReadTimeout <= 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout <= 0 {
		cfg.HTTP.WriteTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownGrace <= 0 {
		cfg.HTTP.ShutdownGrace = 10 * time.Second
	}
	if cfg.Line.Timeout <= 0 {
		cfg.Line.Timeout = 30 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Registry.Backend == "" {
		cfg.Registry.Backend = BackendMemory
	}
	cfg.Registry.Backend = strings.ToLower(cfg.Registry.Backend)
	if cfg.Registry.RedisKey == "" {
		cfg.Registry.RedisKey = "line:users"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Reply.Lang == "" {
		cfg.Reply.Lang = "ja"
	}
}

// Validate reports the first configuration problem that must stop startup.
func (c *Config) Validate() error {
	if c.Line.ChannelAccessToken == "" {
		return fmt.Errorf("%w: LINE_CHANNEL_ACCESS_TOKEN is required", domain.ErrMissingCredentials)
	}
	if c.Line.ChannelSecret == "" {
		return fmt.Errorf("%w: LINE_CHANNEL_SECRET is required", domain.ErrMissingCredentials)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.HTTP.Port)
	}
	switch c.Registry.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.URL == "" {
			return errors.New("redis.url is required when registry.backend=redis")
		}
	case BackendPostgres:
		if c.Database.URL == "" {
			return errors.New("database.url is required when registry.backend=postgres")
		}
	default:
		return fmt.Errorf("unknown registry.backend %q: must be one of memory, redis, postgres", c.Registry.Backend)
	}
	return nil
}
