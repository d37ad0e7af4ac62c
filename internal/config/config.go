// Package config loads the intake assistant's YAML configuration and
// applies INTAKE_* environment overrides. Model settings are read
// separately by llm.LoadConfig.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/intake/internal/domain"
	"github.com/alexanderramin/intake/internal/geo"
	"github.com/alexanderramin/intake/internal/store"
)

// Config is the top-level configuration.
type Config struct {
	Server       ServerConfig      `yaml:"server"`
	Store        StoreConfig       `yaml:"store"`
	Geo          GeoConfig         `yaml:"geo"`
	Log          LogConfig         `yaml:"log"`
	PaymentLinks map[string]string `yaml:"payment_links"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type StoreConfig struct {
	Driver      string   `yaml:"driver"`
	Dir         string   `yaml:"dir"`
	SQLitePath  string   `yaml:"sqlite_path"`
	PostgresDSN string   `yaml:"postgres_dsn"`
	S3          S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	Prefix    string `yaml:"prefix"`
	PathStyle bool   `yaml:"path_style"`
}

// GeoConfig configures the Nominatim geocoder.
type GeoConfig struct {
	Disabled  bool   `yaml:"disabled"`
	Endpoint  string `yaml:"endpoint"`
	City      string `yaml:"city"`
	Country   string `yaml:"country"`
	UserAgent string `yaml:"user_agent"`
	TimeoutMs int    `yaml:"timeout_ms"`
	// CacheSize bounds the resolver's per-query memo.
	CacheSize int    `yaml:"cache_size"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads path (if non-empty), applies environment overrides, defaults
// and validation. A missing file at the default location is not an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv("INTAKE_CONFIG_PATH")
		explicit = path != ""
	}
	if path == "" {
		path = "intake.yaml"
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		data = nil
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return parse(data, os.Getenv)
}

// Parse unmarshals YAML bytes into a validated Config without consulting
// the environment.
func Parse(data []byte) (*Config, error) {
	return parse(data, func(string) string { return "" })
}

func parse(data []byte, getenv func(string) string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	str("INTAKE_SERVER_HOST", &c.Server.Host)
	str("INTAKE_STORE_DRIVER", &c.Store.Driver)
	str("INTAKE_STORE_DIR", &c.Store.Dir)
	str("INTAKE_SQLITE_PATH", &c.Store.SQLitePath)
	str("INTAKE_POSTGRES_DSN", &c.Store.PostgresDSN)
	str("INTAKE_S3_BUCKET", &c.Store.S3.Bucket)
	str("INTAKE_S3_REGION", &c.Store.S3.Region)
	str("INTAKE_S3_ENDPOINT", &c.Store.S3.Endpoint)
	str("INTAKE_S3_PREFIX", &c.Store.S3.Prefix)
	str("INTAKE_GEO_ENDPOINT", &c.Geo.Endpoint)
	str("INTAKE_GEO_CITY", &c.Geo.City)
	str("INTAKE_LOG_LEVEL", &c.Log.Level)
	str("INTAKE_LOG_FORMAT", &c.Log.Format)
	str("INTAKE_LOG_PATH", &c.Log.Path)

	if v := getenv("INTAKE_SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: INTAKE_SERVER_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := getenv("INTAKE_S3_PATH_STYLE"); v != "" {
		c.Store.S3.PathStyle = strings.EqualFold(v, "true") || v == "1"
	}
	if v := getenv("INTAKE_GEO_DISABLED"); v != "" {
		c.Geo.Disabled = strings.EqualFold(v, "true") || v == "1"
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Store.Driver == "" {
		c.Store.Driver = store.DriverFile
	}
	if c.Store.Dir == "" {
		c.Store.Dir = "data"
	}
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = "data/intake.db"
	}
	if c.Geo.Endpoint == "" {
		c.Geo.Endpoint = "https://nominatim.openstreetmap.org"
	}
	if c.Geo.City == "" {
		c.Geo.City = "Bursa"
	}
	if c.Geo.Country == "" {
		c.Geo.Country = "Türkiye"
	}
	if c.Geo.UserAgent == "" {
		c.Geo.UserAgent = "municipal_bot"
	}
	if c.Geo.TimeoutMs == 0 {
		c.Geo.TimeoutMs = 5000
	}
	if c.Geo.CacheSize <= 0 {
		c.Geo.CacheSize = geo.DefaultCacheSize
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *Config) validate() error {
	var errs []string
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	switch c.Store.Driver {
	case store.DriverFile, store.DriverSQLite, store.DriverMemory:
	case store.DriverPostgres:
		if c.Store.PostgresDSN == "" {
			errs = append(errs, "store.postgres_dsn is required for the postgres driver")
		}
	case store.DriverS3:
		if c.Store.S3.Bucket == "" {
			errs = append(errs, "store.s3.bucket is required for the s3 driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("store.driver %q is not one of file, sqlite, postgres, s3, memory", c.Store.Driver))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format %q is not text or json", c.Log.Format))
	}
	for k := range c.PaymentLinks {
		if _, ok := domain.DefaultPaymentLinks[domain.PaymentCategory(strings.ToUpper(k))]; !ok {
			errs = append(errs, fmt.Sprintf("payment_links: unknown category %q", k))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// StoreOptions converts the store section for store.Open.
func (c *Config) StoreOptions() store.Config {
	return store.Config{
		Driver:      c.Store.Driver,
		Dir:         c.Store.Dir,
		SQLitePath:  c.Store.SQLitePath,
		PostgresDSN: c.Store.PostgresDSN,
		S3: store.S3Config{
			Bucket:    c.Store.S3.Bucket,
			Region:    c.Store.S3.Region,
			Endpoint:  c.Store.S3.Endpoint,
			Prefix:    c.Store.S3.Prefix,
			PathStyle: c.Store.S3.PathStyle,
		},
	}
}

// Links returns the payment table with configured overrides applied.
func (c *Config) Links() map[domain.PaymentCategory]string {
	out := make(map[domain.PaymentCategory]string, len(domain.DefaultPaymentLinks))
	for k, v := range domain.DefaultPaymentLinks {
		out[k] = v
	}
	for k, v := range c.PaymentLinks {
		out[domain.PaymentCategory(strings.ToUpper(k))] = v
	}
	return out
}
