package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Catalog drivers.
const (
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverValkey   = "valkey"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverBadger   = "badger"
)

// Config holds the coursesearch configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Vocabulary VocabularyConfig `yaml:"vocabulary"`
	Matching   MatchingConfig   `yaml:"matching"`
	Search     SearchConfig     `yaml:"search"`
	CORS       CORSConfig       `yaml:"cors"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CatalogConfig selects and addresses the catalog store.
type CatalogConfig struct {
	Driver           string   `yaml:"driver"` // file, redis, valkey, postgres, sqlite, badger (default: file)
	Path             string   `yaml:"path"`   // file, sqlite and badger
	InMemory         bool     `yaml:"in_memory"`
	Addrs            []string `yaml:"addrs"` // redis, valkey
	Password         string   `yaml:"password"`
	Key              string   `yaml:"key"` // redis/valkey key holding the catalog
	DSN              string   `yaml:"dsn"` // postgres
	Table            string   `yaml:"table"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	RefreshSec       int      `yaml:"refresh_interval_sec"` // 0 disables periodic refresh
}

// ReadinessTimeoutDuration returns the store readiness timeout.
func (c CatalogConfig) ReadinessTimeoutDuration() time.Duration {
	return time.Duration(c.ReadinessTimeout) * time.Second
}

// RefreshInterval returns the periodic refresh interval, zero when disabled.
func (c CatalogConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshSec) * time.Second
}

// VocabularyConfig points at an optional vocabulary override file.
type VocabularyConfig struct {
	Path string `yaml:"path"`
}

// MatchingConfig holds normalization and matching policy.
type MatchingConfig struct {
	HonedThresholdPercent int    `yaml:"honed_threshold_percent"`
	KeywordMatch          string `yaml:"keyword_match"` // token, substring
	Singularizer          string `yaml:"singularizer"`  // trailing_s, snowball
	FoldPlurals           bool   `yaml:"fold_plurals"`
	FoldUnicode           bool   `yaml:"fold_unicode"`
}

// SearchConfig holds search service limits.
type SearchConfig struct {
	MaxBatchSize int `yaml:"max_batch_size"`
	PoolSize     int `yaml:"pool_size"`
}

// CORSConfig holds browser access settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	c.Catalog.ApplyDefaults()
	if c.Matching.HonedThresholdPercent <= 0 {
		c.Matching.HonedThresholdPercent = 70
	}
	if c.Matching.KeywordMatch == "" {
		c.Matching.KeywordMatch = "token"
	}
	if c.Matching.Singularizer == "" {
		c.Matching.Singularizer = "trailing_s"
	}
	if c.Search.MaxBatchSize <= 0 {
		c.Search.MaxBatchSize = 50
	}
	if c.Search.PoolSize <= 0 {
		c.Search.PoolSize = runtime.GOMAXPROCS(0)
	}
}

// ApplyDefaults fills empty catalog fields with default values.
func (c *CatalogConfig) ApplyDefaults() {
	c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	if c.Driver == "" {
		c.Driver = DriverFile
	}
	if c.ReadinessTimeout <= 0 {
		c.ReadinessTimeout = 10
	}
	if c.Key == "" {
		c.Key = "coursesearch:catalog"
	}
	if c.Table == "" {
		c.Table = "courses"
	}
}

var tableNameRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,62}$`)

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	if c.Matching.HonedThresholdPercent > 100 {
		return fmt.Errorf("matching.honed_threshold_percent must be between 1 and 100, got %d",
			c.Matching.HonedThresholdPercent)
	}
	if _, err := c.Matching.Policy(); err != nil {
		return fmt.Errorf("matching: %w", err)
	}
	if _, err := c.Matching.NormalizerOptions(); err != nil {
		return fmt.Errorf("matching: %w", err)
	}
	if c.Catalog.RefreshSec < 0 {
		return fmt.Errorf("catalog.refresh_interval_sec must not be negative")
	}
	return nil
}

// Validate checks the driver-specific catalog settings.
func (c CatalogConfig) Validate() error {
	switch c.Driver {
	case DriverFile, DriverSQLite:
		if c.Path == "" {
			return fmt.Errorf("catalog.path is required for driver %q", c.Driver)
		}
	case DriverBadger:
		if c.Path == "" && !c.InMemory {
			return fmt.Errorf("catalog.path is required for driver %q unless in_memory is set", c.Driver)
		}
	case DriverRedis, DriverValkey:
		if len(c.Addrs) == 0 {
			return fmt.Errorf("catalog.addrs is required for driver %q", c.Driver)
		}
	case DriverPostgres:
		if c.DSN == "" {
			return fmt.Errorf("catalog.dsn is required for driver %q", c.Driver)
		}
	default:
		return fmt.Errorf("catalog.driver %q is not supported", c.Driver)
	}
	if !tableNameRegex.MatchString(c.Table) {
		return fmt.Errorf("catalog.table %q is not a valid identifier", c.Table)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
