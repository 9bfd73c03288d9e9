package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Oracle providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Ranking modes.
const (
	RankingEmbedding = "embedding"
	RankingLiteral   = "literal"
)

// Config holds the recommender API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Oracle     OracleConfig     `yaml:"oracle"`
	Ranking    RankingConfig    `yaml:"ranking"`
	Cache      CacheConfig      `yaml:"cache"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CatalogConfig points at the scraped catalog file.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// OracleConfig holds relevance oracle settings.
type OracleConfig struct {
	Provider   string `yaml:"provider"` // gemini (default), openai
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"` // openai only
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// RankingConfig holds rank stage settings.
type RankingConfig struct {
	Mode                string `yaml:"mode"` // embedding (default), literal
	EmbeddingAPIKey     string `yaml:"embedding_api_key"`
	EmbeddingBaseURL    string `yaml:"embedding_base_url"`
	EmbeddingModel      string `yaml:"embedding_model"`
	EmbeddingDimensions int    `yaml:"embedding_dimensions"`
	MaxResults          int    `yaml:"max_results"`
	// BudgetSec bounds the whole rank stage; past it the request falls back
	// to filtered order. Must stay below http.write_timeout_sec.
	BudgetSec int `yaml:"budget_sec"`
}

// CacheConfig holds the optional Redis signal cache settings.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EvaluationConfig points at the labeled query set served by /metrics.
type EvaluationConfig struct {
	DatasetPath string `yaml:"dataset_path"`  // empty = zero metrics
	CacheTTLSec int    `yaml:"cache_ttl_sec"` // negative = recompute on every request
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
	// a ranked request makes up to 11 sequential oracle calls
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = "data/shl_catalog.json"
	}
	if c.Oracle.Provider == "" {
		c.Oracle.Provider = ProviderGemini
	}
	if c.Oracle.APIKey == "" && c.Oracle.Provider == ProviderGemini {
		c.Oracle.APIKey = os.Getenv("GOOGLE_API_KEY")
	}
	if c.Oracle.Model == "" {
		switch c.Oracle.Provider {
		case ProviderGemini:
			c.Oracle.Model = "gemini-pro"
		case ProviderOpenAI:
			c.Oracle.Model = "gpt-4o-mini"
		}
	}
	if c.Oracle.TimeoutSec <= 0 {
		c.Oracle.TimeoutSec = 30
	}
	if c.Ranking.Mode == "" {
		c.Ranking.Mode = RankingEmbedding
	}
	if c.Ranking.EmbeddingModel == "" {
		c.Ranking.EmbeddingModel = "text-embedding-3-small"
	}
	if c.Ranking.MaxResults <= 0 {
		c.Ranking.MaxResults = 10
	}
	if c.Ranking.BudgetSec <= 0 {
		c.Ranking.BudgetSec = max(1, c.HTTP.WriteTimeoutSec*3/4)
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 86400
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Evaluation.CacheTTLSec == 0 {
		c.Evaluation.CacheTTLSec = 3600
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Oracle.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("oracle.provider must be %q or %q, got %q",
			ProviderGemini, ProviderOpenAI, c.Oracle.Provider)
	}
	if c.Oracle.APIKey == "" {
		return fmt.Errorf("oracle.api_key is required")
	}
	switch c.Ranking.Mode {
	case RankingEmbedding:
		if c.Ranking.EmbeddingAPIKey == "" {
			return fmt.Errorf("ranking.embedding_api_key is required for mode %q", RankingEmbedding)
		}
	case RankingLiteral:
	default:
		return fmt.Errorf("ranking.mode must be %q or %q, got %q",
			RankingEmbedding, RankingLiteral, c.Ranking.Mode)
	}
	if c.Ranking.MaxResults > 10 {
		return fmt.Errorf("ranking.max_results must be at most 10, got %d", c.Ranking.MaxResults)
	}
	if c.Ranking.BudgetSec >= c.HTTP.WriteTimeoutSec {
		return fmt.Errorf("ranking.budget_sec (%d) must be below http.write_timeout_sec (%d)",
			c.Ranking.BudgetSec, c.HTTP.WriteTimeoutSec)
	}
	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache is enabled")
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
