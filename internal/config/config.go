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

// Config holds the dogreid service configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Index     IndexConfig     `yaml:"index"`
	Search    SearchConfig    `yaml:"search"`
	Match     MatchConfig     `yaml:"match"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int   `yaml:"port"`
	ReadTimeoutSec  int   `yaml:"read_timeout_sec"`
	WriteTimeoutSec int   `yaml:"write_timeout_sec"`
	ShutdownSec     int   `yaml:"shutdown_timeout_sec"`
	MaxUploadMB     int64 `yaml:"max_upload_mb"`
}

// IndexConfig points at the prebuilt vector index and its metadata table.
type IndexConfig struct {
	Type         string `yaml:"type"` // flat, faiss (default: flat)
	VectorsPath  string `yaml:"vectors_path"`
	MetadataPath string `yaml:"metadata_path"`
	Dimensions   int    `yaml:"dimensions"` // 0 = take from the index file
}

// SearchConfig holds neighbor query settings.
type SearchConfig struct {
	TopK int `yaml:"top_k"`
}

// MatchConfig holds confidence thresholds.
type MatchConfig struct {
	HighScore     float64 `yaml:"high_score"`
	MediumScore   float64 `yaml:"medium_score"`
	MediumMinHits int     `yaml:"medium_min_hits"`
}

// EmbeddingConfig holds the ONNX image model settings.
type EmbeddingConfig struct {
	ModelPath      string `yaml:"model_path"`
	ORTLibraryPath string `yaml:"ort_library_path"`
	InputName      string `yaml:"input_name"`
	OutputName     string `yaml:"output_name"`
	ImageSize      int    `yaml:"image_size"`
	Dimensions     int    `yaml:"dimensions"`
}

// CacheConfig holds the Valkey embedding cache settings.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands env variables, decodes YAML, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	cfg := Defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// Defaults returns the settings whose zero value is legal, so they cannot be
// filled in after decoding: YAML only overwrites the keys a file sets, and an
// explicit 0 stays 0.
func Defaults() Config {
	return Config{
		Search: SearchConfig{TopK: 10},
		Match: MatchConfig{
			HighScore:     0.80,
			MediumScore:   0.72,
			MediumMinHits: 2,
		},
	}
}

// ApplyDefaults fills fields for which zero is never a usable setting.
// Search and match settings come from Defaults.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.MaxUploadMB <= 0 {
		c.HTTP.MaxUploadMB = 10
	}
	if c.Index.Type == "" {
		c.Index.Type = "flat"
	}
	if c.Embedding.InputName == "" {
		c.Embedding.InputName = "input"
	}
	if c.Embedding.OutputName == "" {
		c.Embedding.OutputName = "embedding"
	}
	if c.Embedding.ImageSize <= 0 {
		c.Embedding.ImageSize = 224
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 2048
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 86400
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Index.Type {
	case "flat", "faiss":
	default:
		return fmt.Errorf("index.type must be \"flat\" or \"faiss\", got %q", c.Index.Type)
	}
	if c.Index.VectorsPath == "" {
		return fmt.Errorf("index.vectors_path is required")
	}
	if c.Index.MetadataPath == "" {
		return fmt.Errorf("index.metadata_path is required")
	}
	if c.Index.Dimensions < 0 {
		return fmt.Errorf("index.dimensions must not be negative, got %d", c.Index.Dimensions)
	}
	if c.Search.TopK < 1 {
		return fmt.Errorf("search.top_k must be at least 1, got %d", c.Search.TopK)
	}
	if c.Match.MediumScore > c.Match.HighScore {
		return fmt.Errorf(
			"match.medium_score (%.2f) must not exceed match.high_score (%.2f)",
			c.Match.MediumScore, c.Match.HighScore,
		)
	}
	if c.Match.MediumMinHits < 1 {
		return fmt.Errorf("match.medium_min_hits must be at least 1, got %d", c.Match.MediumMinHits)
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
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
