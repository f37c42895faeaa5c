package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr string `yaml:"listen_addr"`

	OracleProvider    string `yaml:"oracle_provider"` // gemini or anthropic
	OracleModel       string `yaml:"oracle_model"`
	GeminiAPIKey      string `yaml:"gemini_api_key"`
	AnthropicAPIKey   string `yaml:"anthropic_api_key"`
	OracleTimeoutSecs int    `yaml:"oracle_timeout_seconds"`

	PlagiarismThreshold float64 `yaml:"plagiarism_threshold"`
	GroupThreshold      float64 `yaml:"group_similarity_threshold"`
	Permutations        int     `yaml:"permutations"`
	GroupMode           string  `yaml:"group_mode"` // seed or transitive

	CacheBackend string `yaml:"cache_backend"` // memory or sqlite
	CachePath    string `yaml:"cache_path"`

	Workers  int `yaml:"workers"`
	MaxScore int `yaml:"max_score"`

	AssignmentTopic      string `yaml:"assignment_topic"`
	AssignmentDifficulty string `yaml:"assignment_difficulty"`
}

// Load reads config.yaml (or CONFIG_PATH) when present, applies env
// overrides, then fills defaults. A missing file is fine; a malformed one
// is not.
func Load() (Config, error) {
	var cfg Config

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", configPath, err)
		}
	}

	envOverride(&cfg.ListenAddr, "LISTEN_ADDR")
	envOverride(&cfg.OracleProvider, "ORACLE_PROVIDER")
	envOverride(&cfg.OracleModel, "ORACLE_MODEL")
	envOverride(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverrideInt(&cfg.OracleTimeoutSecs, "ORACLE_TIMEOUT_SECONDS")
	envOverrideFloat(&cfg.PlagiarismThreshold, "PLAGIARISM_THRESHOLD")
	envOverrideFloat(&cfg.GroupThreshold, "GROUP_SIMILARITY_THRESHOLD")
	envOverrideInt(&cfg.Permutations, "PERMUTATIONS")
	envOverride(&cfg.GroupMode, "GROUP_MODE")
	envOverride(&cfg.CacheBackend, "CACHE_BACKEND")
	envOverride(&cfg.CachePath, "CACHE_PATH")
	envOverrideInt(&cfg.Workers, "WORKERS")
	envOverrideInt(&cfg.MaxScore, "MAX_SCORE")
	envOverride(&cfg.AssignmentTopic, "ASSIGNMENT_TOPIC")
	envOverride(&cfg.AssignmentDifficulty, "ASSIGNMENT_DIFFICULTY")

	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.OracleProvider == "" {
		cfg.OracleProvider = "gemini"
	}
	if cfg.OracleTimeoutSecs <= 0 {
		cfg.OracleTimeoutSecs = 60
	}
	if cfg.PlagiarismThreshold <= 0 {
		cfg.PlagiarismThreshold = 30
	}
	if cfg.GroupThreshold <= 0 {
		cfg.GroupThreshold = 0.8
	}
	if cfg.Permutations <= 0 {
		cfg.Permutations = 128
	}
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = "memory"
	}
	if cfg.CachePath == "" {
		cfg.CachePath = "grades.db"
	}
	if cfg.MaxScore <= 0 {
		cfg.MaxScore = 100
	}
	if cfg.AssignmentDifficulty == "" {
		cfg.AssignmentDifficulty = "hard"
	}
}

func envOverride(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func envOverrideInt(target *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}

func envOverrideFloat(target *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*target = f
		}
	}
}
