package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DataConfig locates the restaurant listings and the feature dictionary.
type DataConfig struct {
	Restaurants  []string `yaml:"restaurants"`
	Features     string   `yaml:"features"`
	Sessions     []string `yaml:"sessions,omitempty"`
	PreserveCase bool     `yaml:"preserve_case"`
}

// EngineConfig selects the similarity storage and query behavior.
type EngineConfig struct {
	Strategy    string `yaml:"strategy"`
	DenseLimit  int    `yaml:"dense_limit"`
	Workers     int    `yaml:"workers"`
	IncludeSelf bool   `yaml:"include_self"`
	TopK        int    `yaml:"top_k"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// SummarizerConfig configures the corpus summary line.
type SummarizerConfig struct {
	MaxTerms int `yaml:"max_terms"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Data       DataConfig       `yaml:"data"`
	Engine     EngineConfig     `yaml:"engine"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/recs/config.yaml.
// If neither exists, it writes defaults to ~/.config/recs/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnvOverrides(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "recs", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Data: DataConfig{
			Restaurants: []string{"data/*.txt"},
			Features:    "data/features.txt",
		},
		Engine:     EngineConfig{Strategy: "auto", DenseLimit: 2000, TopK: 10},
		Logging:    LoggingConfig{Level: "info", Format: "console"},
		Summarizer: SummarizerConfig{MaxTerms: 5},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Data.Features == "" {
		cfg.Data.Features = "data/features.txt"
	}
	if cfg.Engine.Strategy == "" {
		cfg.Engine.Strategy = "auto"
	}
	if cfg.Engine.DenseLimit == 0 {
		cfg.Engine.DenseLimit = 2000
	}
	if cfg.Engine.TopK == 0 {
		cfg.Engine.TopK = 10
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Summarizer.MaxTerms == 0 {
		cfg.Summarizer.MaxTerms = 5
	}
}

// applyEnvOverrides lets RECS_* variables (typically from a .env file)
// override file values.
func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("RECS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("RECS_STRATEGY"); v != "" {
		cfg.Engine.Strategy = v
	}
	if v := os.Getenv("RECS_FEATURES"); v != "" {
		cfg.Data.Features = v
	}
	if v := os.Getenv("RECS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Engine.Workers = n
		}
	}
}
