package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

var ErrMissingCredential = errors.New("config: missing model API credential")

type Config struct {
	Mode Mode `yaml:"mode"`

	Port string `yaml:"port"`

	LLMBackend   string `yaml:"llm_backend"` // "gemini" or "vertex"
	APIKey       string `yaml:"api_key"`
	GCPProjectID string `yaml:"gcp_project"`
	GCPLocation  string `yaml:"gcp_location"`
	ModelName    string `yaml:"model_name"`
	UseMockLLM   bool   `yaml:"use_mock_llm"` // true = use mock even on GCP

	StorageBackend      string `yaml:"storage_backend"` // "memory", "sqlite" or "firestore"
	SQLitePath          string `yaml:"sqlite_path"`
	FirestoreCollection string `yaml:"firestore_collection"`

	HistoryKey      string        `yaml:"history_key"`
	HistoryCapacity int           `yaml:"history_capacity"`
	RetryCount      int           `yaml:"retry_count"`
	RetryDelay      time.Duration `yaml:"retry_delay"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // "json" or "text"
}

func defaults() *Config {
	return &Config{
		Mode:                ModeLocal,
		Port:                "8080",
		LLMBackend:          "gemini",
		GCPLocation:         "us-central1",
		ModelName:           "gemini-2.5-flash",
		StorageBackend:      "memory",
		SQLitePath:          ".farum/progress.db",
		FirestoreCollection: "farum_kv",
		HistoryKey:          "farum_progress_history",
		HistoryCapacity:     50,
		RetryCount:          3,
		RetryDelay:          time.Second,
		LogLevel:            "info",
		LogFormat:           "json",
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getIntEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDurationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// Load builds the config from defaults, then the optional YAML file named by
// FARUM_CONFIG_FILE, then env vars. It fails fast when no model credential
// is available and the mock LLM is not selected.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("FARUM_CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	switch getEnv("FARUM_MODE", string(c.Mode)) {
	case "gcp":
		c.Mode = ModeGCP
	default:
		c.Mode = ModeLocal
	}

	c.Port = getEnv("FARUM_PORT", getEnv("PORT", c.Port))

	c.LLMBackend = getEnv("FARUM_LLM_BACKEND", c.LLMBackend)
	c.APIKey = getEnv("FARUM_GEMINI_API_KEY", getEnv("GOOGLE_API_KEY", c.APIKey))
	c.GCPProjectID = getEnv("FARUM_GCP_PROJECT", c.GCPProjectID)
	c.GCPLocation = getEnv("FARUM_GCP_LOCATION", c.GCPLocation)
	c.ModelName = getEnv("FARUM_MODEL_NAME", c.ModelName)
	c.UseMockLLM = getBoolEnv("FARUM_USE_MOCK_LLM", c.UseMockLLM)

	c.StorageBackend = getEnv("FARUM_STORAGE_BACKEND", c.StorageBackend)
	c.SQLitePath = getEnv("FARUM_SQLITE_PATH", c.SQLitePath)
	c.FirestoreCollection = getEnv("FARUM_FIRESTORE_COLLECTION", c.FirestoreCollection)
	c.HistoryKey = getEnv("FARUM_HISTORY_KEY", c.HistoryKey)

	var err error
	if c.HistoryCapacity, err = getIntEnv("FARUM_HISTORY_CAPACITY", c.HistoryCapacity); err != nil {
		return err
	}
	if c.RetryCount, err = getIntEnv("FARUM_RETRY_COUNT", c.RetryCount); err != nil {
		return err
	}
	if c.RetryDelay, err = getDurationEnv("FARUM_RETRY_DELAY", c.RetryDelay); err != nil {
		return err
	}

	c.LogLevel = getEnv("FARUM_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("FARUM_LOG_FORMAT", c.LogFormat)
	return nil
}

// Validate checks the combination of settings.
func (c *Config) Validate() error {
	if !c.UseMockLLM {
		switch c.LLMBackend {
		case "vertex":
			if c.GCPProjectID == "" || c.GCPLocation == "" {
				return fmt.Errorf("%w: FARUM_GCP_PROJECT and FARUM_GCP_LOCATION must be set for vertex", ErrMissingCredential)
			}
		case "gemini", "":
			if c.APIKey == "" {
				return fmt.Errorf("%w: set FARUM_GEMINI_API_KEY or FARUM_USE_MOCK_LLM=1", ErrMissingCredential)
			}
		default:
			return fmt.Errorf("config: unknown llm backend %q", c.LLMBackend)
		}
	}

	switch c.StorageBackend {
	case "memory", "sqlite":
	case "firestore":
		if c.GCPProjectID == "" {
			return errors.New("config: FARUM_GCP_PROJECT is required for Firestore storage backend")
		}
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.StorageBackend)
	}

	if c.HistoryCapacity <= 0 {
		return fmt.Errorf("config: history capacity must be positive, got %d", c.HistoryCapacity)
	}
	if c.RetryCount < 0 {
		return fmt.Errorf("config: retry count must not be negative, got %d", c.RetryCount)
	}

	// Minimal validation in GCP mode
	if c.Mode == ModeGCP && c.GCPProjectID == "" {
		return errors.New("config: FARUM_GCP_PROJECT must be set in gcp mode")
	}
	return nil
}
