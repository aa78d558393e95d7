package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kitbuilder587/gemini-sdk/internal/llm"
)

const DefaultEnvFile = ".env"

const (
	EnvAPIKey         = "GEMINI_API_KEY"
	EnvModel          = "GEMINI_MODEL"
	EnvBaseURL        = "GEMINI_BASE_URL"
	EnvConnectTimeout = "GEMINI_CONNECT_TIMEOUT_SEC"
	EnvTimeout        = "GEMINI_TIMEOUT_SEC"
	EnvLogLevel       = "LOG_LEVEL"
	EnvMetricsAddr    = "METRICS_ADDR"
)

type Config struct {
	Gemini  GeminiConfig
	Log     LogConfig
	Metrics MetricsConfig
}

type GeminiConfig struct {
	APIKey         string
	Model          string
	BaseURL        string
	ConnectTimeout time.Duration
	Timeout        time.Duration
}

type LogConfig struct {
	Level string
}

type MetricsConfig struct {
	Addr string
}

// source looks a key up in the .env overlay first, then in the process
// environment.
type source map[string]string

func (s source) get(key string) string {
	if v := strings.TrimSpace(s[key]); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv(key))
}

func (s source) getOrDefault(key, defaultValue string) string {
	if value := s.get(key); value != "" {
		return value
	}
	return defaultValue
}

func (s source) getIntOrDefault(key string, defaultValue int) int {
	if value := s.get(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil && intVal > 0 {
			return intVal
		}
	}
	return defaultValue
}

func readEnvFile(path string) (source, error) {
	if path == "" {
		return source{}, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return source{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

// Load resolves the full CLI configuration. envFile may be empty or point to
// a missing file.
func Load(envFile string) (*Config, error) {
	src, err := readEnvFile(envFile)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Gemini: loadGemini(src),
		Log: LogConfig{
			Level: src.getOrDefault(EnvLogLevel, "info"),
		},
		Metrics: MetricsConfig{
			Addr: src.get(EnvMetricsAddr),
		},
	}

	if err := cfg.Gemini.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadGemini resolves only the API settings.
func LoadGemini(envFile string) (*GeminiConfig, error) {
	src, err := readEnvFile(envFile)
	if err != nil {
		return nil, err
	}

	cfg := loadGemini(src)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadGemini(src source) GeminiConfig {
	return GeminiConfig{
		APIKey:         src.get(EnvAPIKey),
		Model:          src.get(EnvModel),
		BaseURL:        src.getOrDefault(EnvBaseURL, "https://generativelanguage.googleapis.com/v1beta/models"),
		ConnectTimeout: time.Duration(src.getIntOrDefault(EnvConnectTimeout, 10)) * time.Second,
		Timeout:        time.Duration(src.getIntOrDefault(EnvTimeout, 30)) * time.Second,
	}
}

func (c *GeminiConfig) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return llm.ErrMissingAPIKey
	}
	if strings.TrimSpace(c.Model) == "" {
		return llm.ErrMissingModel
	}
	return nil
}
