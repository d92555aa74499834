package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"neurospace/backend/internal/vision"
)

// Config holds process configuration. Values come from defaults, then an
// optional YAML file named by CONFIG_FILE, then environment variables.
type Config struct {
	Server struct {
		Port           string        `yaml:"port"`
		AllowedOrigins []string      `yaml:"allowedOrigins"`
		MaxUploadBytes int64         `yaml:"maxUploadBytes"`
		ShutdownGrace  time.Duration `yaml:"shutdownGrace"`
	} `yaml:"server"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Image struct {
		MaxBytes     int `yaml:"maxBytes"`
		MaxDimension int `yaml:"maxDimension"`
	} `yaml:"image"`

	Vision struct {
		Provider    string        `yaml:"provider"`
		Timeout     time.Duration `yaml:"timeout"`
		Temperature float64       `yaml:"temperature"`
		MaxTokens   int           `yaml:"maxTokens"`
		OpenAI      struct {
			APIKey  string `yaml:"apiKey"`
			Model   string `yaml:"model"`
			BaseURL string `yaml:"baseURL"`
		} `yaml:"openai"`
		Gemini struct {
			APIKey string `yaml:"apiKey"`
			Model  string `yaml:"model"`
		} `yaml:"gemini"`
	} `yaml:"vision"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	cfg := &Config{}
	cfg.Server.Port = "5000"
	cfg.Server.MaxUploadBytes = 50 << 20
	cfg.Server.ShutdownGrace = 15 * time.Second
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Image.MaxBytes = 4 << 20
	cfg.Image.MaxDimension = 1920
	cfg.Vision.Provider = vision.ProviderOpenAI
	cfg.Vision.Timeout = 60 * time.Second
	cfg.Vision.Temperature = 0.6
	cfg.Vision.MaxTokens = 3500
	return cfg
}

// Load reads .env, the optional YAML file and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("load .env")
	}

	cfg := Defaults()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.AllowedOrigins = getStringSliceEnv("CORS_ALLOWED_ORIGINS", cfg.Server.AllowedOrigins)
	cfg.Server.MaxUploadBytes = int64(getIntEnv("MAX_UPLOAD_BYTES", int(cfg.Server.MaxUploadBytes)))
	cfg.Server.ShutdownGrace = getDurationEnv("SHUTDOWN_GRACE", cfg.Server.ShutdownGrace)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
	cfg.Image.MaxBytes = getIntEnv("IMAGE_MAX_BYTES", cfg.Image.MaxBytes)
	cfg.Image.MaxDimension = getIntEnv("IMAGE_MAX_DIMENSION", cfg.Image.MaxDimension)
	cfg.Vision.Provider = strings.ToLower(getEnv("VISION_PROVIDER", cfg.Vision.Provider))
	cfg.Vision.Timeout = getDurationEnv("UPSTREAM_TIMEOUT", cfg.Vision.Timeout)
	cfg.Vision.Temperature = getFloatEnv("OPENAI_TEMPERATURE", cfg.Vision.Temperature)
	cfg.Vision.MaxTokens = getIntEnv("OPENAI_MAX_TOKENS", cfg.Vision.MaxTokens)
	cfg.Vision.OpenAI.APIKey = getEnv("OPENAI_API_KEY", cfg.Vision.OpenAI.APIKey)
	cfg.Vision.OpenAI.Model = getEnv("OPENAI_MODEL", cfg.Vision.OpenAI.Model)
	cfg.Vision.OpenAI.BaseURL = getEnv("OPENAI_BASE_URL", cfg.Vision.OpenAI.BaseURL)
	cfg.Vision.Gemini.APIKey = getEnv("GEMINI_API_KEY", cfg.Vision.Gemini.APIKey)
	cfg.Vision.Gemini.Model = getEnv("GEMINI_MODEL", cfg.Vision.Gemini.Model)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive, got %d", c.Server.MaxUploadBytes)
	}
	if c.Image.MaxBytes <= 0 {
		return fmt.Errorf("image max bytes must be positive, got %d", c.Image.MaxBytes)
	}
	if c.Image.MaxDimension <= 0 {
		return fmt.Errorf("image max dimension must be positive, got %d", c.Image.MaxDimension)
	}
	switch c.Vision.Provider {
	case vision.ProviderOpenAI, vision.ProviderGemini, vision.ProviderStub:
	default:
		return fmt.Errorf("unknown vision provider %q", c.Vision.Provider)
	}
	return nil
}

// VisionConfig selects the credentials of the configured provider.
func (c *Config) VisionConfig() vision.Config {
	out := vision.Config{
		Provider:    c.Vision.Provider,
		Temperature: c.Vision.Temperature,
		MaxTokens:   c.Vision.MaxTokens,
		Timeout:     c.Vision.Timeout,
	}
	switch c.Vision.Provider {
	case vision.ProviderGemini:
		out.APIKey = c.Vision.Gemini.APIKey
		out.Model = c.Vision.Gemini.Model
	default:
		out.APIKey = c.Vision.OpenAI.APIKey
		out.Model = c.Vision.OpenAI.Model
		out.BaseURL = c.Vision.OpenAI.BaseURL
	}
	return out
}

// ConfigureLogging applies the log level and format to the standard logrus logger.
func (c *Config) ConfigureLogging() {
	if level, err := logrus.ParseLevel(c.Log.Level); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.WithField("level", c.Log.Level).Warn("unknown log level, using info")
		logrus.SetLevel(logrus.InfoLevel)
	}
	if strings.EqualFold(c.Log.Format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
		logrus.WithField("key", key).Warn("ignoring non-integer value")
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
		logrus.WithField("key", key).Warn("ignoring non-numeric value")
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		logrus.WithField("key", key).Warn("ignoring invalid duration")
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
