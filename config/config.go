// Package config loads finsight settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	ai "github.com/spetersoncode/finsight"
	"github.com/spetersoncode/finsight/client"
	"github.com/spetersoncode/finsight/retry"
)

// DefaultSecret is the shared relay secret used when none is configured.
// It is only suitable for local development.
const DefaultSecret = "demo-key-insecure"

// Config holds settings loaded from environment variables.
type Config struct {
	// Provider selection
	Provider             string `validate:"oneof=ollama openai anthropic google"`
	Model                string
	OllamaBaseURL        string `validate:"required,url"`
	OllamaModel          string `validate:"required"`
	OllamaEmbeddingModel string `validate:"required"`

	// API Keys
	OpenAIKey    string `validate:"required_if=Provider openai"`
	AnthropicKey string `validate:"required_if=Provider anthropic"`
	GoogleKey    string `validate:"required_if=Provider google"`

	// Ingestion
	MaxUploadSizeMB int `validate:"gt=0"`
	ChunkSize       int `validate:"gt=0"`
	ChunkOverlap    int `validate:"gte=0,ltfield=ChunkSize"`

	// Storage
	VectorStorePath string `validate:"required"`
	UploadDir       string `validate:"required"`
	ProcessedDir    string `validate:"required"`
	LogsDir         string `validate:"required"`

	// Keyword service and relay
	WordsPort      int    `validate:"gt=0,lt=65536"`
	ProxyWordsPort int    `validate:"gt=0,lt=65536,nefield=WordsPort"`
	Secret         string `validate:"required"`

	// Server
	HTTPAddr    string `validate:"required"`
	StepTimeout time.Duration
	MaxRetries  int    `validate:"gte=1"`
	LogLevel    string `validate:"oneof=debug info warn error"`
	LogFormat   string `validate:"oneof=text json"`

	// CrewsFile overrides the embedded crew prompts.
	CrewsFile string
}

// Load reads the configuration. A .env file in the working directory is
// loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Provider:             strings.ToLower(getEnvOrDefault("FINSIGHT_PROVIDER", string(ai.ProviderOllama))),
		Model:                os.Getenv("FINSIGHT_MODEL"),
		OllamaBaseURL:        getEnvOrDefault("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:          getEnvOrDefault("OLLAMA_MODEL", "gemma2:2b"),
		OllamaEmbeddingModel: getEnvOrDefault("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		OpenAIKey:            os.Getenv("OPENAI_API_KEY"),
		AnthropicKey:         os.Getenv("ANTHROPIC_API_KEY"),
		GoogleKey:            os.Getenv("GOOGLE_API_KEY"),
		MaxUploadSizeMB:      getEnvIntOrDefault("MAX_UPLOAD_SIZE_MB", 50),
		ChunkSize:            getEnvIntOrDefault("CHUNK_SIZE", 1000),
		ChunkOverlap:         getEnvIntOrDefault("CHUNK_OVERLAP", 200),
		VectorStorePath:      getEnvOrDefault("VECTOR_STORE_PATH", "./data/vector_store"),
		UploadDir:            getEnvOrDefault("UPLOAD_DIR", "./data/uploads"),
		ProcessedDir:         getEnvOrDefault("PROCESSED_DIR", "./data/processed"),
		LogsDir:              getEnvOrDefault("LOGS_DIR", "./logs"),
		WordsPort:            getEnvIntOrDefault("MCP_WORDS_PORT", 5001),
		ProxyWordsPort:       getEnvIntOrDefault("MCP_PROXY_WORDS_PORT", 5101),
		Secret:               getEnvOrDefault("JWT_SECRET_KEY", getEnvOrDefault("MCP_API_KEY", DefaultSecret)),
		HTTPAddr:             getEnvOrDefault("HTTP_ADDR", ":8000"),
		StepTimeout:          getEnvDurationOrDefault("STEP_TIMEOUT", 0),
		MaxRetries:           getEnvIntOrDefault("MAX_RETRIES", retry.DefaultConfig().MaxAttempts),
		LogLevel:             strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		LogFormat:            strings.ToLower(getEnvOrDefault("LOG_FORMAT", "text")),
		CrewsFile:            os.Getenv("CREWS_FILE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and reports every violation.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
}

// ChatModel returns the model used for chat requests, or "" for the
// provider default.
func (c *Config) ChatModel() string {
	if c.Model != "" {
		return c.Model
	}
	if c.Provider == string(ai.ProviderOllama) {
		return c.OllamaModel
	}
	return ""
}

// ClientConfig returns the model client configuration.
func (c *Config) ClientConfig(logger *slog.Logger) client.Config {
	rc := retry.DefaultConfig().WithAttempts(c.MaxRetries)
	rc.OnRetry = func(attempt int, err error, delay time.Duration) {
		logger.Warn("retrying provider call", "attempt", attempt, "delay", delay, "error", err)
	}
	cfg := client.Config{
		Provider: ai.Provider(c.Provider),
		APIKeys: client.APIKeys{
			OpenAI:    c.OpenAIKey,
			Anthropic: c.AnthropicKey,
			Google:    c.GoogleKey,
		},
		OllamaBaseURL: c.OllamaBaseURL,
		ChatModel:     c.ChatModel(),
		Retry:         &rc,
		Logger:        logger,
	}
	if c.Provider == string(ai.ProviderOllama) || c.Provider == string(ai.ProviderAnthropic) {
		cfg.EmbeddingModel = c.OllamaEmbeddingModel
	}
	return cfg
}

// WordsURL is the keyword MCP server endpoint.
func (c *Config) WordsURL() string {
	return fmt.Sprintf("http://localhost:%d/mcp", c.WordsPort)
}

// ProxyURL is the relay endpoint that forwards to the keyword server.
func (c *Config) ProxyURL() string {
	return fmt.Sprintf("http://localhost:%d/mcp", c.ProxyWordsPort)
}

// EnsureDirs creates the data and log directories.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.UploadDir, c.ProcessedDir, c.LogsDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// NewLogger builds the process logger from LogLevel and LogFormat.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(c.LogLevel)}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
