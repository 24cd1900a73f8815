package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	apierrors "github.com/mhdinshadk/Chat-Bot/internal/errors"
	"github.com/mhdinshadk/Chat-Bot/internal/models"
)

// Env holds the process environment read once at startup
type Env struct {
	APIKey        string `env:"GEMINI_API_KEY"`
	LegacyAPIKey  string `env:"VITE_API_GENERATIVE_LANGUAGE_CLIENT"`
	OpenAIKey     string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	Model         string `env:"CHATBOT_MODEL"`
	BaseURL       string `env:"CHATBOT_BASE_URL"`
	LogLevel      string `env:"CHATBOT_LOG_LEVEL"`
}

// GeminiKey returns the Gemini API key, accepting the web client's variable name too
func (e Env) GeminiKey() string {
	if e.APIKey != "" {
		return e.APIKey
	}
	return e.LegacyAPIKey
}

// DotEnvFiles returns the .env candidates in load order. Earlier files win
// because godotenv never overrides variables that are already set.
func DotEnvFiles() []string {
	files := []string{".env"}
	if dir, err := GetConfigDir(); err == nil {
		files = append(files, filepath.Join(dir, ".env"))
	}
	return files
}

// LoadEnv loads .env files that exist and reads the environment
func LoadEnv(files ...string) (Env, error) {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Env{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var env Env
	if err := cleanenv.ReadEnv(&env); err != nil {
		return Env{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return env, nil
}

// Apply overlays environment overrides on a file config
func (e Env) Apply(cfg Config) Config {
	if e.Model != "" {
		cfg.Model = e.Model
	}
	if e.BaseURL != "" {
		cfg.BaseURL = e.BaseURL
	}
	if e.LogLevel != "" {
		cfg.Log.Level = e.LogLevel
	}
	return cfg
}

// RequireKey returns the key for the configured provider or ErrNoAPIKey
func (e Env) RequireKey(provider models.Provider) (string, error) {
	var key string
	switch provider {
	case models.ProviderOpenAI:
		key = e.OpenAIKey
	case models.ProviderMock:
		return "", nil
	default:
		key = e.GeminiKey()
	}
	if key == "" {
		return "", fmt.Errorf("%w for provider %s", apierrors.ErrNoAPIKey, provider)
	}
	return key, nil
}
