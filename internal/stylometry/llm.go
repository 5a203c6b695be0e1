// Package stylometry runs the LLM-backed analyses that turn repository
// snapshots into a developer profile. It defines a provider-agnostic LLM
// interface with OpenAI and Gemini implementations plus deterministic mocks
// for testing, and the statistical temporal analysis that needs no LLM.
package stylometry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	ErrLLMFailed       = errors.New("LLM request failed")
	ErrInvalidConfig   = errors.New("invalid LLM configuration")
	ErrInvalidResponse = errors.New("LLM returned malformed JSON")
	ErrUnknownProvider = errors.New("unknown LLM provider")
)

// LLM defines the interface for interacting with language models.
// Implementations must be stateless and thread-safe.
type LLM interface {
	// Generate produces text from a prompt using the configured model.
	// Returns the generated text or an error if generation fails.
	Generate(ctx context.Context, prompt string) (string, error)
}

// LLMConfig holds common configuration options for LLM providers.
type LLMConfig struct {
	// Provider selects the backend: "gemini" or "openai"
	Provider string

	// Model specifies the model identifier (e.g., "gemini-2.5-flash", "gpt-4o")
	Model string

	// Temperature controls randomness (0.0 = deterministic, 2.0 = very random)
	Temperature float32

	// MaxTokens limits the response length (0 = use provider default)
	MaxTokens int

	// APIKey is the authentication key for the provider
	APIKey string
}

// DefaultLLMConfig returns sensible defaults for stylometric analysis.
// The provider comes from STYLO_LLM_PROVIDER, defaulting to Gemini.
func DefaultLLMConfig() LLMConfig {
	provider := strings.ToLower(os.Getenv("STYLO_LLM_PROVIDER"))
	if provider == "" {
		provider = "gemini"
	}

	cfg := LLMConfig{
		Provider:    provider,
		Temperature: 0, // model default
		MaxTokens:   8192,
	}

	switch provider {
	case "openai":
		cfg.Model = "gpt-4o"
	default:
		cfg.Model = "gemini-2.5-flash"
	}

	return cfg
}

// NewLLM constructs the provider named in the config.
func NewLLM(config LLMConfig) (LLM, error) {
	switch config.Provider {
	case "gemini", "":
		return NewGeminiLLM(config)
	case "openai":
		return NewOpenAILLM(config)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, config.Provider)
	}
}
