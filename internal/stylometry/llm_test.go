package stylometry

import (
	"context"
	"errors"
	"os"
	"testing"
)

func TestDefaultLLMConfig(t *testing.T) {
	t.Setenv("STYLO_LLM_PROVIDER", "")
	cfg := DefaultLLMConfig()
	if cfg.Provider != "gemini" || cfg.Model != "gemini-2.5-flash" {
		t.Errorf("Unexpected default config: %+v", cfg)
	}

	t.Setenv("STYLO_LLM_PROVIDER", "openai")
	cfg = DefaultLLMConfig()
	if cfg.Provider != "openai" || cfg.Model != "gpt-4o" {
		t.Errorf("Unexpected openai config: %+v", cfg)
	}
}

func TestNewLLM_UnknownProvider(t *testing.T) {
	_, err := NewLLM(LLMConfig{Provider: "carrier-pigeon"})
	if !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("Expected ErrUnknownProvider, got %v", err)
	}
}

func TestNewOpenAILLM_MissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := NewOpenAILLM(LLMConfig{Model: "gpt-4o"})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestNewOpenAILLM_MissingModel(t *testing.T) {
	_, err := NewOpenAILLM(LLMConfig{APIKey: "test-key"})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestNewGeminiLLM_MissingKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := NewGeminiLLM(LLMConfig{Model: "gemini-2.5-flash"})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

// TestGeminiGenerate exercises the live Gemini API when a key is available.
func TestGeminiGenerate(t *testing.T) {
	if os.Getenv("GEMINI_API_KEY") == "" {
		t.Skip("Skipping integration test: GEMINI_API_KEY not set")
	}

	llm, err := NewGeminiLLM(DefaultLLMConfig())
	if err != nil {
		t.Fatalf("Failed to create Gemini LLM: %v", err)
	}

	text, err := llm.Generate(context.Background(), "Reply with the single word: pong")
	if err != nil {
		t.Fatalf("Failed to generate: %v", err)
	}
	if text == "" {
		t.Error("Expected non-empty response")
	}
}

// TestOpenAIGenerate exercises the live OpenAI API when a key is available.
func TestOpenAIGenerate(t *testing.T) {
	if os.Getenv("OPENAI_API_KEY") == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	cfg := LLMConfig{Provider: "openai", Model: "gpt-4o", MaxTokens: 16}
	llm, err := NewOpenAILLM(cfg)
	if err != nil {
		t.Fatalf("Failed to create OpenAI LLM: %v", err)
	}

	text, err := llm.Generate(context.Background(), "Reply with the single word: pong")
	if err != nil {
		t.Fatalf("Failed to generate: %v", err)
	}
	if text == "" {
		t.Error("Expected non-empty response")
	}
}
