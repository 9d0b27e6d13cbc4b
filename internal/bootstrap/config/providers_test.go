package config

import (
	"context"
	"testing"
)

func TestResolveProviderPresetDefaults(t *testing.T) {
	ctx := context.Background()

	cfg := ResolveProvider(ctx, LLMConfig{Provider: "OpenAI", APIKey: "sk-test"})
	if !cfg.Enabled {
		t.Fatal("openai preset with key should be enabled")
	}
	if cfg.BaseURL != "https://api.openai.com/v1" {
		t.Fatalf("BaseURL = %s", cfg.BaseURL)
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Fatalf("Model = %s", cfg.Model)
	}
	if cfg.Provider != "openai" {
		t.Fatalf("Provider = %s, want lowercased", cfg.Provider)
	}
}

func TestResolveProviderExplicitValuesWin(t *testing.T) {
	cfg := ResolveProvider(context.Background(), LLMConfig{
		Provider: "deepseek",
		BaseURL:  "https://proxy.internal/v1",
		Model:    "deepseek-reasoner",
		APIKey:   "sk-test",
	})
	if cfg.BaseURL != "https://proxy.internal/v1" || cfg.Model != "deepseek-reasoner" {
		t.Fatalf("preset overrode explicit values: %+v", cfg)
	}
	if !cfg.Enabled {
		t.Fatal("explicitly configured provider should be enabled")
	}
}

func TestResolveProviderOllamaNeedsNoKey(t *testing.T) {
	cfg := ResolveProvider(context.Background(), LLMConfig{Provider: "ollama"})
	if !cfg.Enabled {
		t.Fatal("ollama without key should still be enabled")
	}
	if cfg.BaseURL != "http://localhost:11434/v1" {
		t.Fatalf("BaseURL = %s", cfg.BaseURL)
	}
}

func TestResolveProviderUnknownWithoutBaseURLDisables(t *testing.T) {
	cfg := ResolveProvider(context.Background(), LLMConfig{Provider: "mystery"})
	if cfg.Enabled {
		t.Fatal("unknown provider without base_url must disable model scoring")
	}
}

func TestResolveProviderUnknownWithBaseURL(t *testing.T) {
	cfg := ResolveProvider(context.Background(), LLMConfig{
		Provider: "selfhosted",
		BaseURL:  "http://10.0.0.5:8000/v1",
		Model:    "qwen2.5",
	})
	if !cfg.Enabled {
		t.Fatal("unknown provider with explicit base_url and model should be enabled")
	}
}

func TestResolveProviderUnknownWithBaseURLNoModelDisables(t *testing.T) {
	cfg := ResolveProvider(context.Background(), LLMConfig{
		Provider: "selfhosted",
		BaseURL:  "http://10.0.0.5:8000/v1",
	})
	if cfg.Enabled {
		t.Fatal("no model configured must disable model scoring")
	}
}
