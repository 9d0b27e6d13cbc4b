package config

import (
	"context"
	"log/slog"
	"strings"

	"resmatch/internal/bootstrap/logging"
)

type providerPreset struct {
	BaseURL      string
	DefaultModel string
	NeedsAPIKey  bool
}

// Known provider presets supplying default endpoint and model. A provider
// outside this table needs an explicit base_url.
var providerPresets = map[string]providerPreset{
	"openai":   {BaseURL: "https://api.openai.com/v1", DefaultModel: "gpt-4o-mini", NeedsAPIKey: true},
	"deepseek": {BaseURL: "https://api.deepseek.com/v1", DefaultModel: "deepseek-chat", NeedsAPIKey: true},
	"moonshot": {BaseURL: "https://api.moonshot.cn/v1", DefaultModel: "moonshot-v1-8k", NeedsAPIKey: true},
	"ollama":   {BaseURL: "http://localhost:11434/v1", DefaultModel: "llama3.1", NeedsAPIKey: false},
}

// ResolveProvider fills endpoint defaults from the named preset and decides
// whether the model-backed path is usable at all. Misconfiguration is a
// startup warning that disables the path, never a crash: the service keeps
// answering with the deterministic fallback scorer.
func ResolveProvider(ctx context.Context, cfg LLMConfig) LLMConfig {
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	cfg.Provider = name

	preset, known := providerPresets[name]
	switch {
	case known:
		if cfg.BaseURL == "" {
			cfg.BaseURL = preset.BaseURL
		}
		if cfg.Model == "" {
			cfg.Model = preset.DefaultModel
		}
	case cfg.BaseURL == "":
		logging.Warn(ctx, "unknown llm provider without explicit base_url, model scoring disabled",
			slog.String("provider", name))
		cfg.Enabled = false
		return cfg
	}

	if cfg.Model == "" {
		logging.Warn(ctx, "llm model not configured, model scoring disabled",
			slog.String("provider", name))
		cfg.Enabled = false
		return cfg
	}

	if cfg.APIKey == "" && (!known || preset.NeedsAPIKey) {
		logging.Warn(ctx, "llm api key not configured, calls will rely on fallback scoring",
			slog.String("provider", name))
	}

	cfg.Enabled = true
	return cfg
}
