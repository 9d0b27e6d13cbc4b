package config

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"resmatch/internal/bootstrap/logging"
	"resmatch/internal/errs"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Match    MatchConfig    `mapstructure:"match"`
	Events   EventsConfig   `mapstructure:"events"`
	HTTP     HTTPConfig     `mapstructure:"http"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// LLMConfig drives the model-backed scorer. Enabled is resolved from the
// provider preset, not read from the file: an unusable configuration
// downgrades the service to fallback-only scoring instead of crashing.
type LLMConfig struct {
	Provider   string `mapstructure:"provider"`
	BaseURL    string `mapstructure:"base_url"`
	Model      string `mapstructure:"model"`
	APIKey     string `mapstructure:"api_key"`
	TimeoutMS  int    `mapstructure:"timeout_ms"`
	MaxRetries int    `mapstructure:"max_retries"`

	Enabled bool `mapstructure:"-"`
}

func (c LLMConfig) Timeout() time.Duration {
	if c.TimeoutMS <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

type CacheConfig struct {
	TTL         time.Duration `mapstructure:"ttl"`
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl"`
}

type MatchConfig struct {
	DefaultLimit     int     `mapstructure:"default_limit"`
	SkillWeight      float64 `mapstructure:"skill_weight"`
	InterestWeight   float64 `mapstructure:"interest_weight"`
	ExperienceWeight float64 `mapstructure:"experience_weight"`
}

type EventsConfig struct {
	NATSURL        string `mapstructure:"nats_url"`
	StudentSubject string `mapstructure:"student_subject"`
	ProjectSubject string `mapstructure:"project_subject"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			// Keep default and env-backed config when no file is provided.
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if cfg.Database.DSN == "" {
		return Config{}, errors.New("database.dsn is required")
	}

	cfg.LLM = ResolveProvider(logCtx, cfg.LLM)

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("llm_provider", cfg.LLM.Provider),
		slog.Bool("llm_enabled", cfg.LLM.Enabled),
	)

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "resmatch")
	v.SetDefault("app.env", "local")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", ".state/resmatch.sqlite")

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.timeout_ms", 15000)
	v.SetDefault("llm.max_retries", 2)

	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.snapshot_ttl", "24h")

	v.SetDefault("match.default_limit", 10)
	v.SetDefault("match.skill_weight", 0.5)
	v.SetDefault("match.interest_weight", 0.3)
	v.SetDefault("match.experience_weight", 0.2)

	v.SetDefault("events.student_subject", "entity.student.updated")
	v.SetDefault("events.project_subject", "entity.project.updated")

	v.SetDefault("http.addr", ":8086")
}
