package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const (
	BackendHuggingFace = "huggingface"
	BackendOpenAI      = "openai"
	BackendAzure       = "azure"

	VariantFixed    = "fixed"
	VariantAdaptive = "adaptive"

	AssemblyJoinAll   = "join-all"
	AssemblyFirstOnly = "first-only"
)

type Config struct {
	Server   ServerConfig
	LLM      LLMConfig
	Analysis AnalysisConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port           string        `envconfig:"SERVER_PORT" default:"8000"`
	Host           string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	ReadTimeout    time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout   time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"120s"`
	RequestTimeout time.Duration `envconfig:"SERVER_REQUEST_TIMEOUT" default:"90s"`
}

type LLMConfig struct {
	Backend           string        `envconfig:"LLM_BACKEND" default:"huggingface"`
	APIKey            string        `envconfig:"LLM_API_KEY"`
	Endpoint          string        `envconfig:"LLM_ENDPOINT"`
	Model             string        `envconfig:"LLM_MODEL" default:"gpt2-large"`
	APIVersion        string        `envconfig:"LLM_API_VERSION" default:"2023-05-15"`
	Timeout           time.Duration `envconfig:"LLM_TIMEOUT" default:"60s"`
	MaxConcurrency    int           `envconfig:"LLM_MAX_CONCURRENCY" default:"1"`
	RequestsPerMinute int           `envconfig:"LLM_REQUESTS_PER_MINUTE" default:"0"`
}

type AnalysisConfig struct {
	Variant       string `envconfig:"ANALYSIS_VARIANT" default:"adaptive"`
	Assembly      string `envconfig:"ANALYSIS_ASSEMBLY" default:"join-all"`
	DefaultCause  string `envconfig:"ANALYSIS_DEFAULT_CAUSE" default:"The cause of the issue was not clearly identified."`
	DefaultEffect string `envconfig:"ANALYSIS_DEFAULT_EFFECT" default:"The effect of the issue was not clearly identified."`
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

// LoadConfig reads defaults and environment variables only.
func LoadConfig() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}
	slog.Debug("configuration loaded from environment")
	return &cfg, nil
}

// Load reads the environment like LoadConfig and then applies every key that
// is set in v (config file, IMPACT_* env vars or bound flags).
func Load(v *viper.Viper) (*Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if v != nil {
		cfg.overlay(v)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	slog.Info("configuration loaded successfully",
		"backend", cfg.LLM.Backend,
		"model", cfg.LLM.Model,
		"variant", cfg.Analysis.Variant,
		"assembly", cfg.Analysis.Assembly,
	)
	return cfg, nil
}

func (c *Config) overlay(v *viper.Viper) {
	setString := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v.IsSet(key) {
			*dst = v.GetDuration(key)
		}
	}
	setInt := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}

	setString("server.host", &c.Server.Host)
	setString("server.port", &c.Server.Port)
	setDuration("server.read_timeout", &c.Server.ReadTimeout)
	setDuration("server.write_timeout", &c.Server.WriteTimeout)
	setDuration("server.request_timeout", &c.Server.RequestTimeout)

	setString("llm.backend", &c.LLM.Backend)
	setString("llm.api_key", &c.LLM.APIKey)
	setString("llm.endpoint", &c.LLM.Endpoint)
	setString("llm.model", &c.LLM.Model)
	setString("llm.api_version", &c.LLM.APIVersion)
	setDuration("llm.timeout", &c.LLM.Timeout)
	setInt("llm.max_concurrency", &c.LLM.MaxConcurrency)
	setInt("llm.requests_per_minute", &c.LLM.RequestsPerMinute)

	setString("analysis.variant", &c.Analysis.Variant)
	setString("analysis.assembly", &c.Analysis.Assembly)
	setString("analysis.default_cause", &c.Analysis.DefaultCause)
	setString("analysis.default_effect", &c.Analysis.DefaultEffect)

	setString("log.level", &c.Log.Level)
	setString("log.format", &c.Log.Format)
}

func (c *Config) Validate() error {
	switch c.LLM.Backend {
	case BackendHuggingFace, BackendOpenAI, BackendAzure:
	default:
		return fmt.Errorf("unknown llm backend %q", c.LLM.Backend)
	}
	if c.LLM.MaxConcurrency < 1 {
		return fmt.Errorf("llm max concurrency must be at least 1, got %d", c.LLM.MaxConcurrency)
	}
	if c.LLM.RequestsPerMinute < 0 {
		return fmt.Errorf("llm requests per minute cannot be negative, got %d", c.LLM.RequestsPerMinute)
	}
	if err := ValidateVariant(c.Analysis.Variant); err != nil {
		return err
	}
	if err := ValidateAssembly(c.Analysis.Assembly); err != nil {
		return err
	}
	if c.Analysis.DefaultCause == "" || c.Analysis.DefaultEffect == "" {
		return fmt.Errorf("default cause and effect sentences cannot be empty")
	}
	return nil
}

func ValidateVariant(variant string) error {
	switch variant {
	case VariantFixed, VariantAdaptive:
		return nil
	}
	return fmt.Errorf("unknown analysis variant %q (want %s or %s)", variant, VariantFixed, VariantAdaptive)
}

func ValidateAssembly(assembly string) error {
	switch assembly {
	case AssemblyJoinAll, AssemblyFirstOnly:
		return nil
	}
	return fmt.Errorf("unknown assembly policy %q (want %s or %s)", assembly, AssemblyJoinAll, AssemblyFirstOnly)
}
