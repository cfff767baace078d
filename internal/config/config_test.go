package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 90*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, BackendHuggingFace, cfg.LLM.Backend)
	assert.Equal(t, "gpt2-large", cfg.LLM.Model)
	assert.Equal(t, 1, cfg.LLM.MaxConcurrency)
	assert.Equal(t, VariantAdaptive, cfg.Analysis.Variant)
	assert.Equal(t, AssemblyJoinAll, cfg.Analysis.Assembly)
	assert.Equal(t, "The cause of the issue was not clearly identified.", cfg.Analysis.DefaultCause)
	assert.Equal(t, "The effect of the issue was not clearly identified.", cfg.Analysis.DefaultEffect)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("LLM_BACKEND", "openai")
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("LLM_MAX_CONCURRENCY", "4")
	t.Setenv("ANALYSIS_VARIANT", "fixed")
	t.Setenv("SERVER_REQUEST_TIMEOUT", "5s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, BackendOpenAI, cfg.LLM.Backend)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, 4, cfg.LLM.MaxConcurrency)
	assert.Equal(t, VariantFixed, cfg.Analysis.Variant)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
}

func TestLoadOverlaysViper(t *testing.T) {
	t.Setenv("LLM_MODEL", "from-env")

	v := viper.New()
	v.Set("server.port", "9090")
	v.Set("llm.model", "gpt-4o-mini")
	v.Set("llm.backend", "azure")
	v.Set("llm.requests_per_minute", 30)
	v.Set("llm.timeout", "10s")
	v.Set("analysis.assembly", "first-only")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, BackendAzure, cfg.LLM.Backend)
	assert.Equal(t, 30, cfg.LLM.RequestsPerMinute)
	assert.Equal(t, 10*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, AssemblyFirstOnly, cfg.Analysis.Assembly)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoadNilViper(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, BackendHuggingFace, cfg.LLM.Backend)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown backend", func(c *Config) { c.LLM.Backend = "llama" }, `unknown llm backend "llama"`},
		{"zero concurrency", func(c *Config) { c.LLM.MaxConcurrency = 0 }, "max concurrency must be at least 1"},
		{"negative rpm", func(c *Config) { c.LLM.RequestsPerMinute = -1 }, "cannot be negative"},
		{"unknown variant", func(c *Config) { c.Analysis.Variant = "creative" }, `unknown analysis variant "creative"`},
		{"unknown assembly", func(c *Config) { c.Analysis.Assembly = "all" }, `unknown assembly policy "all"`},
		{"empty default", func(c *Config) { c.Analysis.DefaultEffect = "" }, "cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig()
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
