package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "vc_firms_details.csv", cfg.Output)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 60*time.Second, cfg.InitialWait)
	assert.Equal(t, 10*time.Second, cfg.PageDelay)
	assert.Equal(t, "https://vc-mapping.gilion.com", cfg.BaseURL)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crawl.yaml")
	content := "output: out.csv\nmax-retries: 2\ninitial-wait: 5s\npage-delay: 0s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "out.csv", cfg.Output)
	assert.Equal(t, 2, cfg.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.InitialWait)
	assert.Equal(t, time.Duration(0), cfg.PageDelay)
}

func TestLoadOverridesTakePrecedence(t *testing.T) {
	v := viper.New()
	v.Set(KeyOutput, "explicit.csv")

	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, "explicit.csv", cfg.Output)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"empty output", func(c *Config) { c.Output = "" }, "出力ファイルのパスが空です"},
		{"zero attempts", func(c *Config) { c.MaxAttempts = 0 }, "max-retries"},
		{"negative wait", func(c *Config) { c.InitialWait = -time.Second }, "initial-wait"},
		{"negative delay", func(c *Config) { c.PageDelay = -time.Second }, "page-delay"},
		{"bad scheme", func(c *Config) { c.BaseURL = "ftp://example.com" }, "base-url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDerivedConfigs(t *testing.T) {
	cfg := Default()
	cfg.MaxAttempts = 3
	cfg.InitialWait = 2 * time.Second
	cfg.BaseURL = "http://localhost:9000"

	rc := cfg.RetryConfig()
	assert.Equal(t, uint64(3), rc.MaxAttempts)
	assert.Equal(t, 2*time.Second, rc.InitialInterval)
	assert.Equal(t, 2.0, rc.Multiplier)

	site := cfg.Site()
	assert.Equal(t, "http://localhost:9000/explore", site.ExploreURL())
}
