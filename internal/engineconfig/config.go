package engineconfig

import (
	"time"

	"github.com/spf13/viper"

	"github.com/devfeat/devfeat/internal/model"
)

// EngineConfig is the engine's ambient, layered runtime configuration.
type EngineConfig struct {
	DefaultFetchTimeout time.Duration     `mapstructure:"default_fetch_timeout"`
	GitHubAPIBaseURL    string            `mapstructure:"github_api_base_url"`
	CacheDir            string            `mapstructure:"cache_dir"`
	PreferredBackend    model.BackendMode `mapstructure:"preferred_backend"`
}

// Defaults returns the built-in EngineConfig values, before any file,
// environment, or flag overrides are applied.
func Defaults() EngineConfig {
	return EngineConfig{
		DefaultFetchTimeout: 60 * time.Second,
		GitHubAPIBaseURL:    "https://api.github.com",
		CacheDir:            "",
		PreferredBackend:    model.BackendAdvanced,
	}
}

// Load resolves an EngineConfig from, in increasing precedence: built-in
// defaults, an optional devfeat.yaml in the working directory or
// configDir, DEVFEAT_-prefixed environment variables, and finally the
// already-parsed CLI flag overrides the caller passes in flagOverrides
// (nil entries are ignored).
func Load(configDir string, flagOverrides map[string]interface{}) (EngineConfig, error) {
	v := viper.New()

	defaults := Defaults()
	v.SetDefault("default_fetch_timeout", defaults.DefaultFetchTimeout)
	v.SetDefault("github_api_base_url", defaults.GitHubAPIBaseURL)
	v.SetDefault("cache_dir", defaults.CacheDir)
	v.SetDefault("preferred_backend", string(defaults.PreferredBackend))

	v.SetConfigName("devfeat")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return EngineConfig{}, err
		}
	}

	v.SetEnvPrefix("DEVFEAT")
	v.AutomaticEnv()

	for key, val := range flagOverrides {
		if val != nil {
			v.Set(key, val)
		}
	}

	var cfg EngineConfig
	backendStr := v.GetString("preferred_backend")
	backend, err := model.ParseBackendMode(backendStr)
	if err != nil {
		return EngineConfig{}, err
	}

	cfg.DefaultFetchTimeout = v.GetDuration("default_fetch_timeout")
	cfg.GitHubAPIBaseURL = v.GetString("github_api_base_url")
	cfg.CacheDir = v.GetString("cache_dir")
	cfg.PreferredBackend = backend

	return cfg, nil
}
