package config

import (
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	DefaultBaseURL       = "https://api.covalenthq.com/v1"
	DefaultChainID       = "8217"
	DefaultQuoteCurrency = "USD"
	DefaultApiKeyEnv     = "COVALENT_API_KEY"

	envPrefix = "SIFTER"
)

// Config is the client identity for one chain binding plus the settings of the
// transport the CLI builds around it.
type Config struct {
	BaseURL       string `yaml:"baseUrl"`
	ChainID       string `yaml:"chainId"`
	ApiKey        string `yaml:"apiKey"`
	ApiKeyEnv     string `yaml:"apiKeyEnv"`
	QuoteCurrency string `yaml:"quoteCurrency"`

	Chains            []string      `yaml:"chains"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
	LogLevel          string        `yaml:"logLevel"`
}

// Default returns the configuration used when no file or environment overrides
// are present.
func Default() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		ChainID:           DefaultChainID,
		ApiKeyEnv:         DefaultApiKeyEnv,
		QuoteCurrency:     DefaultQuoteCurrency,
		Timeout:           30 * time.Second,
		RequestsPerSecond: 5,
		LogLevel:          "info",
	}
}

// Load reads the optional yaml file at path into v, applies SIFTER_* environment
// overrides and decodes the result on top of Default().
func Load(v *viper.Viper, path string) (*Config, error) {
	def := Default()
	v.SetDefault("baseUrl", def.BaseURL)
	v.SetDefault("chainId", def.ChainID)
	v.SetDefault("apiKeyEnv", def.ApiKeyEnv)
	v.SetDefault("quoteCurrency", def.QuoteCurrency)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("requestsPerSecond", def.RequestsPerSecond)
	v.SetDefault("logLevel", def.LogLevel)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{"baseUrl", "chainId", "apiKey", "apiKeyEnv", "quoteCurrency", "timeout", "requestsPerSecond", "logLevel"} {
		if err := v.BindEnv(key, envPrefix+"_"+strings.ToUpper(key)); err != nil {
			return nil, errors.Wrapf(err, "error binding env for %s", key)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "error using config file %v", path)
		}
	}

	cfg := def
	if err := v.Unmarshal(&cfg, func(c *mapstructure.DecoderConfig) {
		c.TagName = "yaml"
	}); err != nil {
		return nil, errors.Wrap(err, "error unmarshalling config")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &cfg, nil
}
