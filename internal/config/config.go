package config

import (
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Pexels   PexelsConfig   `mapstructure:"pexels"`
	Unsplash UnsplashConfig `mapstructure:"unsplash"`
	Pixabay  PixabayConfig  `mapstructure:"pixabay"`
	Search   SearchConfig   `mapstructure:"search"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig controls how the MCP server is exposed. An empty
// HTTPAddr means stdio only.
type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type PexelsConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type UnsplashConfig struct {
	AccessKey string `mapstructure:"access_key"`
	BaseURL   string `mapstructure:"base_url"`
}

type PixabayConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// SearchConfig tunes the aggregated search. ProviderTimeout is per
// provider call, in seconds; a provider exceeding it is reported as
// timed out without affecting the others.
type SearchConfig struct {
	ProviderTimeout  int  `mapstructure:"provider_timeout"`
	AttributionLinks bool `mapstructure:"attribution_links"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional config file, a .env file,
// and the environment. Missing provider credentials are not an error
// here: the affected provider reports MissingCredential per request
// instead of blocking startup.
func Load(cfgFile string) *Config {
	// Load .env file if exists (ignore error if not found)
	godotenv.Load()
	godotenv.Load(".env.local")

	v := viper.New()

	setDefaults(v)

	// STOCKY_ prefix for server knobs, e.g. STOCKY_SEARCH_PROVIDER_TIMEOUT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("STOCKY")
	v.AutomaticEnv()

	// Credential and feature-flag names are fixed, no prefix
	v.BindEnv("pexels.api_key", "PEXELS_API_KEY")
	v.BindEnv("unsplash.access_key", "UNSPLASH_ACCESS_KEY")
	v.BindEnv("pixabay.api_key", "PIXABAY_API_KEY")
	v.BindEnv("search.attribution_links", "ENABLE_ATTRIBUTION_LINKS")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is ok, use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic("Error reading config file: " + err.Error())
		}
	}

	// Env values arrive as strings; decode them into bool/int fields
	var cfg Config
	weak := func(dc *mapstructure.DecoderConfig) { dc.WeaklyTypedInput = true }
	if err := v.Unmarshal(&cfg, weak); err != nil {
		panic("Error unmarshaling config: " + err.Error())
	}

	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_addr", "")

	v.SetDefault("pexels.base_url", "https://api.pexels.com/v1")
	v.SetDefault("unsplash.base_url", "https://api.unsplash.com")
	v.SetDefault("pixabay.base_url", "https://pixabay.com/api")

	v.SetDefault("search.provider_timeout", 10)
	v.SetDefault("search.attribution_links", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}
