package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Site is one WordPress installation the server can talk to.
type Site struct {
	BaseURL     string `mapstructure:"base_url"`
	Username    string `mapstructure:"username"`
	AppPassword string `mapstructure:"app_password"`
}

// Config is the process configuration: one default site plus optional named
// profiles for installations the operator switches between.
type Config struct {
	Site     string          `mapstructure:"site"`
	Sites    map[string]Site `mapstructure:"sites"`
	HTTPAddr string          `mapstructure:"http_addr"`

	// flat fields for the single-site case, fed by env vars or flags
	BaseURL     string `mapstructure:"base_url"`
	Username    string `mapstructure:"username"`
	AppPassword string `mapstructure:"app_password"`
}

// Load reads configuration from an optional config file plus WP_* env vars
// (WP_BASE_URL, WP_USERNAME, WP_APP_PASSWORD, WP_SITE). An explicit path
// wins over the default search locations.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.config/elementor-mcp")
	v.AddConfigPath(".")
	if path != "" {
		v.SetConfigFile(path)
	}
	v.SetEnvPrefix("wp")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// no config file is fine, env vars may carry everything
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// AutomaticEnv does not flow into Unmarshal for unset keys
	if cfg.BaseURL == "" {
		cfg.BaseURL = v.GetString("base_url")
	}
	if cfg.Username == "" {
		cfg.Username = v.GetString("username")
	}
	if cfg.AppPassword == "" {
		cfg.AppPassword = v.GetString("app_password")
	}
	if cfg.Site == "" {
		cfg.Site = v.GetString("site")
	}
	return &cfg, nil
}

// ActiveSite resolves the site the server should talk to: the named profile
// when one is selected, the flat single-site fields otherwise.
func (c *Config) ActiveSite() (Site, error) {
	if c.Site != "" {
		site, ok := c.Sites[c.Site]
		if !ok {
			return Site{}, fmt.Errorf("site %q is not configured", c.Site)
		}
		return site, nil
	}
	site := Site{BaseURL: c.BaseURL, Username: c.Username, AppPassword: c.AppPassword}
	if site.BaseURL == "" {
		return Site{}, fmt.Errorf("no site configured: set WP_BASE_URL or a sites entry")
	}
	return site, nil
}
