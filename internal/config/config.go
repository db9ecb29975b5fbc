package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/shelfboard/internal/util"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvConfig names the variable that overrides the config file path.
const EnvConfig = "SHELFBOARD_CONFIG"

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "shelfboard", "config.yml")
}

// ResolvePath picks the config file: explicit path, then $SHELFBOARD_CONFIG,
// then the default.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return util.ExpandHome(explicit)
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return util.ExpandHome(p)
	}
	return DefaultPath()
}

// Load reads the config from disk and SHELFBOARD_* env vars. A missing file
// is not an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SHELFBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(ResolvePath(path))
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Cache.Dir = util.ExpandHome(cfg.Cache.Dir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("remote.base_url", "http://127.0.0.1:8080/api")
	v.SetDefault("remote.timeout", "10s")
	v.SetDefault("remote.search_rps", 2.0)
	v.SetDefault("view.sort", "title")
	v.SetDefault("view.order", "")
	v.SetDefault("view.group", "shelf")
	v.SetDefault("view.locale", "en")
	v.SetDefault("cache.dir", defaultCacheDir())
	v.SetDefault("cache.disabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("serve.host", "127.0.0.1")
	v.SetDefault("serve.port", 8080)
}

func defaultCacheDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "shelfboard")
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	if _, err := c.View.Params(); err != nil {
		return err
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Remote.Timeout < 0 {
		return fmt.Errorf("remote.timeout: must not be negative")
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return fmt.Errorf("serve.port: %d out of range", c.Serve.Port)
	}
	return nil
}

// Save writes the config to path, or to the resolved default when empty.
func Save(cfg *Config, path string) error {
	path = ResolvePath(path)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return util.WriteFileAtomic(path, buf.Bytes())
}
