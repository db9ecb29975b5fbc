package config

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/blackwell-systems/shelfboard/internal/projection"
)

// Config is the top-level shelfboard configuration.
type Config struct {
	Remote RemoteConfig `mapstructure:"remote" yaml:"remote"`
	View   ViewConfig   `mapstructure:"view" yaml:"view"`
	Cache  CacheConfig  `mapstructure:"cache" yaml:"cache"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Serve  ServeConfig  `mapstructure:"serve" yaml:"serve"`
}

// RemoteConfig holds bookshelf store connection settings.
type RemoteConfig struct {
	BaseURL   string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	SearchRPS float64       `mapstructure:"search_rps" yaml:"search_rps"` // 0 disables throttling
}

// ViewConfig holds the default projection parameters.
type ViewConfig struct {
	Sort   string `mapstructure:"sort" yaml:"sort"`
	Order  string `mapstructure:"order" yaml:"order"`
	Group  string `mapstructure:"group" yaml:"group"`
	Locale string `mapstructure:"locale" yaml:"locale"`
}

// CacheConfig holds offline snapshot settings.
type CacheConfig struct {
	Dir      string `mapstructure:"dir" yaml:"dir"`
	Disabled bool   `mapstructure:"disabled" yaml:"disabled,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info, warn, error
}

// ServeConfig holds settings for the built-in in-memory store.
type ServeConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// Params converts the view defaults into projection parameters.
func (v ViewConfig) Params() (projection.Params, error) {
	sort, err := projection.ParseSortField(v.Sort)
	if err != nil {
		return projection.Params{}, fmt.Errorf("view.sort: %w", err)
	}
	order, err := projection.ParseSortOrder(v.Order)
	if err != nil {
		return projection.Params{}, fmt.Errorf("view.order: %w", err)
	}
	group, err := projection.ParseGroupMode(v.Group)
	if err != nil {
		return projection.Params{}, fmt.Errorf("view.group: %w", err)
	}
	return projection.Params{Sort: sort, Order: order, Group: group, Locale: v.Locale}.Normalize(), nil
}

// SlogLevel parses the configured level. Empty means info.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	return ParseLevel(l.Level)
}

// ParseLevel accepts debug, info, warn/warning and error.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Addr returns host:port for the listener.
func (s ServeConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// BaseURL returns the API root a client should use to reach this server.
func (s ServeConfig) BaseURL() string {
	host := s.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(s.Port)) + "/api"
}
