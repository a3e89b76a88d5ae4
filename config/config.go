// Package config holds the settings of the dashboard: feeds, refresh intervals and HTTP limits.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/etnz/dogefolio/binance"
	"github.com/etnz/dogefolio/news"
	"gopkg.in/yaml.v3"
)

// News modes.
const (
	ModeRSS2JSON = "rss2json" // the RSS feed translated to JSON by rss2json
	ModeRSS      = "rss"      // the RSS feed parsed directly
)

// DefaultRosterURL is the public roster document.
const DefaultRosterURL = "https://raw.githubusercontent.com/arunk1234/financial-calculators/master/price.json"

// Config is the dashboard configuration.
type Config struct {
	Pair   string       `yaml:"pair"`  // trading pair, e.g. DOGEUSDT
	Asset  string       `yaml:"asset"` // symbol of the held asset, e.g. DOGE
	Price  PriceConfig  `yaml:"price"`
	News   NewsConfig   `yaml:"news"`
	Roster RosterConfig `yaml:"roster"`
	HTTP   HTTPConfig   `yaml:"http"`
	Server ServerConfig `yaml:"server"`
	Agent  AgentConfig  `yaml:"agent"`
}

type PriceConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Interval time.Duration `yaml:"interval"`
}

type NewsConfig struct {
	Mode        string        `yaml:"mode"`
	RSS2JSONURL string        `yaml:"rss2json_url"`
	FeedURL     string        `yaml:"feed_url"`
	RedditURL   string        `yaml:"reddit_url"`
	Community   string        `yaml:"community"`
	Limit       int           `yaml:"limit"`
	Interval    time.Duration `yaml:"interval"`
}

type RosterConfig struct {
	// URL of the roster document. Empty keeps the built-in portfolios.
	URL      string        `yaml:"url"`
	Interval time.Duration `yaml:"interval"`
}

type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	// Rate is the maximum number of requests per second, 0 is unlimited.
	Rate  float64 `yaml:"rate"`
	Burst int     `yaml:"burst"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type AgentConfig struct {
	Model string `yaml:"model"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Pair:  "DOGEUSDT",
		Asset: "DOGE",
		Price: PriceConfig{
			BaseURL:  binance.DefaultBaseURL,
			Interval: 5 * time.Second,
		},
		News: NewsConfig{
			Mode:        ModeRSS2JSON,
			RSS2JSONURL: news.DefaultRSS2JSONURL,
			FeedURL:     news.DefaultRSSURL,
			RedditURL:   news.DefaultRedditURL,
			Community:   news.DefaultCommunity,
			Limit:       news.DefaultPageSize,
			Interval:    5 * time.Minute,
		},
		Roster: RosterConfig{
			URL:      DefaultRosterURL,
			Interval: 30 * time.Second,
		},
		HTTP: HTTPConfig{
			Timeout: 4 * time.Second,
			Rate:    4,
			Burst:   4,
		},
		Server: ServerConfig{Addr: ":8080"},
		Agent:  AgentConfig{Model: "gemini-2.5-flash"},
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML document over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid: %w", err)
	}
	return cfg, nil
}

// Validate reports every inconsistency of c.
func (c Config) Validate() error {
	var errs []error
	if c.Pair == "" {
		errs = append(errs, errors.New("pair is required"))
	}
	if c.Asset == "" {
		errs = append(errs, errors.New("asset is required"))
	}
	if c.Price.Interval <= 0 {
		errs = append(errs, fmt.Errorf("price.interval must be positive, got %v", c.Price.Interval))
	}
	if c.News.Interval <= 0 {
		errs = append(errs, fmt.Errorf("news.interval must be positive, got %v", c.News.Interval))
	}
	if c.Roster.Interval <= 0 {
		errs = append(errs, fmt.Errorf("roster.interval must be positive, got %v", c.Roster.Interval))
	}
	switch c.News.Mode {
	case ModeRSS2JSON, ModeRSS:
	default:
		errs = append(errs, fmt.Errorf("news.mode must be %q or %q, got %q", ModeRSS2JSON, ModeRSS, c.News.Mode))
	}
	if c.News.Limit <= 0 {
		errs = append(errs, fmt.Errorf("news.limit must be positive, got %d", c.News.Limit))
	}
	// a price fetch outliving its interval is always superseded by the next one.
	if c.HTTP.Timeout <= 0 || c.HTTP.Timeout >= c.Price.Interval {
		errs = append(errs, fmt.Errorf("http.timeout must be positive and shorter than price.interval (%v), got %v", c.Price.Interval, c.HTTP.Timeout))
	}
	if c.HTTP.Rate < 0 {
		errs = append(errs, fmt.Errorf("http.rate must not be negative, got %v", c.HTTP.Rate))
	}
	return errors.Join(errs...)
}
