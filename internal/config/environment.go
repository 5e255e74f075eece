// internal/config/environment.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort          = 8080
	DefaultPageSize      = 5
	DefaultMaxPages      = 20
	DefaultPrebuildPosts = 2
	DefaultRevalidate    = time.Hour
	DefaultAPITimeout    = 10 * time.Second
	DefaultDateField     = "first_publication_date"
	DefaultSiteTitle     = "spacetraveling"
)

// Duration wraps time.Duration for YAML values like "1h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

type Config struct {
	Port           int      `yaml:"port"`
	ProductionMode bool     `yaml:"production"`
	SiteTitle      string   `yaml:"site_title"`
	SiteURL        string   `yaml:"site_url"`
	APIEndpoint    string   `yaml:"api_endpoint"`
	AccessToken    string   `yaml:"access_token"`
	APITimeout     Duration `yaml:"api_timeout"`
	PageSize       int      `yaml:"page_size"`
	MaxPages       int      `yaml:"max_pages"`
	DateField      string   `yaml:"date_field"`
	Revalidate     Duration `yaml:"revalidate"`
	PrebuildPosts  int      `yaml:"prebuild_posts"`
	WebhookSecret  string   `yaml:"webhook_secret"`
	LoadMoreRPS    float64  `yaml:"load_more_rps"`
	Demo           bool     `yaml:"demo"`
}

func defaults() Config {
	return Config{
		Port:          DefaultPort,
		SiteTitle:     DefaultSiteTitle,
		APITimeout:    Duration{DefaultAPITimeout},
		PageSize:      DefaultPageSize,
		MaxPages:      DefaultMaxPages,
		DateField:     DefaultDateField,
		Revalidate:    Duration{DefaultRevalidate},
		PrebuildPosts: DefaultPrebuildPosts,
		LoadMoreRPS:   5,
	}
}

// GetConfig returns defaults overridden by environment variables.
func GetConfig() Config {
	config := defaults()
	config.applyEnv()
	return config
}

// Load reads defaults, then the YAML file at path (when non-empty), then
// environment variables.
func Load(path string) (Config, error) {
	config := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	config.applyEnv()
	return config, nil
}

func (c *Config) applyEnv() {
	if port := os.Getenv("SPACETRAVELING_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Port = p
		}
	}
	if v := os.Getenv("SPACETRAVELING_API_ENDPOINT"); v != "" {
		c.APIEndpoint = v
	}
	if v := os.Getenv("SPACETRAVELING_ACCESS_TOKEN"); v != "" {
		c.AccessToken = v
	}
	if v := os.Getenv("SPACETRAVELING_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.PageSize = n
		}
	}
	if v := os.Getenv("SPACETRAVELING_DATE_FIELD"); v != "" {
		c.DateField = v
	}
	if v := os.Getenv("SPACETRAVELING_WEBHOOK_SECRET"); v != "" {
		c.WebhookSecret = v
	}
	if v := os.Getenv("SPACETRAVELING_SITE_URL"); v != "" {
		c.SiteURL = v
	}
	if v := os.Getenv("SPACETRAVELING_PROD"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.ProductionMode = b
		}
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("page_size must be between 1 and 100, got %d", c.PageSize)
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("max_pages must be positive, got %d", c.MaxPages)
	}
	if c.DateField != "first_publication_date" && c.DateField != "last_publication_date" {
		return fmt.Errorf("date_field must be first_publication_date or last_publication_date, got %q", c.DateField)
	}
	if c.PrebuildPosts < 0 {
		return errors.New("prebuild_posts must not be negative")
	}
	if c.Demo {
		return nil
	}
	if c.APIEndpoint == "" {
		return errors.New("api_endpoint is required (or run with --demo)")
	}
	if u, err := url.Parse(c.APIEndpoint); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api_endpoint %q is not an http(s) URL", c.APIEndpoint)
	}
	return nil
}

func (c Config) GetAddress() string {
	return fmt.Sprintf(":%d", c.Port)
}
