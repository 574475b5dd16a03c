package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/username/booking-form/internal/calendar"
	"github.com/username/booking-form/internal/form"
	"github.com/username/booking-form/internal/holidays"
	"github.com/username/booking-form/pkg/dateutil"
)

// Config represents application configuration
type Config struct {
	Holidays HolidaysConfig `mapstructure:"holidays"`
	Form     FormConfig     `mapstructure:"form"`
	State    StateConfig    `mapstructure:"state"`
	Log      LogConfig      `mapstructure:"log"`
}

// HolidaysConfig represents the holiday source configuration
type HolidaysConfig struct {
	APIURL     string `mapstructure:"api_url"`
	APIKey     string `mapstructure:"api_key"`
	APIKeyCmd  string `mapstructure:"api_key_cmd"` // Command printing the key, e.g. "pass show ninjas"
	KeyRefresh string `mapstructure:"key_refresh"`
	Country    string `mapstructure:"country"`
	Year       int    `mapstructure:"year"` // 0 lets the API pick
	Timeout    string `mapstructure:"timeout"`
	CacheTTL   string `mapstructure:"cache_ttl"`

	Cache CacheConfig `mapstructure:"cache"`

	FallbackFile    string `mapstructure:"fallback_file"`
	BuiltinFallback bool   `mapstructure:"builtin_fallback"`
}

// CacheConfig represents holiday record caching
type CacheConfig struct {
	Type      string `mapstructure:"type"` // "memory", "redis" or "none"
	RedisAddr string `mapstructure:"redis_addr"`
	RedisDB   int    `mapstructure:"redis_db"`
	Prefix    string `mapstructure:"prefix"`
}

// FormConfig represents the application form
type FormConfig struct {
	SubmitURL   string   `mapstructure:"submit_url"`
	Timeout     string   `mapstructure:"timeout"`
	Slots       []string `mapstructure:"slots"`
	AgeMin      int      `mapstructure:"age_min"`
	AgeMax      int      `mapstructure:"age_max"`
	NameMin     int      `mapstructure:"name_min"`
	NameMax     int      `mapstructure:"name_max"`
	MaxFileSize int64    `mapstructure:"max_file_size"`
	Accept      []string `mapstructure:"accept"`
}

// StateConfig represents session storage configuration
type StateConfig struct {
	File string `mapstructure:"file"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Load loads configuration from file, defaults and BOOKING_FORM_* environment variables.
// Without an explicit path a missing config file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.booking-form")
		v.AddConfigPath("/etc/booking-form")
	}

	// BOOKING_FORM_HOLIDAYS_API_KEY -> holidays.api_key
	v.SetEnvPrefix("BOOKING_FORM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	rules := form.DefaultRules()

	// Keys without a real default are registered so AutomaticEnv can fill them
	v.SetDefault("holidays.api_key", "")
	v.SetDefault("holidays.api_key_cmd", "")
	v.SetDefault("holidays.year", 0)
	v.SetDefault("holidays.fallback_file", "")
	v.SetDefault("form.submit_url", "")
	v.SetDefault("log.file", "")

	v.SetDefault("holidays.api_url", holidays.DefaultAPIURL)
	v.SetDefault("holidays.key_refresh", "1h")
	v.SetDefault("holidays.country", holidays.DefaultCountry)
	v.SetDefault("holidays.timeout", "10s")
	v.SetDefault("holidays.cache_ttl", "24h")
	v.SetDefault("holidays.cache.type", "memory")
	v.SetDefault("holidays.cache.redis_addr", "localhost:6379")
	v.SetDefault("holidays.cache.prefix", "booking-form")
	v.SetDefault("holidays.builtin_fallback", true)

	v.SetDefault("form.timeout", "30s")
	v.SetDefault("form.slots", calendar.DefaultSlots)
	v.SetDefault("form.age_min", rules.AgeMin)
	v.SetDefault("form.age_max", rules.AgeMax)
	v.SetDefault("form.name_min", rules.NameMin)
	v.SetDefault("form.name_max", rules.NameMax)
	v.SetDefault("form.max_file_size", rules.MaxFileSize)
	v.SetDefault("form.accept", rules.Accept)

	v.SetDefault("state.file", defaultStateFile())
	v.SetDefault("log.level", "")
}

func defaultStateFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "booking-form-state.json"
	}
	return filepath.Join(home, ".booking-form", "state.json")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(strings.TrimSpace(c.Holidays.Country)) != 2 {
		return fmt.Errorf("holidays.country must be a two-letter ISO code, got '%s'", c.Holidays.Country)
	}
	if c.Holidays.Year < 0 {
		return fmt.Errorf("holidays.year must not be negative")
	}

	switch c.Holidays.Cache.Type {
	case "", "memory", "none":
	case "redis":
		if c.Holidays.Cache.RedisAddr == "" {
			return fmt.Errorf("holidays.cache.redis_addr is required for redis cache")
		}
	default:
		return fmt.Errorf("holidays.cache.type must be 'memory', 'redis' or 'none', got '%s'", c.Holidays.Cache.Type)
	}

	if len(c.Form.Slots) == 0 {
		return fmt.Errorf("form.slots must not be empty")
	}
	for _, slot := range c.Form.Slots {
		if _, _, err := dateutil.ParseClock(slot); err != nil {
			return fmt.Errorf("form.slots: %w", err)
		}
	}
	if c.Form.AgeMin > c.Form.AgeMax {
		return fmt.Errorf("form.age_min must not exceed form.age_max")
	}
	if c.Form.NameMax > 0 && c.Form.NameMin > c.Form.NameMax {
		return fmt.Errorf("form.name_min must not exceed form.name_max")
	}
	if c.Form.MaxFileSize < 0 {
		return fmt.Errorf("form.max_file_size must not be negative")
	}

	if c.State.File == "" {
		return fmt.Errorf("state.file is required")
	}

	return nil
}

// GetTimeout returns the holiday API request timeout
func (c *HolidaysConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 10*time.Second)
}

// GetCacheTTL returns cache TTL duration
func (c *HolidaysConfig) GetCacheTTL() time.Duration {
	return parseDuration(c.CacheTTL, 24*time.Hour)
}

// GetKeyRefresh returns how long a command-provided API key is reused
func (c *HolidaysConfig) GetKeyRefresh() time.Duration {
	return parseDuration(c.KeyRefresh, 1*time.Hour)
}

// GetTimeout returns the submission request timeout
func (c *FormConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 30*time.Second)
}

// Rules returns the validation rules described by the form section
func (c *FormConfig) Rules() form.Rules {
	return form.Rules{
		NameMin:     c.NameMin,
		NameMax:     c.NameMax,
		AgeMin:      c.AgeMin,
		AgeMax:      c.AgeMax,
		MaxFileSize: c.MaxFileSize,
		Accept:      c.Accept,
		Slots:       c.Slots,
	}
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.Holidays.APIKey = os.ExpandEnv(c.Holidays.APIKey)
	c.Holidays.APIKeyCmd = os.ExpandEnv(c.Holidays.APIKeyCmd)
	c.Holidays.FallbackFile = os.ExpandEnv(c.Holidays.FallbackFile)
	c.Form.SubmitURL = os.ExpandEnv(c.Form.SubmitURL)
	c.State.File = os.ExpandEnv(c.State.File)
	c.Log.File = os.ExpandEnv(c.Log.File)
}
