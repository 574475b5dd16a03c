package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("NINJA_KEY", "expanded-key")
	path := writeConfig(t, `
holidays:
  api_key: ${NINJA_KEY}
  country: us
  year: 2026
  cache_ttl: 2h
  cache:
    type: redis
    redis_addr: redis:6379
    redis_db: 3
form:
  submit_url: https://example.com/apply
  slots: ["09:00", "10:30"]
  age_min: 18
state:
  file: /tmp/booking-state.json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Holidays.APIKey != "expanded-key" {
		t.Errorf("APIKey = %q, want expanded-key", cfg.Holidays.APIKey)
	}
	if cfg.Holidays.Country != "us" || cfg.Holidays.Year != 2026 {
		t.Errorf("Country/Year = %q/%d", cfg.Holidays.Country, cfg.Holidays.Year)
	}
	if got := cfg.Holidays.GetCacheTTL(); got != 2*time.Hour {
		t.Errorf("GetCacheTTL() = %v, want 2h", got)
	}
	if cfg.Holidays.Cache.Type != "redis" || cfg.Holidays.Cache.RedisAddr != "redis:6379" || cfg.Holidays.Cache.RedisDB != 3 {
		t.Errorf("Cache = %+v", cfg.Holidays.Cache)
	}
	if !reflect.DeepEqual(cfg.Form.Slots, []string{"09:00", "10:30"}) {
		t.Errorf("Slots = %v", cfg.Form.Slots)
	}

	rules := cfg.Form.Rules()
	if rules.AgeMin != 18 || rules.AgeMax != 100 {
		t.Errorf("age range = [%d, %d], want [18, 100]", rules.AgeMin, rules.AgeMax)
	}
	if cfg.State.File != "/tmp/booking-state.json" {
		t.Errorf("State.File = %q", cfg.State.File)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log:\n  level: debug\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Holidays.Country != "PL" {
		t.Errorf("Country = %q, want PL", cfg.Holidays.Country)
	}
	if cfg.Holidays.APIURL != "https://api.api-ninjas.com/v1/holidays" {
		t.Errorf("APIURL = %q", cfg.Holidays.APIURL)
	}
	if cfg.Holidays.Cache.Type != "memory" || !cfg.Holidays.BuiltinFallback {
		t.Errorf("cache type = %q, builtin = %v", cfg.Holidays.Cache.Type, cfg.Holidays.BuiltinFallback)
	}
	if !reflect.DeepEqual(cfg.Form.Slots, []string{"12:00", "14:00", "16:30", "18:30", "20:00"}) {
		t.Errorf("Slots = %v", cfg.Form.Slots)
	}
	if cfg.Form.AgeMin != 8 || cfg.Form.AgeMax != 100 {
		t.Errorf("age range = [%d, %d]", cfg.Form.AgeMin, cfg.Form.AgeMax)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if !strings.HasSuffix(cfg.State.File, "state.json") {
		t.Errorf("State.File = %q", cfg.State.File)
	}
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("BOOKING_FORM_HOLIDAYS_API_KEY", "from-env")
	t.Setenv("BOOKING_FORM_FORM_SUBMIT_URL", "https://env.example.com")

	cfg, err := Load(writeConfig(t, "holidays:\n  api_key: from-file\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Holidays.APIKey != "from-env" {
		t.Errorf("APIKey = %q, want from-env", cfg.Holidays.APIKey)
	}
	if cfg.Form.SubmitURL != "https://env.example.com" {
		t.Errorf("SubmitURL = %q", cfg.Form.SubmitURL)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() of missing explicit file succeeded")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Holidays: HolidaysConfig{Country: "PL", Cache: CacheConfig{Type: "memory"}},
			Form:     FormConfig{Slots: []string{"12:00"}, AgeMin: 8, AgeMax: 100},
			State:    StateConfig{File: "state.json"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"long country", func(c *Config) { c.Holidays.Country = "POL" }, "holidays.country"},
		{"negative year", func(c *Config) { c.Holidays.Year = -1 }, "holidays.year"},
		{"unknown cache", func(c *Config) { c.Holidays.Cache.Type = "memcached" }, "holidays.cache.type"},
		{"redis without addr", func(c *Config) { c.Holidays.Cache.Type = "redis" }, "redis_addr"},
		{"no slots", func(c *Config) { c.Form.Slots = nil }, "form.slots"},
		{"bad slot", func(c *Config) { c.Form.Slots = []string{"noon"} }, "form.slots"},
		{"age range", func(c *Config) { c.Form.AgeMin = 50; c.Form.AgeMax = 10 }, "form.age_min"},
		{"name range", func(c *Config) { c.Form.NameMin = 10; c.Form.NameMax = 5 }, "form.name_min"},
		{"no state file", func(c *Config) { c.State.File = "" }, "state.file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetDurations(t *testing.T) {
	h := HolidaysConfig{Timeout: "bogus", KeyRefresh: "-5m"}
	if got := h.GetTimeout(); got != 10*time.Second {
		t.Errorf("GetTimeout() = %v, want 10s fallback", got)
	}
	if got := h.GetKeyRefresh(); got != time.Hour {
		t.Errorf("GetKeyRefresh() = %v, want 1h fallback", got)
	}
	f := FormConfig{Timeout: "45s"}
	if got := f.GetTimeout(); got != 45*time.Second {
		t.Errorf("GetTimeout() = %v, want 45s", got)
	}
}
