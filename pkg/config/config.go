package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/unowned-ai/rpager/pkg/kai"
	"github.com/unowned-ai/rpager/pkg/logging"
	"github.com/unowned-ai/rpager/pkg/study"
)

// Config holds runtime settings for the rpager CLI.
type Config struct {
	// DBPath empty means the platform default from utils.
	DBPath    string
	WAL       bool
	Sync      string
	LogLevel  string
	LogFormat string

	OllamaURL    string
	OllamaModel  string
	WhisperURL   string
	GeminiAPIKey string
	GeminiModel  string
	// ServiceTimeout bounds each assistant call.
	ServiceTimeout time.Duration

	StudentName string
	// Birthday is "MM-DD", empty when unset.
	Birthday string
	// TimeZone is an IANA name; empty means the local zone.
	TimeZone string
}

var syncModes = []string{"OFF", "NORMAL", "FULL", "EXTRA"}

func (c *Config) LoadDefaults() {
	c.DBPath = ""
	c.WAL = true
	c.Sync = "NORMAL"
	c.LogLevel = "warn"
	c.LogFormat = "text"
	c.OllamaURL = kai.DefaultOllamaURL
	c.OllamaModel = kai.DefaultOllamaModel
	c.WhisperURL = kai.DefaultWhisperURL
	c.GeminiModel = kai.DefaultGeminiModel
	c.ServiceTimeout = kai.DefaultTimeout
	c.StudentName = kai.DefaultName
}

// Default returns a Config with defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	return cfg
}

// Load applies defaults, the JSON file at path (if any) and the environment.
// Flags are applied afterwards with ApplyFlags.
func Load(path string, env Env) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.LoadEnv(env); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	var errs []error
	if !containsFold(syncModes, c.Sync) {
		errs = append(errs, fmt.Errorf("sync must be one of %s, got %q", strings.Join(syncModes, ", "), c.Sync))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log format must be text or json, got %q", c.LogFormat))
	}
	if c.ServiceTimeout <= 0 {
		errs = append(errs, fmt.Errorf("service timeout must be positive, got %s", c.ServiceTimeout))
	}
	if _, err := study.ParseBirthday(c.Birthday); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Location resolves TimeZone.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

func (c *Config) BirthdayValue() study.Birthday {
	b, _ := study.ParseBirthday(c.Birthday)
	return b
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
