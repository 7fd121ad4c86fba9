package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Env describes where environment values come from.
type Env struct {
	// DotEnv is a .env file read before the process environment. A missing
	// file is ignored.
	DotEnv string
	// Lookup defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
}

// OSEnv reads ./.env and the process environment.
func OSEnv() Env {
	return Env{DotEnv: ".env", Lookup: os.LookupEnv}
}

func (e Env) resolver() (func(string) (string, bool), error) {
	lookup := e.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if e.DotEnv == "" {
		return lookup, nil
	}

	file, err := godotenv.Read(e.DotEnv)
	if errors.Is(err, fs.ErrNotExist) {
		return lookup, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", e.DotEnv, err)
	}
	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}, nil
}

// LoadEnv overlays c with RPAGER_* variables. GEMINI_API_KEY is accepted as
// well as RPAGER_GEMINI_API_KEY.
func (c *Config) LoadEnv(e Env) error {
	lookup, err := e.resolver()
	if err != nil {
		return err
	}

	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				*dst = v
				return
			}
		}
	}
	str(&c.DBPath, "RPAGER_DB")
	str(&c.Sync, "RPAGER_SYNC")
	str(&c.LogLevel, "RPAGER_LOG_LEVEL")
	str(&c.LogFormat, "RPAGER_LOG_FORMAT")
	str(&c.OllamaURL, "RPAGER_OLLAMA_URL")
	str(&c.OllamaModel, "RPAGER_OLLAMA_MODEL")
	str(&c.WhisperURL, "RPAGER_WHISPER_URL")
	str(&c.GeminiAPIKey, "RPAGER_GEMINI_API_KEY", "GEMINI_API_KEY")
	str(&c.GeminiModel, "RPAGER_GEMINI_MODEL")
	str(&c.StudentName, "RPAGER_NAME")
	str(&c.Birthday, "RPAGER_BIRTHDAY")
	str(&c.TimeZone, "RPAGER_TIMEZONE")

	if v, ok := lookup("RPAGER_WAL"); ok && v != "" {
		b, err := cast.ToBoolE(v)
		if err != nil {
			return fmt.Errorf("RPAGER_WAL: %w", err)
		}
		c.WAL = b
	}
	if v, ok := lookup("RPAGER_TIMEOUT"); ok && v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("RPAGER_TIMEOUT: %w", err)
		}
		c.ServiceTimeout = d
	}
	return nil
}

// parseDuration accepts "30s" or a bare number of seconds.
func parseDuration(s string) (time.Duration, error) {
	if n, err := cast.ToFloat64E(s); err == nil {
		return time.Duration(n * float64(time.Second)), nil
	}
	return cast.ToDurationE(s)
}
