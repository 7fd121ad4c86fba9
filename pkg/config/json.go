package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cast"
)

// duration reads "30s" or a bare number of seconds.
type duration time.Duration

func (d *duration) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if n, ok := raw.(float64); ok {
		*d = duration(time.Duration(n * float64(time.Second)))
		return nil
	}
	v, err := cast.ToDurationE(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %s: %w", b, err)
	}
	*d = duration(v)
	return nil
}

// jsonConfig is the file DTO. Absent keys leave the current value alone.
type jsonConfig struct {
	DBPath         *string   `json:"db_path"`
	WAL            *bool     `json:"wal"`
	Sync           *string   `json:"sync"`
	LogLevel       *string   `json:"log_level"`
	LogFormat      *string   `json:"log_format"`
	OllamaURL      *string   `json:"ollama_url"`
	OllamaModel    *string   `json:"ollama_model"`
	WhisperURL     *string   `json:"whisper_url"`
	GeminiAPIKey   *string   `json:"gemini_api_key"`
	GeminiModel    *string   `json:"gemini_model"`
	ServiceTimeout *duration `json:"service_timeout"`
	StudentName    *string   `json:"student_name"`
	Birthday       *string   `json:"birthday"`
	TimeZone       *string   `json:"time_zone"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// LoadFile overlays c with the JSON file at path.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	set(&c.DBPath, jc.DBPath)
	set(&c.WAL, jc.WAL)
	set(&c.Sync, jc.Sync)
	set(&c.LogLevel, jc.LogLevel)
	set(&c.LogFormat, jc.LogFormat)
	set(&c.OllamaURL, jc.OllamaURL)
	set(&c.OllamaModel, jc.OllamaModel)
	set(&c.WhisperURL, jc.WhisperURL)
	set(&c.GeminiAPIKey, jc.GeminiAPIKey)
	set(&c.GeminiModel, jc.GeminiModel)
	if jc.ServiceTimeout != nil {
		c.ServiceTimeout = time.Duration(*jc.ServiceTimeout)
	}
	set(&c.StudentName, jc.StudentName)
	set(&c.Birthday, jc.Birthday)
	set(&c.TimeZone, jc.TimeZone)
	return nil
}
