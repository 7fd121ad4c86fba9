// Package config loads runtime configuration for the rpager CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with --config.
//  3. A .env file in the working directory, then RPAGER_* environment
//     variables.
//  4. Command-line flags that were explicitly set.
//
// # JSON schema
//
// Durations accept strings like "30s" or integer seconds:
//
//	{
//	  "db_path": "~/.local/share/rpager/rpager.db",
//	  "wal": true,
//	  "log_level": "info",
//	  "ollama_url": "http://localhost:11434",
//	  "service_timeout": "30s",
//	  "birthday": "08-11"
//	}
package config
