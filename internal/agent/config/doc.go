// Package config loads runtime configuration for the AricaInsights agent.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the AricaInsights API
//	-i int      online status check interval (seconds)
//	-t int      per-request timeout (seconds)
//	-d string   path to the credentials database
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_url": "https://app.aricainsights.example",
//	  "online_check_interval": "3s",
//	  "request_timeout": "10s",
//	  "credentials_path": "/home/alice/.config/toucan/credentials.db"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
