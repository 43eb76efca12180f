// Package config loads runtime configuration for the GophChat CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with --config/-c or GOPHCHAT_CONFIG.
//  3. Command-line flags of the cobra root command, which override earlier
//     values.
//
// # JSON schema
//
// The JSON loader uses timex.Duration, so timeouts can be either strings
// like "90s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "session_dir": ".gophchat",
//	  "request_timeout": "2m"
//	}
package config
