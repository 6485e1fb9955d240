// Package config loads runtime configuration for the agenda CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-d string   data directory
//	-z string   timezone that defines "today" (default America/Sao_Paulo)
//	-t int      request timeout (seconds)
//	-offline    keep everything on this machine
//	-v          debug logging
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "data_dir": "/home/me/.config/labagenda",
//	  "timezone": "America/Sao_Paulo",
//	  "request_timeout": "10s",
//	  "offline": false,
//	  "verbose": false
//	}
//
// This package does not read environment variables.
package config
