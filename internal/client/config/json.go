package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/labagenda/internal/flagx"
	"github.com/dmitrijs2005/labagenda/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// accept "10s" or integer nanoseconds. Absent keys leave the current value
// untouched.
type JsonConfig struct {
	ServerEndpointAddr *string         `json:"server_endpoint_addr"`
	DataDir            *string         `json:"data_dir"`
	Timezone           *string         `json:"timezone"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
	Offline            *bool           `json:"offline"`
	Verbose            *bool           `json:"verbose"`
}

// parseJson overlays cfg with the file named by -c or -config, if any.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.ServerEndpointAddr != nil {
		cfg.ServerEndpointAddr = *jc.ServerEndpointAddr
	}
	if jc.DataDir != nil {
		cfg.DataDir = *jc.DataDir
	}
	if jc.Timezone != nil {
		cfg.Timezone = *jc.Timezone
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.Offline != nil {
		cfg.Offline = *jc.Offline
	}
	if jc.Verbose != nil {
		cfg.Verbose = *jc.Verbose
	}
	return nil
}
