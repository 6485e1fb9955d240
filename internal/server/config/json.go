package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/labagenda/internal/flagx"
	"github.com/dmitrijs2005/labagenda/internal/timex"
)

// JsonConfig is the DTO read from the JSON config file. Durations accept
// "15m" or integer nanoseconds. Absent keys keep the current value.
type JsonConfig struct {
	EndpointAddrGRPC             *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                  *string         `json:"database_dsn"`
	SecretKey                    *string         `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	ResetTokenValidityDuration   *timex.Duration `json:"reset_token_validity_duration"`
	Mailer                       *string         `json:"mailer"`
	SendgridAPIKey               *string         `json:"sendgrid_api_key"`
	MailFrom                     *string         `json:"mail_from"`
	ResetLinkBase                *string         `json:"reset_link_base"`
}

// parseJson overlays config with the file given by -c or -config, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.Mailer, c.Mailer)
	setString(&config.SendgridAPIKey, c.SendgridAPIKey)
	setString(&config.MailFrom, c.MailFrom)
	setString(&config.ResetLinkBase, c.ResetLinkBase)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.ResetTokenValidityDuration != nil {
		config.ResetTokenValidityDuration = c.ResetTokenValidityDuration.Duration
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
