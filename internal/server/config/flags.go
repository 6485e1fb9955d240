package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/labagenda/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-m string   mailer: console or sendgrid
//	-k string   sendgrid API key
//	-f string   sender address
//	-l string   password-reset link prefix
//
// Duration flags are whole minutes.
func parseFlags(config *Config, args []string) error {
	filtered := flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-r", "-m", "-k", "-f", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")

	fs.StringVar(&config.Mailer, "m", config.Mailer, "mailer: console or sendgrid")
	fs.StringVar(&config.SendgridAPIKey, "k", config.SendgridAPIKey, "sendgrid API key")
	fs.StringVar(&config.MailFrom, "f", config.MailFrom, "sender address")
	fs.StringVar(&config.ResetLinkBase, "l", config.ResetLinkBase, "password reset link prefix")

	if err := fs.Parse(filtered); err != nil {
		return err
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
	return nil
}
