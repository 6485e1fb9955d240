package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/labagenda/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-a string   address and port of the backend server
//	-d string   data directory
//	-z string   timezone that defines "today"
//	-t int      request timeout (in seconds)
//	-offline    use the local document store
//	-v          debug logging
//
// Only the flags listed above are considered; anything else in args is left
// to other parsers.
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, []string{"-a", "-d", "-z", "-t"})
	filtered = append(filtered, flagx.FilterSwitches(args, []string{"-offline", "--offline", "-v"})...)

	fs := flag.NewFlagSet("agenda", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.Timezone, "z", cfg.Timezone, "timezone that defines today")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.BoolVar(&cfg.Offline, "offline", cfg.Offline, "work without a server")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "verbose logging")

	if err := fs.Parse(filtered); err != nil {
		return err
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	return nil
}
