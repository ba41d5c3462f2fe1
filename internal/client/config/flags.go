package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/areaportal/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, so the -c/-config flag of parseJson does not
// confuse it. Invalid values panic.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-r", "-d", "-w", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "REST API base URL")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.IntVar(&cfg.RetryMax, "r", cfg.RetryMax, "retries per failed request")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local SQLite database")
	watch := fs.Int("w", int(cfg.StorageWatchInterval.Seconds()), "storage watch interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.StorageWatchInterval = time.Duration(*watch) * time.Second
}
