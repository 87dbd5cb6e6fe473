package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/handiism/ucdump/internal/config"
	"github.com/handiism/ucdump/internal/logging"
	"github.com/handiism/ucdump/internal/tui"
)

func main() {
	configFlag := flag.String("config", "", "Path to config file")
	flag.Parse()

	path := *configFlag
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	settings, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := settings.ApplyEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The alternate screen owns the terminal, so structured logs are dropped.
	if err := tui.Run(settings, logging.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
