package main

import (
	"fmt"
	"os"

	"github.com/brtdev/brt/internal/config"
	"github.com/brtdev/brt/internal/logging"
	"github.com/brtdev/brt/internal/ui"
)

func main() {
	cfg, err := config.FromFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "brt:", err)
		os.Exit(2)
	}

	log, closeLog := logging.New(cfg)
	defer closeLog()

	if err := ui.Run(cfg, log); err != nil {
		log.Error("fatal", "error", err)
		fmt.Fprintln(os.Stderr, "brt:", err)
		os.Exit(1)
	}
}
