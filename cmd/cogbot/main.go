package main

import (
	"os"

	_ "github.com/sglre6355/cogbot/internal/modules/basic/commands"
	_ "github.com/sglre6355/cogbot/internal/modules/events/eventlog"
)

// version is set at build time via ldflags:
// go build -ldflags "-X main.version=1.0.0" ./cmd/cogbot
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
