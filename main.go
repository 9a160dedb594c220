// Package main is the entry point for the cue application.
package main

import (
	"github.com/cue-cli/cue/cmd"
	"github.com/cue-cli/cue/config"
	"github.com/cue-cli/cue/internal/cache"
	"github.com/cue-cli/cue/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// Initialize asynchronous background cache maintenance.
	go cache.CollectGarbage()

	cmd.Execute()
}
