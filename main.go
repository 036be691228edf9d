// Package main is the entry point for the aurora player.
package main

import (
	"github.com/aurora-stream/aurora/cmd"
	"github.com/aurora-stream/aurora/config"
	"github.com/aurora-stream/aurora/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
