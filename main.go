// Package main is the entry point of jutdl.
package main

import (
	"github.com/jutdl/jutdl/cmd"
	"github.com/jutdl/jutdl/config"
	"github.com/jutdl/jutdl/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
