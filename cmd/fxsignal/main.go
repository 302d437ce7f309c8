package main

import (
	"os"

	"github.com/rustyeddy/fxsignal/cmd/fxsignal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
