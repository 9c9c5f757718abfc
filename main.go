package main

import (
	"os"

	"github.com/roshil-6/TONIO-SENORA/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
