package main

import (
	"os"

	"github.com/pointdeck/pointdeck/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
