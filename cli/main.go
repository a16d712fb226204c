package main

import (
	"os"

	"github.com/trebuchet-org/creg/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
