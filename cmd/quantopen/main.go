package main

import (
	"os"

	"github.com/quantopen/quantopen/cmd/quantopen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
