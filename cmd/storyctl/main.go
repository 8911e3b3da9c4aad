package main

import (
	"os"

	"github.com/snappy-loop/storybook/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
