package main

import (
	"os"

	"github.com/getlawrence/useserver/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
