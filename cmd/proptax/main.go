package main

import (
	"os"

	"github.com/proptax-dev/proptax/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
