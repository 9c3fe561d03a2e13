package main

import (
	"os"

	"github.com/seqfin/absim/cmd/absim/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
