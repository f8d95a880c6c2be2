package main

import (
	"os"

	"github.com/seomesh/seomesh/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
