package main

import (
	"os"

	"github.com/penwyp/go-deckview/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
