package main

import (
	"os"

	"shelfwise/internal/adapters/cli"
)

func main() {
	os.Exit(cli.Execute())
}
