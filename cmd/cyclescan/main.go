package main

import (
	"os"

	"cyclescan/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
