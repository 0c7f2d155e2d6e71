package main

import (
	"os"

	"ggufconv/internal/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:]))
}
