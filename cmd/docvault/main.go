package main

import (
	"os"

	"github.com/documentiulia/docvault/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
