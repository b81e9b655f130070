package main

import (
	"os"

	"github.com/grokify/releaseconductor/cmd/releaseconductor/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
