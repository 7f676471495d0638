package main

import (
	"fmt"
	"os"

	"github.com/raptor-lang/Raptortime/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
