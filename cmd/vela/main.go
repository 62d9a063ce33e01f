package main

import (
	"fmt"
	"os"

	"github.com/vela-lang/vela/cmd/vela/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}
