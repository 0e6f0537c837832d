package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Lumos-Labs-HQ/mockforge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, cmd.ErrReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
