package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		var exit exitError
		switch {
		case errors.As(err, &exit):
		case !errors.Is(err, context.Canceled):
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// exitError signals a failure that was already reported to the user.
type exitError struct{ code string }

func (e exitError) Error() string { return "analysis failed: " + e.code }
