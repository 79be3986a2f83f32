// Package common holds small ambient helpers shared across typodex's
// packages: a process-wide logger and an error-wrapping convention, so
// cmd/typodex's subcommands report failures consistently.
package common

import (
	"fmt"
	"log"
	"os"
)

// Logger is the process-wide logger, prefixed so its output is
// distinguishable when typodex runs inside another tool's log stream.
var Logger = log.New(os.Stderr, "typodex: ", 0)

// Fatal logs err and exits with status 1.
func Fatal(err error) {
	Logger.Println(err)
	os.Exit(1)
}

// Wrap prefixes err with component, keeping errors.Is/errors.As working
// through the %w verb.
func Wrap(component string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", component, err)
}
