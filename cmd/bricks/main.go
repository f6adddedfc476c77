// Package main provides the bricks CLI: catalogue ingestion, collection
// analysis, and user inventory management over the local stores.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jfexwana/lego-manager/pkg/types"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "bricks:", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps error classes to exit codes: user-correctable failures
// (bad arguments, violated preconditions) exit 1, system failures
// (transport, format, storage) exit 2.
func exitCodeFor(err error) int {
	var transport *types.TransportError
	var format *types.FormatError
	var storage *types.StorageError
	if errors.As(err, &transport) || errors.As(err, &format) || errors.As(err, &storage) {
		return exitSysError
	}
	return exitUserError
}
