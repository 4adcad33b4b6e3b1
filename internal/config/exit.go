package config

import (
	"fmt"
	"os"
)

// Exitf reports a fatal startup error on stderr and exits 1. Deferred calls
// in the caller do not run.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
