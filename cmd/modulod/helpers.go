// Shared helpers for modulod CLI commands.
package main

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/modulo/internal/sqlite"
)

// attachBackend opens the SQLite backend against the resolved data
// directory. The caller must defer backend.Detach().
func attachBackend() (*sqlite.Backend, error) {
	backend := sqlite.NewBackend()
	if err := backend.Attach(runtimeConfig); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}
	return backend, nil
}

// newLogger builds a logrus logger at the configured level. Unknown levels
// fall back to info; Validate has already rejected them by the time any
// command runs.
func newLogger() *log.Logger {
	logger := log.New()
	level, err := log.ParseLevel(runtimeConfig.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// printJSON writes v to stdout as indented JSON, for --json output.
func printJSON(v any) error {
	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// sysExit prints err and exits with the system error code.
func sysExit(context string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", context, err)
	os.Exit(exitSysError)
}
