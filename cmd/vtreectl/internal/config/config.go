// Package config tracks the --config flag's value for the vtreectl
// process, mirroring cmd/lvt/internal/config's SetConfigPath/GetConfigPath
// split between flag-parsing and subcommand code.
package config

import "os"

var globalConfigPath string

// SetConfigPath records a custom config path parsed from --config.
func SetConfigPath(path string) { globalConfigPath = path }

// Path returns the custom config path if one was set, otherwise "".
// No vtreectl subcommand reads it or loads the file; each subcommand
// uses its own built-in defaults.
func Path() string { return globalConfigPath }

// Exists reports whether a usable config file is available.
func Exists() bool {
	if globalConfigPath == "" {
		return false
	}
	_, err := os.Stat(globalConfigPath)
	return err == nil
}
