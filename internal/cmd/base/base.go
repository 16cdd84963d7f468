// Package base carries the pieces shared by every CLI command.
package base

import (
	"flag"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
)

// Command is embedded in every subcommand.
type Command struct {
	// UI is used for command output.
	UI cli.Ui

	// Log is the root logger; subcommands derive named loggers from it.
	Log hclog.Logger
}

// FlagSet wraps flag.FlagSet with help rendering suitable for CLI output.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet creates a flag set that swallows its own error output; parse
// errors are reported through the UI instead.
func NewFlagSet(name string) *FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(discard{})
	return &FlagSet{FlagSet: fs}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
