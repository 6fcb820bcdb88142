// Package logflags registers the --loglevel, --logformat and --logoutput
// flags and builds a *slog.Logger from them.
package logflags

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	FormatFlagName = "logformat"
	FormatJSON     = "json"
	FormatText     = "text"

	LevelFlagName = "loglevel"
	LevelDebug    = "debug"
	LevelInfo     = "info"
	LevelWarn     = "warn"
	LevelError    = "error"

	OutputFlagName = "logoutput"
	OutputStdout   = "stdout"
	OutputStderr   = "stderr"
)

var (
	formats = []string{FormatText, FormatJSON}
	levels  = []string{LevelWarn, LevelDebug, LevelInfo, LevelError}
	outputs = []string{OutputStderr, OutputStdout}
)

// Register adds the logging flags to flagset. Defaults are text, warn and
// stderr so logs never mix with rendered reports.
func Register(flagset *pflag.FlagSet) {
	flagset.String(FormatFlagName, FormatText, "log format: text or json")
	flagset.String(LevelFlagName, LevelWarn, "log level: debug, info, warn or error")
	flagset.String(OutputFlagName, OutputStderr, "log destination: stdout or stderr")
}

// Logger builds a logger from the flags registered on cmd.
func Logger(cmd *cobra.Command) (*slog.Logger, error) {
	format, err := lookup(cmd.Flags(), FormatFlagName, formats)
	if err != nil {
		return nil, err
	}
	levelName, err := lookup(cmd.Flags(), LevelFlagName, levels)
	if err != nil {
		return nil, err
	}
	output, err := lookup(cmd.Flags(), OutputFlagName, outputs)
	if err != nil {
		return nil, err
	}

	var w io.Writer = cmd.ErrOrStderr()
	if output == OutputStdout {
		w = cmd.OutOrStdout()
	}
	opts := &slog.HandlerOptions{Level: level(levelName)}

	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), nil
}

func lookup(flags *pflag.FlagSet, name string, allowed []string) (string, error) {
	value, err := flags.GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s: %w", name, err)
	}
	if !slices.Contains(allowed, value) {
		return "", fmt.Errorf("invalid --%s %q, expected one of %v", name, value, allowed)
	}
	return value, nil
}

func level(name string) slog.Level {
	switch name {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
