package cli

import (
	"github.com/sdejongh/treediff/pkg/config"
	"github.com/spf13/cobra"
)

// Flags holds command-line flag values
type Flags struct {
	ConfigFile string
	Output     string
	Exclude    []string
	FailOnDiff bool
	Summary    bool
	Progress   bool
	BWLimit    int64
	BufferSize int
	LogFile    string
	LogLevel   string
	LogFormat  string
}

// addFlags registers the flags on cmd
func addFlags(cmd *cobra.Command, flags *Flags) {
	f := cmd.Flags()
	f.StringVar(&flags.ConfigFile, "config", "", "config file, YAML or .ini (default: built-in settings)")
	f.StringVarP(&flags.Output, "output", "o", "", "output format: human, json")
	f.StringArrayVar(&flags.Exclude, "exclude", nil, "glob pattern of shared entries to skip (repeatable)")
	f.BoolVar(&flags.FailOnDiff, "fail-on-diff", false, "exit with status 1 when differences are found")
	f.BoolVar(&flags.Summary, "summary", false, "print counters after the results")
	f.BoolVar(&flags.Progress, "progress", false, "show progress bars for large files on a terminal")
	f.Int64Var(&flags.BWLimit, "bwlimit", 0, "limit content reads to this many bytes per second (0 = unlimited)")
	f.IntVar(&flags.BufferSize, "buffer-size", 0, "content comparison buffer size in bytes")
	f.StringVar(&flags.LogFile, "log-file", "", "write logs to this file instead of stderr")
	f.StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&flags.LogFormat, "log-format", "", "log format: text, json")
}

// applyFlags overrides config values with flags set on the command line.
// Any logging flag enables logging.
func applyFlags(cmd *cobra.Command, flags *Flags, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("output") {
		cfg.Output.Format = flags.Output
	}
	if changed("exclude") {
		cfg.Compare.Exclude = append(cfg.Compare.Exclude, flags.Exclude...)
	}
	if changed("fail-on-diff") {
		cfg.Compare.FailOnDifference = flags.FailOnDiff
	}
	if changed("summary") {
		cfg.Output.Summary = flags.Summary
	}
	if changed("progress") {
		cfg.Output.Progress = flags.Progress
	}
	if changed("bwlimit") {
		cfg.Compare.BandwidthLimit = flags.BWLimit
	}
	if changed("buffer-size") {
		cfg.Compare.BufferSize = flags.BufferSize
	}

	if changed("log-file") {
		cfg.Logging.File = flags.LogFile
		cfg.Logging.Enabled = true
	}
	if changed("log-level") {
		cfg.Logging.Level = flags.LogLevel
		cfg.Logging.Enabled = true
	}
	if changed("log-format") {
		cfg.Logging.Format = flags.LogFormat
		cfg.Logging.Enabled = true
	}
}
