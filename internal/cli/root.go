// Package cli implements the treediff command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sdejongh/treediff/pkg/compare"
	"github.com/sdejongh/treediff/pkg/config"
	"github.com/sdejongh/treediff/pkg/logging"
	"github.com/sdejongh/treediff/pkg/models"
	"github.com/sdejongh/treediff/pkg/output"
	"github.com/sdejongh/treediff/pkg/ratelimit"
	"github.com/sdejongh/treediff/pkg/storage"
	"github.com/sdejongh/treediff/pkg/tree"
	"github.com/spf13/cobra"
)

// NewRootCommand creates the treediff command writing results to stdout and
// diagnostics to stderr
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:   "treediff [flags] <folder1> <folder2>",
		Short: "Compare two directory trees",
		Long: `treediff walks two directory trees side by side and reports, for every
entry present in both, whether the files are identical, differ in content,
or are a file on one side and a directory on the other. Shared
subdirectories are compared recursively; entries found on only one side
are ignored.`,
		Version:       versionString(),
		Args:          validateArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, flags, args, stdout, stderr)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &models.UsageError{Message: err.Error()}
	})
	addFlags(cmd, flags)

	return cmd
}

// Execute runs the command line and returns the process exit code
func Execute(ctx context.Context, stdout, stderr io.Writer, args []string) int {
	if args == nil {
		// cobra falls back to os.Args for nil
		args = []string{}
	}
	cmd := NewRootCommand(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var usageErr *models.UsageError
	var rootErr *models.InvalidRootError
	var cfgErr *configError
	var exitErr *models.ExitError

	switch {
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.As(err, &usageErr):
		fmt.Fprintf(stderr, "Error: %v\n", usageErr)
		fmt.Fprint(stdout, cmd.UsageString())
		return 1
	case errors.As(err, &rootErr):
		fmt.Fprintf(stderr, "Error: %v\n", rootErr)
		return 1
	case errors.As(err, &cfgErr):
		fmt.Fprintf(stderr, "Error: %v\n", cfgErr)
		return 1
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
}

func runCompare(cmd *cobra.Command, flags *Flags, args []string, stdout, stderr io.Writer) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Load configuration
	cfg, err := loadConfig(flags.ConfigFile)
	if err != nil {
		return &configError{fmt.Errorf("failed to load config: %w", err)}
	}

	// Override config with command-line flags
	applyFlags(cmd, flags, cfg)
	if err := cfg.Validate(); err != nil {
		return &configError{fmt.Errorf("invalid configuration: %w", err)}
	}

	leftPath, rightPath, err := validateRoots(args[0], args[1])
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	logger, err := newLogger(cfg.Logging, stderr)
	if err != nil {
		return &configError{err}
	}
	defer logger.Close()
	runLogger := logger.WithFields(logging.Fields{"run_id": runID})

	// Create storage backends
	left, err := storage.NewLocal(leftPath)
	if err != nil {
		return fmt.Errorf("failed to open folder1: %w", err)
	}
	defer left.Close()

	right, err := storage.NewLocal(rightPath)
	if err != nil {
		return fmt.Errorf("failed to open folder2: %w", err)
	}
	defer right.Close()

	binary, bars := newContentComparator(ctx, cfg, stderr)
	if bars != nil {
		defer bars.Finish()
	}

	formatter, err := output.New(cfg.Output.Format, cfg.Output.Summary)
	if err != nil {
		return &configError{err}
	}

	report := models.NewReport(runID, left.Root(), right.Root())
	if err := formatter.Start(stdout, report); err != nil {
		return err
	}

	runLogger.Info(ctx, "comparison started", logging.Fields{
		"left":        left.Root(),
		"right":       right.Root(),
		"exclude":     cfg.Compare.Exclude,
		"buffer_size": cfg.Compare.BufferSize,
		"bwlimit":     cfg.Compare.BandwidthLimit,
	})

	walker := tree.New(binary, runLogger, cfg.Compare.Exclude)
	walkErr := walker.Compare(ctx, left, right, func(r models.Result) error {
		report.Record(r)
		if r.IsDifference() {
			runLogger.Debug(ctx, "difference found", logging.Fields{
				"path":   r.RelativePath,
				"kind":   string(r.Kind),
				"reason": r.Reason,
			})
		}
		return formatter.Result(r)
	})
	report.Stats.DirsCompared = walker.DirsCompared()
	report.Finish(walkErr)

	if walkErr != nil {
		runLogger.Error(ctx, "comparison failed", walkErr, nil)
		_ = formatter.Complete(report)
		return walkErr
	}

	runLogger.Info(ctx, "comparison finished", logging.Fields{
		"status":          string(report.Status),
		"identical":       report.Stats.IdenticalFiles,
		"differing":       report.Stats.DifferingFiles,
		"type_mismatches": report.Stats.TypeMismatches,
		"dirs":            report.Stats.DirsCompared,
		"duration_ms":     report.Duration.Milliseconds(),
	})

	if err := formatter.Complete(report); err != nil {
		return err
	}

	if code := report.Status.ExitCode(cfg.Compare.FailOnDifference); code != 0 {
		return &models.ExitError{Code: code}
	}
	return nil
}

// newContentComparator builds the byte comparator with the optional bandwidth
// limit. Progress bars are returned when enabled and stderr is a terminal.
func newContentComparator(ctx context.Context, cfg *config.Config, stderr io.Writer) (*compare.BinaryComparator, *output.ProgressBars) {
	binary := compare.NewBinaryComparator(cfg.Compare.BufferSize)

	if limiter := ratelimit.NewLimiter(cfg.Compare.BandwidthLimit); limiter != nil {
		binary.SetReaderWrapper(func(rc io.ReadCloser) io.ReadCloser {
			return ratelimit.NewReadCloser(ctx, rc, limiter)
		})
	}

	if !cfg.Output.Progress || !output.IsTerminal(stderr) {
		return binary, nil
	}
	bars := output.NewProgressBars(stderr)
	binary.SetProgressCallback(bars.Update)
	return binary, bars
}

// newLogger returns a null logger unless logging is enabled
func newLogger(cfg config.LoggingConfig, stderr io.Writer) (logging.Logger, error) {
	if !cfg.Enabled {
		return logging.NewNullLogger(), nil
	}

	format := logging.Format(cfg.Format)
	level := logging.ParseLevel(cfg.Level)
	if cfg.File == "" {
		return logging.NewStreamLogger(stderr, format, level), nil
	}

	logger, err := logging.New(logging.Config{Path: cfg.File, Format: format, Level: level})
	if err != nil {
		return nil, err
	}
	return logger, nil
}
