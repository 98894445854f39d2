package cli

import (
	"fmt"
	"os"

	"github.com/sdejongh/treediff/internal/platform"
	"github.com/sdejongh/treediff/pkg/config"
	"github.com/sdejongh/treediff/pkg/models"
	"github.com/spf13/cobra"
)

// validateArgs accepts exactly two positional folders
func validateArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return &models.UsageError{
			Message: fmt.Sprintf("expected 2 arguments (folder1 folder2), got %d", len(args)),
		}
	}
	return nil
}

// validateRoots checks folder1 then folder2 and returns their normalized paths.
// The first root that is not a directory is reported.
func validateRoots(folder1, folder2 string) (string, string, error) {
	left, err := validateRoot("folder1", folder1)
	if err != nil {
		return "", "", err
	}
	right, err := validateRoot("folder2", folder2)
	if err != nil {
		return "", "", err
	}
	return left, right, nil
}

func validateRoot(arg, path string) (string, error) {
	if err := platform.ValidatePath(path); err != nil {
		return "", &models.InvalidRootError{Arg: arg, Path: path, Reason: "is not a valid path"}
	}

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return "", &models.InvalidRootError{Arg: arg, Path: path, Reason: "is not a directory"}
	}

	return platform.NormalizePath(path), nil
}

// configError marks a configuration problem found before the walk started
type configError struct {
	err error
}

func (e *configError) Error() string {
	return e.err.Error()
}

func (e *configError) Unwrap() error {
	return e.err
}

// loadConfig reads the --config file; without one the built-in defaults
// apply and nothing outside the two folders is read
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(path)
}
