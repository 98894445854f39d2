package output

import (
	"fmt"
	"io"

	"github.com/sdejongh/treediff/pkg/models"
)

// Formatter defines the interface for output formatting
// Implementations include human-readable and JSON formatters
type Formatter interface {
	// Start initializes the formatter for a new comparison run
	Start(writer io.Writer, report *models.Report) error

	// Result writes one classification result as it is produced
	Result(result models.Result) error

	// Complete finalizes output once the walk has ended
	Complete(report *models.Report) error

	// Name returns the formatter name
	Name() string
}

// New returns the formatter registered under name.
// summary makes the human formatter print counters after the results.
func New(name string, summary bool) (Formatter, error) {
	switch name {
	case "human", "":
		return NewHumanFormatter(summary), nil
	case "json":
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", name)
	}
}
