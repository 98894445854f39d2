package output

import (
	"io"
	"os"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"
)

// minProgressSize is the smallest file that gets a bar; smaller files finish
// before a bar would render
const minProgressSize = 1024 * 1024

const barTemplate = `{{string . "prefix"}} {{counters . }} {{bar . }} {{percent . }} {{speed . }}`

// ProgressBars draws one byte progress bar per large file comparison.
// Its Update method matches compare.ProgressFunc.
type ProgressBars struct {
	writer io.Writer

	mu   sync.Mutex
	path string
	bar  *pb.ProgressBar
}

// NewProgressBars creates progress bars drawn on writer
func NewProgressBars(writer io.Writer) *ProgressBars {
	return &ProgressBars{writer: writer}
}

// IsTerminal reports whether w is a terminal; progress bars are only drawn on one
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// Update reports current of total bytes compared for path
func (p *ProgressBars) Update(path string, current, total int64) {
	if total < minProgressSize {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil || p.path != path {
		p.finishLocked()
		p.path = path
		p.bar = pb.New64(total).
			SetTemplateString(barTemplate).
			SetWriter(p.writer).
			Set(pb.Bytes, true).
			Set("prefix", path)
		p.bar.Start()
	}

	p.bar.SetCurrent(current)
	if current >= total {
		p.finishLocked()
	}
}

// Finish completes any bar still drawn
func (p *ProgressBars) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finishLocked()
}

func (p *ProgressBars) finishLocked() {
	if p.bar == nil {
		return
	}
	p.bar.Finish()
	p.bar = nil
	p.path = ""
}
