package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Tracker wraps a progress bar for file processing.
type Tracker struct {
	bar   *progressbar.ProgressBar
	label string
	w     io.Writer
}

// NewTracker creates a progress bar on stderr with the given label and
// total count.
func NewTracker(label string, total int) *Tracker {
	return NewTrackerTo(os.Stderr, label, total)
}

// NewTrackerTo creates a progress bar writing to w.
func NewTrackerTo(w io.Writer, label string, total int) *Tracker {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Tracker{bar: bar, label: label, w: w}
}

// Tick increments the progress by 1. Safe for concurrent use.
func (t *Tracker) Tick() {
	_ = t.bar.Add(1)
}

// FinishSuccess clears the bar completely (no output).
func (t *Tracker) FinishSuccess() {
	_ = t.bar.Finish()
	_ = t.bar.Clear()
}

// FinishError clears the bar and prints an error message.
func (t *Tracker) FinishError(err error) {
	_ = t.bar.Finish()
	_ = t.bar.Clear()
	fmt.Fprintf(t.w, "  %s error: %v\n", t.label, err)
}
