package cli

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// NewProgressBar creates a progress bar for multi-step operations such as
// importing a directory of statements.
func NewProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
