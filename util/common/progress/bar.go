// Package progress renders byte-level download progress.
package progress

import (
	"fmt"

	"github.com/inhies/go-bytesize"
	"github.com/pterm/pterm"
)

// Bar adapts a pterm progress bar to the fetcher's cumulative-bytes
// observer. One Bar handles a whole run: it starts a fresh bar whenever the
// asset name changes and finishes the previous one.
type Bar struct {
	current string
	bar     *pterm.ProgressbarPrinter
	written int64
}

// NewBar creates an idle Bar. The first Update call starts rendering.
func NewBar() *Bar {
	return &Bar{}
}

// Update receives cumulative bytes for the named asset. Totals are known up
// front, so the bar is created with its final size on the first call.
func (b *Bar) Update(name string, written, total int64) {
	if name != b.current {
		b.finish()
		title := fmt.Sprintf("%s (%s)", name, humanSize(total))
		bar := pterm.DefaultProgressbar.
			WithTitle(title).
			WithTotal(int(total)).
			WithRemoveWhenDone(false)
		b.bar, _ = bar.Start()
		b.current = name
		b.written = 0
	}
	if b.bar != nil {
		b.bar.Add(int(written - b.written))
	}
	b.written = written
}

// Done stops the active bar, if any.
func (b *Bar) Done() {
	b.finish()
	b.current = ""
}

func (b *Bar) finish() {
	if b.bar != nil {
		b.bar.Stop()
		b.bar = nil
	}
}

func humanSize(n int64) string {
	return bytesize.New(float64(n)).String()
}
