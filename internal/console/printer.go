package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/san-kum/algoviz/internal/playback"
)

// Printer is a playback observer that writes a line per step and
// signals when playback completes.
type Printer struct {
	mu       sync.Mutex
	w        io.Writer
	last     uint64
	cursor   int
	done     chan struct{}
	doneOnce sync.Once
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, cursor: -1, done: make(chan struct{})}
}

func (p *Printer) OnChange(v playback.View) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// views can arrive out of order when ticks race user input
	if v.Revision <= p.last {
		return
	}
	p.last = v.Revision

	if v.Step != nil && v.Cursor != p.cursor {
		fmt.Fprintln(p.w, FormatLine(v))
	}
	p.cursor = v.Cursor

	if v.State == playback.Completed {
		p.doneOnce.Do(func() { close(p.done) })
	}
}

// Done is closed the first time playback completes.
func (p *Printer) Done() <-chan struct{} { return p.done }

// FormatLine renders v as "[  3/25  12.0%] compare   <narration>".
func FormatLine(v playback.View) string {
	if v.Step == nil {
		return fmt.Sprintf("[%3d/%d %5.1f%%] %s", 0, v.Length, 0.0, v.State)
	}
	return fmt.Sprintf("[%3d/%d %5.1f%%] %-9s %s",
		v.Cursor+1, v.Length, v.Progress, v.Step.Kind, Narrate(v.Algorithm, *v.Step))
}
