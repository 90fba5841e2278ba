package formatter

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// Progress draws an animated status line on w until stopped, using the
// bubbles MiniDot frames. After a few seconds the line also shows how long
// the wait has taken.
type Progress struct {
	w       io.Writer
	label   string
	style   spinner.Spinner
	cancel  context.CancelFunc
	done    chan struct{}
	stopped sync.Once
}

const showElapsedAfter = 3 * time.Second

// NewProgress prepares a progress line; nothing is drawn until Start.
func NewProgress(w io.Writer, label string) *Progress {
	return &Progress{w: w, label: label, style: spinner.MiniDot, done: make(chan struct{})}
}

func (p *Progress) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go p.run(ctx)
}

func (p *Progress) run(ctx context.Context) {
	defer close(p.done)
	ticker := time.NewTicker(p.style.FPS)
	defer ticker.Stop()
	started := time.Now()
	for frame := 0; ; frame++ {
		select {
		case <-ctx.Done():
			fmt.Fprint(p.w, "\r\033[K")
			return
		case <-ticker.C:
			glyph := p.style.Frames[frame%len(p.style.Frames)]
			line := p.label
			if waited := time.Since(started); waited >= showElapsedAfter {
				line = fmt.Sprintf("%s (%ds)", p.label, int(waited.Seconds()))
			}
			fmt.Fprintf(p.w, "\r  %s %s", StylePurple.Render(glyph), Dim(line))
		}
	}
}

// Stop clears the line and waits for the animation to exit. Extra calls
// are ignored.
func (p *Progress) Stop() {
	p.stopped.Do(func() {
		if p.cancel == nil {
			close(p.done)
			return
		}
		p.cancel()
		<-p.done
	})
}

// StartSpinner starts a progress line on w and returns its stop function.
// Non-interactive sessions get a no-op so piped output stays clean.
func StartSpinner(w io.Writer, label string, interactive bool) func() {
	if !interactive {
		return func() {}
	}
	p := NewProgress(w, label)
	p.Start()
	return p.Stop
}
