package downloader

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/dustin/go-humanize"
	"github.com/jutdl/jutdl/color"
	"github.com/jutdl/jutdl/icon"
	"github.com/jutdl/jutdl/style"
	"github.com/jutdl/jutdl/util"
	"github.com/muesli/reflow/truncate"
)

// Progress receives the bytes of one transfer.
type Progress interface {
	io.Writer
	Finish(ok bool)
}

const redrawEvery = 100 * time.Millisecond

// Bar renders a single-line progress bar that is redrawn in place.
type Bar struct {
	out     io.Writer
	label   string
	total   int64
	written int64
	model   progress.Model
	drawn   time.Time
}

// NewBar returns a Bar on stdout. A total of zero or less means the size is unknown.
func NewBar(label string, total int64) Progress {
	return newBar(os.Stdout, label, total, util.TerminalWidth(80))
}

func newBar(out io.Writer, label string, total int64, width int) *Bar {
	model := progress.New(
		progress.WithGradient(color.ProgressFrom, color.ProgressTo),
		progress.WithWidth(util.Clamp(width/3, 10, 40)),
	)

	return &Bar{
		out:   out,
		label: truncate.StringWithTail(label, uint(util.Clamp(width/2, 10, width)), "…"),
		total: total,
		model: model,
	}
}

func (b *Bar) Write(p []byte) (int, error) {
	b.written += int64(len(p))
	if time.Since(b.drawn) >= redrawEvery {
		b.draw()
	}
	return len(p), nil
}

// Finish draws the final state and ends the line.
func (b *Bar) Finish(ok bool) {
	b.draw()
	mark := icon.Get(icon.Success)
	if !ok {
		mark = icon.Get(icon.Fail)
	}
	fmt.Fprintf(b.out, " %s\n", mark)
}

func (b *Bar) draw() {
	b.drawn = time.Now()
	fmt.Fprintf(b.out, "\r%s", b.line())
}

func (b *Bar) line() string {
	var sb strings.Builder
	sb.WriteString(icon.Get(icon.Progress))
	sb.WriteString(" ")
	sb.WriteString(b.label)
	sb.WriteString(" ")

	if b.total > 0 {
		sb.WriteString(b.model.ViewAs(b.percent()))
		sb.WriteString(" ")
		sb.WriteString(style.Faint(fmt.Sprintf("%s / %s", humanize.Bytes(uint64(b.written)), humanize.Bytes(uint64(b.total)))))
	} else {
		sb.WriteString(style.Faint(humanize.Bytes(uint64(b.written))))
	}

	return sb.String()
}

func (b *Bar) percent() float64 {
	if b.total <= 0 {
		return 0
	}
	return util.Clamp(float64(b.written)/float64(b.total), 0, 1)
}

// silent discards progress, used when output is not wanted.
type silent struct{}

func (silent) Write(p []byte) (int, error) { return len(p), nil }
func (silent) Finish(bool)                 {}

// Silent is a Progress factory that renders nothing.
func Silent(string, int64) Progress {
	return silent{}
}
