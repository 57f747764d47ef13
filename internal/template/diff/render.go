package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// NoDifference is printed when the snapshots are equal.
const NoDifference = "no difference"

// RenderOptions controls Render.
type RenderOptions struct {
	// Color enables ANSI colors for added and removed lines.
	Color bool
	// Context is the number of unchanged lines kept around each change.
	// A negative value prints every unchanged line.
	Context int
}

var (
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	elidedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// Render writes the segments as an annotated line report: "+" for added lines,
// "-" for removed lines and a blank for unchanged lines.
func Render(w io.Writer, segments []Segment, opts RenderOptions) error {
	if !HasChanges(segments) {
		_, err := fmt.Fprintln(w, NoDifference)
		return err
	}

	for idx, s := range segments {
		lines := s.Lines
		if s.Op == Unchanged && opts.Context >= 0 {
			if err := renderContext(w, lines, idx == 0, idx == len(segments)-1, opts); err != nil {
				return err
			}
			continue
		}
		for _, line := range lines {
			if err := writeLine(w, s.Op, line, opts.Color); err != nil {
				return err
			}
		}
	}
	return nil
}

// renderContext prints an unchanged run, eliding the part farther than
// opts.Context lines from a neighbouring change.
func renderContext(w io.Writer, lines []string, first, last bool, opts RenderOptions) error {
	head, tail := opts.Context, opts.Context
	if first {
		head = 0
	}
	if last {
		tail = 0
	}
	if head+tail >= len(lines) {
		for _, line := range lines {
			if err := writeLine(w, Unchanged, line, opts.Color); err != nil {
				return err
			}
		}
		return nil
	}

	for _, line := range lines[:head] {
		if err := writeLine(w, Unchanged, line, opts.Color); err != nil {
			return err
		}
	}
	marker := fmt.Sprintf("@@ %d unchanged lines @@", len(lines)-head-tail)
	if opts.Color {
		marker = elidedStyle.Render(marker)
	}
	if _, err := fmt.Fprintln(w, marker); err != nil {
		return err
	}
	for _, line := range lines[len(lines)-tail:] {
		if err := writeLine(w, Unchanged, line, opts.Color); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(w io.Writer, op Op, line string, color bool) error {
	text := op.Prefix() + line
	if color {
		switch op {
		case Added:
			text = addedStyle.Render(text)
		case Removed:
			text = removedStyle.Render(text)
		}
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

// String renders segments without color and with every unchanged line.
func String(segments []Segment) string {
	var sb strings.Builder
	_ = Render(&sb, segments, RenderOptions{Context: -1})
	return sb.String()
}
