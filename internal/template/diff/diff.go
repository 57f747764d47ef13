// Package diff compares two template snapshots.
//
// Both snapshots are serialized as indented JSON after JSON-typed values are
// minified, then compared line by line. encoding/json sorts map keys, so the
// order in which parameters were listed or fetched never shows up as a change.
package diff

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tacogips/rcsync/internal/template/codec"
	"github.com/tacogips/rcsync/internal/template/model"
)

// Op tags a segment.
type Op int

const (
	// Unchanged lines appear in both snapshots.
	Unchanged Op = iota
	// Added lines appear only in the new snapshot.
	Added
	// Removed lines appear only in the old snapshot.
	Removed
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Prefix returns the rendering prefix of the operation.
func (o Op) Prefix() string {
	switch o {
	case Added:
		return "+"
	case Removed:
		return "-"
	default:
		return " "
	}
}

// Segment is a run of consecutive lines with the same operation.
type Segment struct {
	Op    Op
	Lines []string
}

// Text returns the literal block the segment represents.
func (s Segment) Text() string {
	return strings.Join(s.Lines, "\n")
}

// Diff computes the structural diff from old to new. Neither input is modified.
func Diff(old, new *model.Template) ([]Segment, error) {
	oldLines, err := documentLines(old)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize old template: %w", err)
	}
	newLines, err := documentLines(new)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize new template: %w", err)
	}
	return diffLines(oldLines, newLines), nil
}

// HasChanges reports whether any segment is added or removed.
func HasChanges(segments []Segment) bool {
	for _, s := range segments {
		if s.Op != Unchanged {
			return true
		}
	}
	return false
}

// Stats counts added and removed lines.
func Stats(segments []Segment) (added, removed int) {
	for _, s := range segments {
		switch s.Op {
		case Added:
			added += len(s.Lines)
		case Removed:
			removed += len(s.Lines)
		}
	}
	return added, removed
}

// documentLines serializes a normalized copy of t.
func documentLines(t *model.Template) ([]string, error) {
	if t == nil {
		t = &model.Template{}
	}
	data, err := json.MarshalIndent(normalize(t), "", "  ")
	if err != nil {
		return nil, err
	}
	return strings.Split(string(data), "\n"), nil
}

// normalize returns a copy of t whose JSON-typed value strings are minified.
// Strings that do not parse are kept as they are so a broken remote value
// still shows up in the diff instead of failing it.
func normalize(t *model.Template) *model.Template {
	out := t.Clone()
	for _, p := range out.Parameters {
		normalizeParameter(p)
	}
	for _, g := range out.ParameterGroups {
		if g == nil {
			continue
		}
		for _, p := range g.Parameters {
			normalizeParameter(p)
		}
	}
	return out
}

func normalizeParameter(p *model.Parameter) {
	if !p.IsJSON() {
		return
	}
	_ = codec.VisitStrings(p, func(_ codec.Slot, s *string) error {
		if minified, err := codec.MinifyJSON(*s); err == nil {
			*s = minified
		}
		return nil
	})
}

// diffLines produces segments from a shortest edit script between old and
// new. Lines are interned first so the search compares ints.
func diffLines(old, new []string) []Segment {
	ids := make(map[string]int, len(old))
	intern := func(lines []string) []int {
		out := make([]int, len(lines))
		for i, line := range lines {
			id, ok := ids[line]
			if !ok {
				id = len(ids)
				ids[line] = id
			}
			out[i] = id
		}
		return out
	}

	s := &script{
		a:       intern(old),
		b:       intern(new),
		removed: make([]bool, len(old)),
		added:   make([]bool, len(new)),
	}
	s.compare(0, len(old), 0, len(new))

	// Walk both sides, emitting removals before additions at each change.
	var b builder
	i, j := 0, 0
	for i < len(old) || j < len(new) {
		switch {
		case i < len(old) && s.removed[i]:
			b.add(Removed, old[i])
			i++
		case j < len(new) && s.added[j]:
			b.add(Added, new[j])
			j++
		default:
			b.add(Unchanged, old[i])
			i++
			j++
		}
	}
	return b.segments
}

// script marks the lines of a removed and of b added by a minimal edit
// script. It follows Myers' divide and conquer over the middle snake, which
// needs memory linear in the input.
type script struct {
	a, b    []int
	removed []bool
	added   []bool
}

// compare marks the edits turning a[aLo:aHi] into b[bLo:bHi].
func (s *script) compare(aLo, aHi, bLo, bHi int) {
	for aLo < aHi && bLo < bHi && s.a[aLo] == s.b[bLo] {
		aLo++
		bLo++
	}
	for aLo < aHi && bLo < bHi && s.a[aHi-1] == s.b[bHi-1] {
		aHi--
		bHi--
	}

	switch {
	case aLo == aHi:
		for j := bLo; j < bHi; j++ {
			s.added[j] = true
		}
	case bLo == bHi:
		for i := aLo; i < aHi; i++ {
			s.removed[i] = true
		}
	default:
		x, y, ok := s.bisect(aLo, aHi, bLo, bHi)
		if !ok {
			for i := aLo; i < aHi; i++ {
				s.removed[i] = true
			}
			for j := bLo; j < bHi; j++ {
				s.added[j] = true
			}
			return
		}
		s.compare(aLo, x, bLo, y)
		s.compare(x, aHi, y, bHi)
	}
}

// bisect finds a point on a shortest edit path where the forward and reverse
// searches meet. ok is false when the ranges share no line at all.
func (s *script) bisect(aLo, aHi, bLo, bHi int) (x, y int, ok bool) {
	n, m := aHi-aLo, bHi-bLo
	maxD := (n + m + 1) / 2
	offset := maxD
	size := 2*maxD + 2
	forward := make([]int, size)
	reverse := make([]int, size)
	for i := range forward {
		forward[i] = -1
		reverse[i] = -1
	}
	forward[offset+1] = 0
	reverse[offset+1] = 0

	delta := n - m
	odd := delta%2 != 0
	// Diagonals that ran off the grid are skipped on later rounds.
	fStart, fEnd, rStart, rEnd := 0, 0, 0, 0

	for d := 0; d < maxD; d++ {
		for k := -d + fStart; k <= d-fEnd; k += 2 {
			i := offset + k
			var x1 int
			if k == -d || (k != d && forward[i-1] < forward[i+1]) {
				x1 = forward[i+1]
			} else {
				x1 = forward[i-1] + 1
			}
			y1 := x1 - k
			for x1 < n && y1 < m && s.a[aLo+x1] == s.b[bLo+y1] {
				x1++
				y1++
			}
			forward[i] = x1

			switch {
			case x1 > n:
				fEnd += 2
			case y1 > m:
				fStart += 2
			case odd:
				ri := offset + delta - k
				if ri >= 0 && ri < size && reverse[ri] != -1 && x1 >= n-reverse[ri] {
					return aLo + x1, bLo + y1, true
				}
			}
		}

		for k := -d + rStart; k <= d-rEnd; k += 2 {
			i := offset + k
			var x2 int
			if k == -d || (k != d && reverse[i-1] < reverse[i+1]) {
				x2 = reverse[i+1]
			} else {
				x2 = reverse[i-1] + 1
			}
			y2 := x2 - k
			for x2 < n && y2 < m && s.a[aHi-1-x2] == s.b[bHi-1-y2] {
				x2++
				y2++
			}
			reverse[i] = x2

			switch {
			case x2 > n:
				rEnd += 2
			case y2 > m:
				rStart += 2
			case !odd:
				fi := offset + delta - k
				if fi >= 0 && fi < size && forward[fi] != -1 {
					x1 := forward[fi]
					y1 := x1 - (delta - k)
					if x1 >= n-x2 {
						return aLo + x1, bLo + y1, true
					}
				}
			}
		}
	}
	return 0, 0, false
}

// builder appends lines, merging runs with the same operation.
type builder struct {
	segments []Segment
}

func (b *builder) add(op Op, lines ...string) {
	if len(lines) == 0 {
		return
	}
	if n := len(b.segments); n > 0 && b.segments[n-1].Op == op {
		b.segments[n-1].Lines = append(b.segments[n-1].Lines, lines...)
		return
	}
	b.segments = append(b.segments, Segment{Op: op, Lines: append([]string(nil), lines...)})
}
