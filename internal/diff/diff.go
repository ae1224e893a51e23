package diff

import (
	"errors"
	"strings"
)

// ErrTooManyLines is returned when either input exceeds the engine's line
// ceiling. The caller is expected to store a full snapshot instead; the
// engine never truncates.
var ErrTooManyLines = errors.New("diff: input exceeds line ceiling")

// DefaultMaxLines bounds the O(n*m) alignment table.
const DefaultMaxLines = 10000

// OpKind tags a single patch operation. The values double as the wire
// prefix bytes, which must stay stable across releases.
type OpKind byte

const (
	OpKeep   OpKind = ' '
	OpDelete OpKind = '-'
	OpInsert OpKind = '+'
)

// Op is one line operation. Keep and Delete consume one base line each;
// Insert emits a new line without consuming base.
type Op struct {
	Kind OpKind
	Line string
}

// Patch is an ordered list of line operations transforming a base text
// into a target text.
type Patch struct {
	Ops []Op
}

// Stats summarizes a patch for display and metrics.
type Stats struct {
	LinesKept     int
	LinesDeleted  int
	LinesInserted int
}

// Stats counts the operations by kind.
func (p *Patch) Stats() Stats {
	var s Stats
	for _, op := range p.Ops {
		switch op.Kind {
		case OpKeep:
			s.LinesKept++
		case OpDelete:
			s.LinesDeleted++
		case OpInsert:
			s.LinesInserted++
		}
	}
	return s
}

// Engine computes line-based patches between two texts.
type Engine struct {
	maxLines int
}

// NewEngine creates an engine with the given line ceiling. A ceiling of
// zero or less uses DefaultMaxLines.
func NewEngine(maxLines int) *Engine {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	return &Engine{maxLines: maxLines}
}

// splitLines splits on "\n" only, so joining with "\n" reproduces the
// input byte for byte, trailing newline included. "a\nb\n" splits into
// ["a", "b", ""] and "a\nb" into ["a", "b"].
func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// Diff computes a minimal-edit line patch from old to new.
//
// Among the minimal alignments it picks the one that keeps the
// earliest-possible lines unchanged: the walk takes a Keep whenever doing
// so preserves optimality. Identical inputs always yield identical
// patches. Cost is O(n*m) in line counts; inputs over the ceiling return
// ErrTooManyLines.
func (e *Engine) Diff(old, new string) (*Patch, error) {
	oldLines := splitLines(old)
	newLines := splitLines(new)

	n, m := len(oldLines), len(newLines)
	if n > e.maxLines || m > e.maxLines {
		return nil, ErrTooManyLines
	}

	// lcs[i][j] holds the LCS length of oldLines[i:] and newLines[j:].
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if oldLines[i] == newLines[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	// Walk from the top, preferring Keep, then Delete over Insert when
	// both are optimal. That keeps deletions ahead of the insertions
	// that replace them.
	ops := make([]Op, 0, n+m)
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case oldLines[i] == newLines[j]:
			ops = append(ops, Op{Kind: OpKeep, Line: oldLines[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			ops = append(ops, Op{Kind: OpDelete, Line: oldLines[i]})
			i++
		default:
			ops = append(ops, Op{Kind: OpInsert, Line: newLines[j]})
			j++
		}
	}
	for ; i < n; i++ {
		ops = append(ops, Op{Kind: OpDelete, Line: oldLines[i]})
	}
	for ; j < m; j++ {
		ops = append(ops, Op{Kind: OpInsert, Line: newLines[j]})
	}

	return &Patch{Ops: ops}, nil
}
