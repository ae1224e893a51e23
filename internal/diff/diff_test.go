package diff

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngine_RoundTrip(t *testing.T) {
	engine := NewEngine(0)

	tests := []struct {
		name string
		old  string
		new  string
	}{
		{name: "identical", old: "A\nB\nC", new: "A\nB\nC"},
		{name: "single line edit", old: "A\nB\nC", new: "A\nB2\nC"},
		{name: "insert at top", old: "B\nC", new: "A\nB\nC"},
		{name: "insert at bottom", old: "A\nB", new: "A\nB\nC"},
		{name: "delete in middle", old: "A\nB\nC", new: "A\nC"},
		{name: "full rewrite", old: "A\nB\nC", new: "X\nY"},
		{name: "gain trailing newline", old: "A\nB", new: "A\nB\n"},
		{name: "lose trailing newline", old: "A\nB\n", new: "A\nB"},
		{name: "empty to content", old: "", new: "A\nB"},
		{name: "content to empty", old: "A\nB", new: ""},
		{name: "both empty", old: "", new: ""},
		{name: "blank lines", old: "A\n\n\nB", new: "A\n\nB"},
		{name: "lines matching wire prefixes", old: "+A\n-B\n C", new: "+A\n C"},
		{name: "repeated lines", old: "A\nA\nA", new: "A\nA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch, err := engine.Diff(tt.old, tt.new)
			assert.NoError(t, err)

			got, err := Apply(tt.old, patch)
			assert.NoError(t, err)
			assert.Equal(t, tt.new, got)
		})
	}
}

func TestEngine_Deterministic(t *testing.T) {
	engine := NewEngine(0)

	old := "A\nB\nC\nD\nE"
	new := "A\nC\nB\nD\nF"

	first, err := engine.Diff(old, new)
	assert.NoError(t, err)
	second, err := engine.Diff(old, new)
	assert.NoError(t, err)

	assert.True(t, bytes.Equal(first.Encode(), second.Encode()))
}

func TestEngine_KeepsEarliestLines(t *testing.T) {
	engine := NewEngine(0)

	// two minimal alignments exist; the earliest "A" must be the kept one
	patch, err := engine.Diff("A\nX\nA", "A\nA")
	assert.NoError(t, err)

	assert.Equal(t, []Op{
		{Kind: OpKeep, Line: "A"},
		{Kind: OpDelete, Line: "X"},
		{Kind: OpKeep, Line: "A"},
	}, patch.Ops)
}

func TestEngine_DeletesBeforeInserts(t *testing.T) {
	engine := NewEngine(0)

	patch, err := engine.Diff("A\nB\nC", "A\nB2\nC")
	assert.NoError(t, err)

	assert.Equal(t, []Op{
		{Kind: OpKeep, Line: "A"},
		{Kind: OpDelete, Line: "B"},
		{Kind: OpInsert, Line: "B2"},
		{Kind: OpKeep, Line: "C"},
	}, patch.Ops)
}

func TestEngine_LineCeiling(t *testing.T) {
	engine := NewEngine(3)

	big := strings.Repeat("la\n", 10)
	_, err := engine.Diff("A", big)
	assert.ErrorIs(t, err, ErrTooManyLines)

	_, err = engine.Diff(big, "A")
	assert.ErrorIs(t, err, ErrTooManyLines)
}

func TestPatch_Stats(t *testing.T) {
	engine := NewEngine(0)

	patch, err := engine.Diff("A\nB\nC", "A\nB2\nC")
	assert.NoError(t, err)

	stats := patch.Stats()
	assert.Equal(t, 2, stats.LinesKept)
	assert.Equal(t, 1, stats.LinesDeleted)
	assert.Equal(t, 1, stats.LinesInserted)
}

func TestUnified(t *testing.T) {
	out := Unified("v1", "v2", "A\nB\nC\n", "A\nB2\nC\n")

	assert.True(t, strings.HasPrefix(out, "--- v1\n+++ v2\n"))
	assert.Contains(t, out, "-B\n")
	assert.Contains(t, out, "+B2\n")
}

func BenchmarkEngine_Diff(b *testing.B) {
	engine := NewEngine(0)

	var old, new strings.Builder
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&old, "line %d\n", i)
		if i == 250 {
			new.WriteString("changed line\n")
			continue
		}
		fmt.Fprintf(&new, "line %d\n", i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = engine.Diff(old.String(), new.String())
	}
}
