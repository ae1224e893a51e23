package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatch_WireFormat(t *testing.T) {
	patch := &Patch{Ops: []Op{
		{Kind: OpKeep, Line: "A"},
		{Kind: OpDelete, Line: "B"},
		{Kind: OpInsert, Line: "B2"},
		{Kind: OpKeep, Line: "C"},
	}}

	wire := patch.Encode()
	assert.Equal(t, " A\n-B\n+B2\n C", string(wire))

	decoded, err := Decode(wire)
	assert.NoError(t, err)
	assert.Equal(t, patch.Ops, decoded.Ops)
}

func TestPatch_WireFormatEmptyLines(t *testing.T) {
	patch := &Patch{Ops: []Op{
		{Kind: OpKeep, Line: ""},
		{Kind: OpInsert, Line: ""},
	}}

	wire := patch.Encode()
	assert.Equal(t, " \n+", string(wire))

	decoded, err := Decode(wire)
	assert.NoError(t, err)
	assert.Equal(t, patch.Ops, decoded.Ops)
}

func TestDecode_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		wire string
	}{
		{name: "empty record", wire: " A\n\n B"},
		{name: "unknown prefix", wire: " A\n*B"},
		{name: "empty blob", wire: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.wire))
			assert.ErrorIs(t, err, ErrCorruptPatch)
		})
	}
}

func TestApply_CorruptPatch(t *testing.T) {
	t.Run("keep past end of base", func(t *testing.T) {
		patch := &Patch{Ops: []Op{
			{Kind: OpKeep, Line: "A"},
			{Kind: OpKeep, Line: "B"},
		}}
		_, err := Apply("A", patch)
		assert.ErrorIs(t, err, ErrCorruptPatch)
	})

	t.Run("delete past end of base", func(t *testing.T) {
		patch := &Patch{Ops: []Op{
			{Kind: OpKeep, Line: "A"},
			{Kind: OpDelete, Line: "B"},
		}}
		_, err := Apply("A", patch)
		assert.ErrorIs(t, err, ErrCorruptPatch)
	})

	t.Run("unconsumed base lines", func(t *testing.T) {
		patch := &Patch{Ops: []Op{
			{Kind: OpKeep, Line: "A"},
		}}
		_, err := Apply("A\nB", patch)
		assert.ErrorIs(t, err, ErrCorruptPatch)
	})

	t.Run("truncated wire patch leaves base unconsumed", func(t *testing.T) {
		engine := NewEngine(0)
		patch, err := engine.Diff("A\nB\nC", "A\nB2\nC")
		assert.NoError(t, err)

		wire := patch.Encode()
		truncated, err := Decode(wire[:2])
		assert.NoError(t, err)

		_, err = Apply("A\nB\nC", truncated)
		assert.ErrorIs(t, err, ErrCorruptPatch)
	})
}

func TestApply_InsertOnly(t *testing.T) {
	patch := &Patch{Ops: []Op{
		{Kind: OpDelete, Line: ""},
		{Kind: OpInsert, Line: "A"},
		{Kind: OpInsert, Line: "B"},
	}}

	got, err := Apply("", patch)
	assert.NoError(t, err)
	assert.Equal(t, "A\nB", got)
}
