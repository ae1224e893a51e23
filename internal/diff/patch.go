package diff

import (
	"errors"
	"strings"
)

// ErrCorruptPatch is returned when a patch cannot be decoded, or when
// applying it runs past the end of the base text or leaves part of the
// base unconsumed. Reconstruction failure is always surfaced, never
// papered over with a truncated result.
var ErrCorruptPatch = errors.New("diff: corrupt patch")

// Encode renders the patch in its stable wire format: one record per
// line operation, prefixed with '+', '-' or ' ', records joined by
// newlines. The format is part of the persisted contract.
func (p *Patch) Encode() []byte {
	var sb strings.Builder
	for i, op := range p.Ops {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteByte(byte(op.Kind))
		sb.WriteString(op.Line)
	}
	return []byte(sb.String())
}

// Decode parses a wire-format patch. Any record without a valid prefix
// is ErrCorruptPatch.
func Decode(data []byte) (*Patch, error) {
	records := strings.Split(string(data), "\n")
	ops := make([]Op, 0, len(records))
	for _, rec := range records {
		if len(rec) == 0 {
			return nil, ErrCorruptPatch
		}
		kind := OpKind(rec[0])
		switch kind {
		case OpKeep, OpDelete, OpInsert:
			ops = append(ops, Op{Kind: kind, Line: rec[1:]})
		default:
			return nil, ErrCorruptPatch
		}
	}
	return &Patch{Ops: ops}, nil
}

// Apply replays the patch against a base text and returns the target
// text. Keep and Delete each consume one base line; consuming past the
// end of the base, or finishing with base lines left over, is
// ErrCorruptPatch.
func Apply(base string, p *Patch) (string, error) {
	baseLines := splitLines(base)
	out := make([]string, 0, len(p.Ops))
	cursor := 0

	for _, op := range p.Ops {
		switch op.Kind {
		case OpKeep:
			if cursor >= len(baseLines) {
				return "", ErrCorruptPatch
			}
			out = append(out, baseLines[cursor])
			cursor++
		case OpDelete:
			if cursor >= len(baseLines) {
				return "", ErrCorruptPatch
			}
			cursor++
		case OpInsert:
			out = append(out, op.Line)
		default:
			return "", ErrCorruptPatch
		}
	}

	if cursor != len(baseLines) {
		return "", ErrCorruptPatch
	}

	return joinLines(out), nil
}
