package history

import (
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/ColbyCorcoran/Lyra-sub014/internal/model"
)

// nowFunc is swapped out in retention tests.
var nowFunc = time.Now

const (
	// DefaultSnapshotEvery bounds the worst-case delta chain length.
	DefaultSnapshotEvery = 20
	// DefaultDeltaThreshold is the largest compressed-patch size, as a
	// fraction of the full body, still worth storing as a delta.
	DefaultDeltaThreshold = 0.5
)

// Policy decides snapshot-vs-delta at write time and which versions a
// prune may remove.
type Policy struct {
	// SnapshotEvery forces a full snapshot every K versions.
	SnapshotEvery int
	// DeltaThreshold is the compressed-patch size fraction above which a
	// write falls back to a full snapshot off-schedule.
	DeltaThreshold float64
	// MaxAge prunes versions older than this. Zero disables the age window.
	MaxAge time.Duration
	// MaxCount prunes versions beyond the newest N. Zero disables the count window.
	MaxCount int
}

// DefaultPolicy returns a policy with the stock cadence and threshold and
// pruning disabled.
func DefaultPolicy() Policy {
	return Policy{
		SnapshotEvery:  DefaultSnapshotEvery,
		DeltaThreshold: DefaultDeltaThreshold,
	}
}

func (p Policy) normalized() Policy {
	if p.SnapshotEvery <= 0 {
		p.SnapshotEvery = DefaultSnapshotEvery
	}
	if p.DeltaThreshold <= 0 {
		p.DeltaThreshold = DefaultDeltaThreshold
	}
	return p
}

// ForceSnapshot reports whether version n must be a full snapshot
// regardless of delta eligibility. Version 1 always is, and every
// SnapshotEvery versions after it, so no chain exceeds SnapshotEvery-1
// patches.
func (p Policy) ForceSnapshot(n int64) bool {
	k := int64(p.normalized().SnapshotEvery)
	return n == 1 || (n-1)%k == 0
}

// DeltaWorthwhile reports whether a compressed patch of patchSize bytes is
// small enough, against a full body of fullSize bytes, to store as a
// delta. A large rewrite is cheaper to keep as a snapshot than as a huge
// patch.
func (p Policy) DeltaWorthwhile(patchSize, fullSize int) bool {
	if fullSize == 0 {
		return false
	}
	return float64(patchSize) < p.normalized().DeltaThreshold*float64(fullSize)
}

// Keep computes the version numbers a prune must retain: everything
// inside the age and count windows, the head, and the full base closure
// of every retained delta. A version that is the base of a retained delta
// is never deleted, so every surviving version stays reconstructable.
func (p Policy) Keep(versions []*model.SongVersion, now time.Time) mapset.Set[int64] {
	keep := mapset.NewSet[int64]()
	if len(versions) == 0 {
		return keep
	}

	byNumber := make(map[int64]*model.SongVersion, len(versions))
	var head int64
	for _, v := range versions {
		byNumber[v.VersionNumber] = v
		if v.VersionNumber > head {
			head = v.VersionNumber
		}
	}
	keep.Add(head)

	cutoff := time.Time{}
	if p.MaxAge > 0 {
		cutoff = now.Add(-p.MaxAge)
	}
	for _, v := range versions {
		if !cutoff.IsZero() && v.CreatedAt.Before(cutoff) {
			continue
		}
		keep.Add(v.VersionNumber)
	}

	if p.MaxCount > 0 {
		// walk down from the head; anything past the newest MaxCount drops
		// out of the window unless the closure below pulls it back
		counted := 0
		windowed := mapset.NewSet[int64]()
		for n := head; n >= 1; n-- {
			v, ok := byNumber[n]
			if !ok {
				continue
			}
			if counted < p.MaxCount && keep.Contains(v.VersionNumber) {
				windowed.Add(v.VersionNumber)
				counted++
			}
		}
		windowed.Add(head)
		keep = windowed
	}

	// base closure: every retained delta keeps its whole chain down to a
	// full snapshot
	for _, n := range keep.ToSlice() {
		cur := byNumber[n]
		for cur != nil && cur.IsDelta && cur.BaseVersionNumber != nil {
			base := *cur.BaseVersionNumber
			if keep.Contains(base) {
				break
			}
			keep.Add(base)
			cur = byNumber[base]
		}
	}

	return keep
}
