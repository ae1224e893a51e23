package history

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ColbyCorcoran/Lyra-sub014/internal/cache"
	"github.com/ColbyCorcoran/Lyra-sub014/internal/compress"
	"github.com/ColbyCorcoran/Lyra-sub014/internal/model"
	"github.com/ColbyCorcoran/Lyra-sub014/internal/tester"
)

func TestPolicy_ForceSnapshot(t *testing.T) {
	p := Policy{SnapshotEvery: 2}

	assert.True(t, p.ForceSnapshot(1))
	assert.False(t, p.ForceSnapshot(2))
	assert.True(t, p.ForceSnapshot(3))
	assert.False(t, p.ForceSnapshot(4))
	assert.True(t, p.ForceSnapshot(5))
}

func TestPolicy_ForceSnapshotDefaultCadence(t *testing.T) {
	p := DefaultPolicy()

	assert.True(t, p.ForceSnapshot(1))
	for n := int64(2); n <= int64(DefaultSnapshotEvery); n++ {
		assert.False(t, p.ForceSnapshot(n), "version %d", n)
	}
	assert.True(t, p.ForceSnapshot(int64(DefaultSnapshotEvery)+1))
}

func TestPolicy_DeltaWorthwhile(t *testing.T) {
	p := Policy{DeltaThreshold: 0.5}

	assert.True(t, p.DeltaWorthwhile(40, 100))
	assert.False(t, p.DeltaWorthwhile(50, 100))
	assert.False(t, p.DeltaWorthwhile(90, 100))
	assert.False(t, p.DeltaWorthwhile(10, 0))
}

func deltaOf(base int64) *int64 {
	return &base
}

func TestPolicy_KeepClosure(t *testing.T) {
	now := time.Now()
	versions := []*model.SongVersion{
		{VersionNumber: 1, CreatedAt: now.Add(-5 * time.Hour)},
		{VersionNumber: 2, CreatedAt: now.Add(-4 * time.Hour), IsDelta: true, BaseVersionNumber: deltaOf(1)},
		{VersionNumber: 3, CreatedAt: now.Add(-3 * time.Hour), IsDelta: true, BaseVersionNumber: deltaOf(2)},
		{VersionNumber: 4, CreatedAt: now.Add(-2 * time.Hour)},
		{VersionNumber: 5, CreatedAt: now.Add(-1 * time.Hour), IsDelta: true, BaseVersionNumber: deltaOf(4)},
	}

	p := Policy{MaxAge: 90 * time.Minute}
	keep := p.Keep(versions, now)

	// v5 is in the window; its base v4 rides along; the old chain goes
	assert.True(t, keep.Contains(5))
	assert.True(t, keep.Contains(4))
	assert.False(t, keep.Contains(3))
	assert.False(t, keep.Contains(2))
	assert.False(t, keep.Contains(1))
}

func TestPolicy_KeepChainThroughWindow(t *testing.T) {
	now := time.Now()
	versions := []*model.SongVersion{
		{VersionNumber: 1, CreatedAt: now.Add(-5 * time.Hour)},
		{VersionNumber: 2, CreatedAt: now.Add(-4 * time.Hour), IsDelta: true, BaseVersionNumber: deltaOf(1)},
		{VersionNumber: 3, CreatedAt: now.Add(-30 * time.Minute), IsDelta: true, BaseVersionNumber: deltaOf(2)},
	}

	p := Policy{MaxAge: time.Hour}
	keep := p.Keep(versions, now)

	// the retained delta pulls its whole chain back to the snapshot
	assert.True(t, keep.Contains(3))
	assert.True(t, keep.Contains(2))
	assert.True(t, keep.Contains(1))
}

func TestPolicy_KeepAlwaysRetainsHead(t *testing.T) {
	now := time.Now()
	versions := []*model.SongVersion{
		{VersionNumber: 1, CreatedAt: now.Add(-5 * time.Hour)},
		{VersionNumber: 2, CreatedAt: now.Add(-4 * time.Hour)},
	}

	p := Policy{MaxAge: time.Minute}
	keep := p.Keep(versions, now)

	assert.True(t, keep.Contains(2))
	assert.False(t, keep.Contains(1))
}

func TestPolicy_KeepDisabledWindows(t *testing.T) {
	now := time.Now()
	versions := []*model.SongVersion{
		{VersionNumber: 1, CreatedAt: now.Add(-1000 * time.Hour)},
		{VersionNumber: 2, CreatedAt: now.Add(-999 * time.Hour)},
	}

	keep := DefaultPolicy().Keep(versions, now)
	assert.Equal(t, 2, keep.Cardinality())
}

func TestService_PruneKeepsReconstructable(t *testing.T) {
	tester.Setup()

	opts := Options{
		Algorithm: compress.AlgorithmNone,
		Policy: Policy{
			SnapshotEvery:  2,
			DeltaThreshold: 100,
			MaxCount:       2,
		},
	}
	service, st := newTestService(opts)
	songID := createTestSong(t, service)

	for i := 1; i <= 6; i++ {
		appendContent(t, service, songID, fmt.Sprintf("A\nB%d\nC", i))
	}

	pruned, err := service.Prune(context.TODO(), songID)
	assert.NoError(t, err)
	assert.Equal(t, 4, pruned)

	versions, err := service.ListVersions(context.TODO(), songID)
	assert.NoError(t, err)
	assert.Len(t, versions, 2)

	// the service that wrote the versions has them cached; pruned
	// numbers must still be gone on it, not resurrected from the cache
	for n := int64(1); n <= 4; n++ {
		_, err = service.Reconstruct(context.TODO(), songID, n)
		assert.ErrorIs(t, err, ErrVersionNotFound, "version %d", n)
	}

	// every surviving version still reconstructs from a cold cache
	reader := NewService(st, cache.NewMemory(0), opts)
	for _, v := range versions {
		got, err := reader.Reconstruct(context.TODO(), songID, v.VersionNumber)
		assert.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("A\nB%d\nC", v.VersionNumber), got)
	}

	_, err = reader.Reconstruct(context.TODO(), songID, 2)
	assert.ErrorIs(t, err, ErrVersionNotFound)

	// a second prune is a no-op
	pruned, err = service.Prune(context.TODO(), songID)
	assert.NoError(t, err)
	assert.Equal(t, 0, pruned)
}
