package history

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/ColbyCorcoran/Lyra-sub014/internal/cache"
	"github.com/ColbyCorcoran/Lyra-sub014/internal/compress"
	"github.com/ColbyCorcoran/Lyra-sub014/internal/diff"
	"github.com/ColbyCorcoran/Lyra-sub014/internal/model"
	"github.com/ColbyCorcoran/Lyra-sub014/internal/store"
)

// Author identifies who produced a version.
type Author struct {
	ID   string
	Name string
}

// AppendRequest carries one save into the history.
type AppendRequest struct {
	SongID      uuid.UUID
	Content     string
	Meta        model.ChartMeta
	Author      Author
	Type        string
	Description string
	// ExpectedHead is the head version number the caller last saw. The
	// append fails with ErrVersionNumberConflict if the head has moved.
	// Pass -1 to skip the check.
	ExpectedHead int64
}

// Options configures a Service.
type Options struct {
	// Algorithm is the compression tag for new payloads.
	Algorithm string
	// MaxDiffLines is the diff engine's line ceiling; larger inputs are
	// stored as full snapshots.
	MaxDiffLines int
	Policy       Policy
}

// NewService creates the version history service.
func NewService(st store.Store, snapshots cache.SnapshotCache, opts Options) *Service {
	if opts.Algorithm == "" {
		opts.Algorithm = compress.AlgorithmGZip
	}
	if snapshots == nil {
		snapshots = cache.NewMemory(0)
	}
	return &Service{
		store:     st,
		snapshots: snapshots,
		policy:    opts.Policy.normalized(),
		engine:    diff.NewEngine(opts.MaxDiffLines),
		algorithm: opts.Algorithm,
		locks:     make(map[uuid.UUID]*sync.Mutex),
	}
}

// Service owns the append-only version chain per song. Appends serialize
// per song; reads run concurrently and never observe a half-written
// version.
type Service struct {
	store     store.Store
	snapshots cache.SnapshotCache
	policy    Policy
	engine    *diff.Engine
	algorithm string

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// lockSong serializes version-number assignment for one song.
func (s *Service) lockSong(id uuid.UUID) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func mapSongErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrSongNotFound
	}
	return err
}

// encode compresses data with the configured algorithm. On failure the
// payload is stored uncompressed under the "none" tag; a save is never
// lost to a codec error.
func (s *Service) encode(data []byte) ([]byte, string) {
	codec, err := compress.ByAlgorithm(s.algorithm)
	if err == nil {
		encoded, encErr := codec.Encode(data)
		if encErr == nil {
			return encoded, s.algorithm
		}
		err = encErr
	}
	logrus.Warnf("compression with %s failed, storing uncompressed: %v", s.algorithm, err)
	return data, compress.AlgorithmNone
}

func decodePayload(data []byte, algorithm string) ([]byte, error) {
	codec, err := compress.ByAlgorithm(algorithm)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompressionFailure, err)
	}
	decoded, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompressionFailure, err)
	}
	return decoded, nil
}

// CreateSong creates the song head with an empty body and no versions.
// The first append becomes version 1.
func (s *Service) CreateSong(ctx context.Context, id uuid.UUID, meta model.ChartMeta) (*model.Song, error) {
	if id == uuid.Nil {
		id = uuid.New()
	}
	song := &model.Song{
		ID:          id.String(),
		ChartMeta:   meta,
		Content:     nil,
		Compression: compress.AlgorithmNone,
	}
	if err := s.store.CreateSong(ctx, song); err != nil {
		return nil, err
	}
	return song, nil
}

// GetSong returns the song head.
func (s *Service) GetSong(ctx context.Context, id uuid.UUID) (*model.Song, error) {
	song, err := s.store.GetSong(ctx, id)
	if err != nil {
		return nil, mapSongErr(err)
	}
	return song, nil
}

// ListSongs returns all song heads.
func (s *Service) ListSongs(ctx context.Context) ([]*model.Song, error) {
	return s.store.ListSongs(ctx)
}

// DeleteSong removes a song and its whole history, evicting any cached
// bodies so a later song reusing the id cannot see them.
func (s *Service) DeleteSong(ctx context.Context, id uuid.UUID) error {
	unlock := s.lockSong(id)
	defer unlock()

	versions, err := s.store.ListSongVersionsAsc(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteSong(ctx, id); err != nil {
		return err
	}

	for _, v := range versions {
		s.snapshots.Delete(ctx, id, v.VersionNumber)
	}

	s.mu.Lock()
	delete(s.locks, id)
	s.mu.Unlock()
	return nil
}

// AppendVersion records one save as the next version of the song. The
// policy decides snapshot vs delta; version numbers are assigned here,
// never by the caller, and read-head plus write-version run as one
// atomic unit.
func (s *Service) AppendVersion(ctx context.Context, req AppendRequest) (*model.SongVersion, error) {
	if req.Type == "" {
		req.Type = model.VersionTypeManual
	}
	if !model.ValidVersionType(req.Type) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVersionType, req.Type)
	}

	defer s.lockSong(req.SongID)()

	var version *model.SongVersion
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		song, err := tx.GetSong(ctx, req.SongID)
		if err != nil {
			return mapSongErr(err)
		}

		// the version rows are the authoritative head; the head row's
		// counter is a cache of it
		head, err := tx.HeadVersionNumber(ctx, req.SongID)
		if err != nil {
			return err
		}
		if head != song.CurrentVersion {
			logrus.Warnf("song %s head row says v%d but version rows reach v%d", song.ID, song.CurrentVersion, head)
		}

		if req.ExpectedHead >= 0 && req.ExpectedHead != head {
			return fmt.Errorf("%w: expected %d, head is %d", ErrVersionNumberConflict, req.ExpectedHead, head)
		}
		next := head + 1

		version = &model.SongVersion{
			SongID:            song.ID,
			VersionNumber:     next,
			ChartMeta:         req.Meta,
			AuthorID:          req.Author.ID,
			AuthorName:        req.Author.Name,
			VersionType:       req.Type,
			ChangeDescription: req.Description,
		}

		raw := []byte(req.Content)
		// a delta is only safe when the head body really is the head
		// version; on drift the write degrades to a full snapshot
		if !s.policy.ForceSnapshot(next) && song.CurrentVersion == head {
			if patchRaw, ok := s.tryDelta(song, req.Content); ok {
				version.IsDelta = true
				base := head
				version.BaseVersionNumber = &base
				raw = patchRaw
			}
		}

		payload, algorithm := s.encode(raw)
		if version.IsDelta && !s.policy.DeltaWorthwhile(len(payload), len(req.Content)) {
			// the compressed patch is not worth it, store the body instead
			version.IsDelta = false
			version.BaseVersionNumber = nil
			raw = []byte(req.Content)
			payload, algorithm = s.encode(raw)
		}

		version.Payload = payload
		version.Compression = algorithm
		version.UncompressedSize = int64(len(raw))
		version.StorageSize = int64(len(payload))

		if err := tx.CreateSongVersion(ctx, version); err != nil {
			return err
		}

		body, bodyAlgorithm := s.encode([]byte(req.Content))
		song.ChartMeta = req.Meta
		song.Content = body
		song.Compression = bodyAlgorithm
		song.CurrentVersion = next
		return tx.UpdateSong(ctx, song)
	})
	if err != nil {
		return nil, err
	}

	s.snapshots.Set(ctx, req.SongID, version.VersionNumber, req.Content)
	return version, nil
}

// tryDelta diffs the new content against the current head body. It
// returns the encoded patch, or ok=false when the song has no versions
// yet, the head body cannot be read, or the diff exceeds the line
// ceiling.
func (s *Service) tryDelta(song *model.Song, content string) ([]byte, bool) {
	if song.CurrentVersion == 0 {
		return nil, false
	}

	base, err := decodePayload(song.Content, song.Compression)
	if err != nil {
		logrus.Warnf("song %s head body unreadable, writing full snapshot: %v", song.ID, err)
		return nil, false
	}

	patch, err := s.engine.Diff(string(base), content)
	if err != nil {
		if !errors.Is(err, diff.ErrTooManyLines) {
			logrus.Warnf("song %s diff failed, writing full snapshot: %v", song.ID, err)
		}
		return nil, false
	}

	return patch.Encode(), true
}

// Reconstruct returns the body text of one version, walking the delta
// chain back to the nearest full snapshot when needed.
func (s *Service) Reconstruct(ctx context.Context, songID uuid.UUID, number int64) (string, error) {
	if _, err := s.store.GetSong(ctx, songID); err != nil {
		return "", mapSongErr(err)
	}
	return s.reconstruct(ctx, songID, number, make(map[int64]string))
}

// ReconstructRange reconstructs a contiguous range of versions, sharing
// intermediate results so the chain is walked once rather than per
// version.
func (s *Service) ReconstructRange(ctx context.Context, songID uuid.UUID, from, to int64) (map[int64]string, error) {
	if from > to {
		from, to = to, from
	}
	if _, err := s.store.GetSong(ctx, songID); err != nil {
		return nil, mapSongErr(err)
	}

	memo := make(map[int64]string)
	out := make(map[int64]string, to-from+1)
	for n := from; n <= to; n++ {
		text, err := s.reconstruct(ctx, songID, n, memo)
		if err != nil {
			return nil, fmt.Errorf("version %d: %w", n, err)
		}
		out[n] = text
	}
	return out, nil
}

/// reconstruct walks the base chain iteratively: back from the target to
// the nearest full snapshot (or memoized body), then forward through the
// patch applier. The memo is per call; the snapshot cache persists
// across calls.
func (s *Service) reconstruct(ctx context.Context, songID uuid.UUID, number int64, memo map[int64]string) (string, error) {
	if text, ok := memo[number]; ok {
		return text, nil
	}

	// the target row is fetched before the cache is consulted, so a
	// pruned version can never be served from a stale entry
	target, err := s.store.GetSongVersion(ctx, songID, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrVersionNotFound
		}
		return "", err
	}

	if text, ok := s.snapshots.Get(ctx, songID, number); ok {
		memo[number] = text
		return text, nil
	}

	// walk backward collecting deltas until a snapshot or a known body
	var deltas []*model.SongVersion
	var text string
	cur := target
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if !cur.IsDelta {
			body, err := decodePayload(cur.Payload, cur.Compression)
			if err != nil {
				return "", fmt.Errorf("version %d: %w", cur.VersionNumber, err)
			}
			text = string(body)
			memo[cur.VersionNumber] = text
			break
		}

		if cur.BaseVersionNumber == nil {
			return "", fmt.Errorf("version %d: %w", cur.VersionNumber, ErrMissingBaseVersion)
		}
		baseNumber := *cur.BaseVersionNumber
		deltas = append(deltas, cur)

		if t, ok := memo[baseNumber]; ok {
			text = t
			break
		}
		if t, ok := s.snapshots.Get(ctx, songID, baseNumber); ok {
			memo[baseNumber] = t
			text = t
			break
		}

		base, err := s.store.GetSongVersion(ctx, songID, baseNumber)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", fmt.Errorf("version %d base %d: %w", cur.VersionNumber, baseNumber, ErrMissingBaseVersion)
			}
			return "", err
		}
		cur = base
	}

	// replay forward, oldest to newest
	for i := len(deltas) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		d := deltas[i]
		raw, err := decodePayload(d.Payload, d.Compression)
		if err != nil {
			return "", fmt.Errorf("version %d: %w", d.VersionNumber, err)
		}
		patch, err := diff.Decode(raw)
		if err != nil {
			return "", fmt.Errorf("version %d: %w", d.VersionNumber, err)
		}
		text, err = diff.Apply(text, patch)
		if err != nil {
			return "", fmt.Errorf("version %d: %w", d.VersionNumber, err)
		}
		memo[d.VersionNumber] = text
	}

	s.snapshots.Set(ctx, songID, number, text)
	return text, nil
}

// Restore appends a new version whose content and metadata equal the
// requested past version. History is never rewritten; the restore is a
// forward entry of type "restore".
func (s *Service) Restore(ctx context.Context, songID uuid.UUID, number int64, author Author) (*model.SongVersion, error) {
	content, err := s.Reconstruct(ctx, songID, number)
	if err != nil {
		return nil, err
	}

	past, err := s.store.GetSongVersion(ctx, songID, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, err
	}

	return s.AppendVersion(ctx, AppendRequest{
		SongID:       songID,
		Content:      content,
		Meta:         past.ChartMeta,
		Author:       author,
		Type:         model.VersionTypeRestore,
		Description:  fmt.Sprintf("restored from version %d", number),
		ExpectedHead: -1,
	})
}

// ListVersions returns version metadata newest first. Payloads are not
// loaded and nothing is decompressed.
func (s *Service) ListVersions(ctx context.Context, songID uuid.UUID) ([]*model.SongVersion, error) {
	if _, err := s.store.GetSong(ctx, songID); err != nil {
		return nil, mapSongErr(err)
	}
	return s.store.ListSongVersions(ctx, songID)
}

// DiffVersions renders a readable unified diff between two versions.
func (s *Service) DiffVersions(ctx context.Context, songID uuid.UUID, a, b int64) (string, error) {
	if _, err := s.store.GetSong(ctx, songID); err != nil {
		return "", mapSongErr(err)
	}

	memo := make(map[int64]string)
	oldText, err := s.reconstruct(ctx, songID, a, memo)
	if err != nil {
		return "", fmt.Errorf("version %d: %w", a, err)
	}
	newText, err := s.reconstruct(ctx, songID, b, memo)
	if err != nil {
		return "", fmt.Errorf("version %d: %w", b, err)
	}

	return diff.Unified(fmt.Sprintf("v%d", a), fmt.Sprintf("v%d", b), oldText, newText), nil
}

// Prune deletes versions outside the retention window. The policy keeps
// the head, everything in the window, and the base closure of every
// retained delta, so no surviving version loses its chain.
func (s *Service) Prune(ctx context.Context, songID uuid.UUID) (int, error) {
	defer s.lockSong(songID)()

	var removed []int64
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := tx.GetSong(ctx, songID); err != nil {
			return mapSongErr(err)
		}

		versions, err := tx.ListSongVersionsAsc(ctx, songID)
		if err != nil {
			return err
		}

		keep := s.policy.Keep(versions, nowFunc())
		removed = removed[:0]
		for _, v := range versions {
			if !keep.Contains(v.VersionNumber) {
				removed = append(removed, v.VersionNumber)
			}
		}
		if len(removed) == 0 {
			return nil
		}

		return tx.DeleteSongVersions(ctx, songID, removed)
	})
	if err != nil {
		return 0, err
	}

	// evict pruned bodies so the cache cannot resurrect them
	for _, n := range removed {
		s.snapshots.Delete(ctx, songID, n)
	}

	if len(removed) > 0 {
		logrus.Infof("pruned %d versions of song %s", len(removed), songID)
	}
	return len(removed), nil
}

// CompressionRatio reports the storage saving of a version as a
// percentage of its uncompressed payload size.
func CompressionRatio(v *model.SongVersion) float64 {
	if v.UncompressedSize == 0 {
		return 0
	}
	return (1 - float64(v.StorageSize)/float64(v.UncompressedSize)) * 100
}
