package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/ColbyCorcoran/Lyra-sub014/internal/model"
)

type Store interface {
	SongStore
	SongVersionStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

type SongStore interface {
	// CreateSong creates a new song.
	CreateSong(ctx context.Context, song *model.Song) error
	// GetSong retrieves a song by ID.
	GetSong(ctx context.Context, id uuid.UUID) (*model.Song, error)
	// ListSongs retrieves all songs.
	ListSongs(ctx context.Context) ([]*model.Song, error)
	// UpdateSong updates a song head row.
	UpdateSong(ctx context.Context, song *model.Song) error
	// DeleteSong deletes a song and cascades to its versions.
	DeleteSong(ctx context.Context, id uuid.UUID) error
}

type SongVersionStore interface {
	// CreateSongVersion appends a version row. Rows are immutable after this.
	CreateSongVersion(ctx context.Context, version *model.SongVersion) error
	// GetSongVersion retrieves one version, payload included.
	GetSongVersion(ctx context.Context, songID uuid.UUID, number int64) (*model.SongVersion, error)
	// ListSongVersions retrieves version metadata newest first, payloads omitted.
	ListSongVersions(ctx context.Context, songID uuid.UUID) ([]*model.SongVersion, error)
	// ListSongVersionsAsc retrieves version metadata oldest first, payloads omitted.
	ListSongVersionsAsc(ctx context.Context, songID uuid.UUID) ([]*model.SongVersion, error)
	// HeadVersionNumber returns the highest version number for a song, 0 if none.
	HeadVersionNumber(ctx context.Context, songID uuid.UUID) (int64, error)
	// DeleteSongVersions deletes the given version numbers of a song.
	DeleteSongVersions(ctx context.Context, songID uuid.UUID, numbers []int64) error
}
