package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ColbyCorcoran/Lyra-sub014/internal/model"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

// metadataColumns is everything except the payload blob, for the
// lightweight listing paths.
var metadataColumns = []string{
	"song_id", "version_number", "created_at",
	"title", "content_format", "key", "tempo", "time_signature", "capo", "notes", "tags",
	"author_id", "author_name", "version_type", "change_description",
	"is_delta", "base_version_number", "compression",
	"uncompressed_size", "storage_size",
}

func (g *GormStore) CreateSong(ctx context.Context, song *model.Song) error {
	return g.db.WithContext(ctx).Create(song).Error
}

func (g *GormStore) GetSong(ctx context.Context, id uuid.UUID) (*model.Song, error) {
	var song model.Song
	err := g.db.WithContext(ctx).Where("id = ?", id.String()).First(&song).Error
	if err != nil {
		return nil, err
	}
	return &song, nil
}

func (g *GormStore) ListSongs(ctx context.Context) ([]*model.Song, error) {
	var songs []*model.Song
	err := g.db.WithContext(ctx).Order("updated_at desc").Find(&songs).Error
	return songs, err
}

func (g *GormStore) UpdateSong(ctx context.Context, song *model.Song) error {
	return g.db.WithContext(ctx).Save(song).Error
}

// DeleteSong removes the song head and cascades to every version row.
// The cascade is explicit store-side work, not a foreign-key side effect.
func (g *GormStore) DeleteSong(ctx context.Context, id uuid.UUID) error {
	return g.Transaction(ctx, func(tx Store) error {
		gtx := tx.(*GormStore)
		if err := gtx.db.Where("song_id = ?", id.String()).Delete(&model.SongVersion{}).Error; err != nil {
			return err
		}
		// hard delete, so the id can be reused by a later song
		return gtx.db.Unscoped().Where("id = ?", id.String()).Delete(&model.Song{}).Error
	})
}

func (g *GormStore) CreateSongVersion(ctx context.Context, version *model.SongVersion) error {
	return g.db.WithContext(ctx).Create(version).Error
}

func (g *GormStore) GetSongVersion(ctx context.Context, songID uuid.UUID, number int64) (*model.SongVersion, error) {
	var version model.SongVersion
	err := g.db.WithContext(ctx).
		Where("song_id = ? AND version_number = ?", songID.String(), number).
		First(&version).Error
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (g *GormStore) ListSongVersions(ctx context.Context, songID uuid.UUID) ([]*model.SongVersion, error) {
	var versions []*model.SongVersion
	err := g.db.WithContext(ctx).
		Select(metadataColumns).
		Where("song_id = ?", songID.String()).
		Order("version_number desc").
		Find(&versions).Error
	return versions, err
}

func (g *GormStore) ListSongVersionsAsc(ctx context.Context, songID uuid.UUID) ([]*model.SongVersion, error) {
	var versions []*model.SongVersion
	err := g.db.WithContext(ctx).
		Select(metadataColumns).
		Where("song_id = ?", songID.String()).
		Order("version_number asc").
		Find(&versions).Error
	return versions, err
}

func (g *GormStore) HeadVersionNumber(ctx context.Context, songID uuid.UUID) (int64, error) {
	var head int64
	err := g.db.WithContext(ctx).
		Model(&model.SongVersion{}).
		Where("song_id = ?", songID.String()).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&head).Error
	return head, err
}

func (g *GormStore) DeleteSongVersions(ctx context.Context, songID uuid.UUID, numbers []int64) error {
	if len(numbers) == 0 {
		return nil
	}
	return g.db.WithContext(ctx).
		Where("song_id = ? AND version_number IN (?)", songID.String(), numbers).
		Delete(&model.SongVersion{}).Error
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}
