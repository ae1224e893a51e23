package model

import (
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ChartMeta is the chart metadata captured on every save. It is always
// stored in full; only the body text is delta-compressed.
type ChartMeta struct {
	Title         string `gorm:"not null"`
	ContentFormat string // chordpro, plain, etc.
	Key           string
	Tempo         int
	TimeSignature string
	Capo          int
	Notes         string
	Tags          string // comma-separated
}

// TagList splits the stored tag string.
func (m ChartMeta) TagList() []string {
	if m.Tags == "" {
		return nil
	}
	return strings.Split(m.Tags, ",")
}

// Song is the document head: the current body and metadata, plus the
// highest version number assigned so far. The body is stored compressed
// with an explicit algorithm tag.
type Song struct {
	gorm.Model
	ID             string `gorm:"primaryKey;uuid;not null;"`
	ChartMeta      `gorm:"embedded"`
	Content        []byte
	Compression    string // the compression algorithm used to compress the body
	CurrentVersion int64
}

func GetSong(db *gorm.DB, id string) (*Song, error) {
	song := &Song{}
	err := db.Where("id = ?", id).First(song).Error
	if err != nil {
		logrus.Errorf("Error getting song: %v", err)
		return nil, err
	}

	return song, nil
}
