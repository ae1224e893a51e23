package model

import "time"

// VersionType records what kind of save produced a version.
const (
	VersionTypeManual   = "manual"
	VersionTypeAutoSave = "auto_save"
	VersionTypeRestore  = "restore"
	VersionTypeImport   = "import"
)

// ValidVersionType reports whether s is one of the known version types.
func ValidVersionType(s string) bool {
	switch s {
	case VersionTypeManual, VersionTypeAutoSave, VersionTypeRestore, VersionTypeImport:
		return true
	}
	return false
}

// SongVersion is one entry in a song's append-only history, keyed by
// (song_id, version_number). Rows are never updated after insert; edits
// append new versions and pruning is the only delete path.
//
// A full snapshot carries the complete body in Payload. A delta carries a
// line patch against BaseVersionNumber instead. Either way the payload is
// compressed and tagged with the algorithm used, never inferred.
type SongVersion struct {
	SongID            string `gorm:"primaryKey;uuid;not null;"`
	VersionNumber     int64  `gorm:"primaryKey"`
	CreatedAt         time.Time
	ChartMeta         `gorm:"embedded"`
	AuthorID          string
	AuthorName        string `gorm:"not null"`
	VersionType       string `gorm:"not null"`
	ChangeDescription string
	IsDelta           bool
	BaseVersionNumber *int64
	Payload           []byte
	Compression       string `gorm:"not null"`
	UncompressedSize  int64
	StorageSize       int64
}

func (SongVersion) TableName() string {
	return "song_versions"
}
