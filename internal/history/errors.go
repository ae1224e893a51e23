package history

import "errors"

var (
	// ErrSongNotFound is returned when the requested song does not exist.
	ErrSongNotFound = errors.New("song not found")
	// ErrVersionNotFound is returned when the requested version does not exist.
	ErrVersionNotFound = errors.New("version not found")
	// ErrMissingBaseVersion is returned when a delta's base version is gone, leaving a broken chain.
	ErrMissingBaseVersion = errors.New("missing base version, broken delta chain")
	// ErrCompressionFailure is returned when a stored payload cannot be decompressed.
	ErrCompressionFailure = errors.New("stored payload failed to decompress")
	// ErrVersionNumberConflict is returned when an append's expected head does not
	// match the current head. The caller should re-fetch the head and resubmit.
	ErrVersionNumberConflict = errors.New("version number conflict, head moved")
	// ErrInvalidVersionType is returned for an unknown version type string.
	ErrInvalidVersionType = errors.New("invalid version type")
)
