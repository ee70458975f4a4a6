package playback

import "errors"

var (
	ErrUnknownClip       = errors.New("clip not found in library")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrEmptyClip         = errors.New("clip decoded to zero samples")
	ErrInvalidTone       = errors.New("invalid tone frequency")
	ErrForeignClip       = errors.New("clip not created by this library")
)
