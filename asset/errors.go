package asset

import "errors"

var (
	ErrUndeclaredClip  = errors.New("clip id not declared in [clips]")
	ErrUnsupportedExt  = errors.New("unsupported clip file extension")
	ErrInvalidClipFile = errors.New("clip file failed to decode")
	ErrUnusedClip      = errors.New("clip declared but never referenced")
)
