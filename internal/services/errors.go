package services

import "errors"

// Sentinel errors the transport layer maps onto API error responses.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrUnreadableFile      = errors.New("failed to read file")
	ErrEmptyTable          = errors.New("no rows detected in file")
	ErrTokenNotFound       = errors.New("token expired or not found")
)
