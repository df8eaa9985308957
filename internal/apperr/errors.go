package apperr

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrUnsafePath = errors.New("path escapes document root")
)
