package document

import "errors"

var (
	ErrStoreUnavailable = errors.New("document store unavailable")
	ErrInvalidPath      = errors.New("invalid document path")
)
