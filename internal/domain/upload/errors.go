package upload

import "errors"

var (
	ErrUnsupportedType   = errors.New("unsupported upload type")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrMalformedFile     = errors.New("malformed upload file")
	ErrEmptyFile         = errors.New("upload file has no data rows")
	ErrTemplateNotFound  = errors.New("template not found")
	ErrUnknownCollection = errors.New("collection has no update layout")
	ErrFileTooLarge      = errors.New("upload file too large")
)
