package catalog

import "errors"

var (
	ErrInvalidCatalog     = errors.New("invalid catalog document")
	ErrNoCatalog          = errors.New("no catalog published")
	ErrExperienceNotFound = errors.New("experience not found")
	ErrAddonNotFound      = errors.New("addon not found")
	ErrProfileNotFound    = errors.New("profile not found")
)
