package domain

import "errors"

// ErrItemNotFound is returned by the catalog repository when no item exists
// for the requested identifier.
var ErrItemNotFound = errors.New("item not found")

// ErrEngineUnavailable is returned by the search engine layer when the engine
// is down or the health cache says so; callers treat it like any other engine
// failure and fall back.
var ErrEngineUnavailable = errors.New("search engine unavailable")

// RepositoryError represents an error from the repository layer.
type RepositoryError struct {
	Op  string
	Err string
}

func (e *RepositoryError) Error() string {
	return e.Op + ": " + e.Err
}

// SearchEngineError represents an error from the search engine layer.
type SearchEngineError struct {
	Op  string
	Err string
}

func (e *SearchEngineError) Error() string {
	return e.Op + ": " + e.Err
}

// DriverError represents an error from the driver layer.
type DriverError struct {
	Op  string
	Err string
}

func (e *DriverError) Error() string {
	return e.Op + ": " + e.Err
}
