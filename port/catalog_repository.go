package port

import (
	"context"

	"sermon-search/domain"
)

// CatalogRepository is the narrow contract to the relational catalog store.
// viewerID selects whose watched flags are resolved; zero means anonymous and
// every item reports unwatched.
type CatalogRepository interface {
	// GetAll returns the full catalog snapshot.
	GetAll(ctx context.Context, viewerID int64) ([]*domain.Item, error)
	// GetByID returns one item, or domain.ErrItemNotFound.
	GetByID(ctx context.Context, id int64, viewerID int64) (*domain.Item, error)
}

type RepositoryError struct {
	Op  string
	Err string
}

func (e *RepositoryError) Error() string {
	return e.Op + ": " + e.Err
}
