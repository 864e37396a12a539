package gateway

import (
	"context"

	"sermon-search/domain"
	"sermon-search/driver"
	"sermon-search/port"
)

// CatalogDriver is the slice of the Postgres driver this gateway needs.
type CatalogDriver interface {
	GetAllItems(ctx context.Context, viewerID int64) ([]*driver.ItemRow, error)
	GetItemByID(ctx context.Context, id int64, viewerID int64) (*driver.ItemRow, error)
}

// CatalogRepositoryGateway converts driver rows into domain items and wraps
// driver errors into repository errors.
type CatalogRepositoryGateway struct {
	driver CatalogDriver
}

func NewCatalogRepositoryGateway(driver CatalogDriver) *CatalogRepositoryGateway {
	return &CatalogRepositoryGateway{
		driver: driver,
	}
}

func (g *CatalogRepositoryGateway) GetAll(ctx context.Context, viewerID int64) ([]*domain.Item, error) {
	rows, err := g.driver.GetAllItems(ctx, viewerID)
	if err != nil {
		return nil, &port.RepositoryError{
			Op:  "GetAll",
			Err: err.Error(),
		}
	}

	items := make([]*domain.Item, 0, len(rows))
	for _, row := range rows {
		item, err := g.convertToDomain(row)
		if err != nil {
			return nil, &port.RepositoryError{
				Op:  "GetAll",
				Err: "failed to convert item to domain: id=" + itoa(row.ID) + ", " + err.Error(),
			}
		}
		items = append(items, item)
	}

	return items, nil
}

func (g *CatalogRepositoryGateway) GetByID(ctx context.Context, id int64, viewerID int64) (*domain.Item, error) {
	row, err := g.driver.GetItemByID(ctx, id, viewerID)
	if err != nil {
		return nil, &port.RepositoryError{
			Op:  "GetByID",
			Err: err.Error(),
		}
	}
	if row == nil {
		return nil, domain.ErrItemNotFound
	}

	item, err := g.convertToDomain(row)
	if err != nil {
		return nil, &port.RepositoryError{
			Op:  "GetByID",
			Err: "failed to convert item to domain: id=" + itoa(row.ID) + ", " + err.Error(),
		}
	}

	return item, nil
}

func (g *CatalogRepositoryGateway) convertToDomain(row *driver.ItemRow) (*domain.Item, error) {
	return domain.NewItem(
		row.ID,
		row.Title,
		row.Description,
		row.Thumbnail,
		row.Duration,
		row.Speakers,
		row.Tags,
		row.Characters,
		row.Location,
		row.Scriptures,
		row.Watched,
		row.CreatedAt,
	)
}
