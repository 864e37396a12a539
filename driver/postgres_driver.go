package driver

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogDriver reads the video catalog from Postgres. The schema is owned by
// the surrounding application; this driver only selects from it.
type CatalogDriver struct {
	pool *pgxpool.Pool
}

func NewCatalogDriver(pool *pgxpool.Pool) *CatalogDriver {
	return &CatalogDriver{
		pool: pool,
	}
}

// Close closes the connection pool.
func (d *CatalogDriver) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
}

const itemSelect = `
	SELECT v.id, v.title, COALESCE(v.description, ''), COALESCE(v.thumbnail, ''),
		   COALESCE(v.duration, 0), COALESCE(v.location, ''), v.created_at,
		   COALESCE(array_agg(DISTINCT s.name) FILTER (WHERE s.name IS NOT NULL), '{}') AS speakers,
		   COALESCE(array_agg(DISTINCT t.name) FILTER (WHERE t.name IS NOT NULL), '{}') AS tags,
		   COALESCE(array_agg(DISTINCT c.name) FILTER (WHERE c.name IS NOT NULL), '{}') AS characters,
		   COALESCE(array_agg(DISTINCT sc.reference) FILTER (WHERE sc.reference IS NOT NULL), '{}') AS scriptures,
		   COALESCE(BOOL_OR(wh.video_id IS NOT NULL), false) AS watched
	FROM videos v
	LEFT JOIN video_speakers vs ON vs.video_id = v.id
	LEFT JOIN speakers s ON s.id = vs.speaker_id
	LEFT JOIN video_tags vt ON vt.video_id = v.id
	LEFT JOIN tags t ON t.id = vt.tag_id
	LEFT JOIN video_characters vc ON vc.video_id = v.id
	LEFT JOIN characters c ON c.id = vc.character_id
	LEFT JOIN video_scriptures vsc ON vsc.video_id = v.id
	LEFT JOIN scriptures sc ON sc.id = vsc.scripture_id
	LEFT JOIN watch_history wh ON wh.video_id = v.id AND wh.profile_id = $1
`

// GetAllItems returns the full catalog snapshot. viewerID resolves the
// per-viewer watched flag; zero matches no watch-history rows.
func (d *CatalogDriver) GetAllItems(ctx context.Context, viewerID int64) ([]*ItemRow, error) {
	query := itemSelect + `
	GROUP BY v.id, v.title, v.description, v.thumbnail, v.duration, v.location, v.created_at
	ORDER BY v.created_at DESC, v.id DESC
	`

	rows, err := d.pool.Query(ctx, query, viewerID)
	if err != nil {
		return nil, &DriverError{Op: "GetAllItems", Err: err.Error()}
	}
	defer rows.Close()

	var items []*ItemRow
	for rows.Next() {
		item, err := scanItemRow(rows)
		if err != nil {
			return nil, &DriverError{Op: "GetAllItems", Err: err.Error()}
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, &DriverError{Op: "GetAllItems", Err: err.Error()}
	}

	return items, nil
}

// GetItemByID returns one catalog row, or (nil, nil) when the id is unknown.
func (d *CatalogDriver) GetItemByID(ctx context.Context, id int64, viewerID int64) (*ItemRow, error) {
	query := itemSelect + `
	WHERE v.id = $2
	GROUP BY v.id, v.title, v.description, v.thumbnail, v.duration, v.location, v.created_at
	`

	rows, err := d.pool.Query(ctx, query, viewerID, id)
	if err != nil {
		return nil, &DriverError{Op: "GetItemByID", Err: err.Error()}
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, &DriverError{Op: "GetItemByID", Err: err.Error()}
		}
		return nil, nil
	}

	item, err := scanItemRow(rows)
	if err != nil {
		return nil, &DriverError{Op: "GetItemByID", Err: err.Error()}
	}

	return item, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItemRow(row rowScanner) (*ItemRow, error) {
	var item ItemRow
	err := row.Scan(
		&item.ID, &item.Title, &item.Description, &item.Thumbnail,
		&item.Duration, &item.Location, &item.CreatedAt,
		&item.Speakers, &item.Tags, &item.Characters, &item.Scriptures,
		&item.Watched,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
