package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/model"
)

// ErrNotFound is returned when no item matches the given ID.
var ErrNotFound = errors.New("item not found")

const itemColumns = `id, name, price, image, deleted, msg`

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*model.Item, error) {
	item := &model.Item{}
	if err := row.Scan(&item.ID, &item.Name, &item.Price, &item.Image, &item.Deleted, &item.Msg); err != nil {
		return nil, err
	}
	return item, nil
}

// queryItem runs a single-row statement that returns item columns.
func queryItem(ctx context.Context, d *db.DB, query string, args ...any) (*model.Item, error) {
	item, err := scanItem(d.QueryRowContext(ctx, d.Rebind(query), args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return item, err
}

// CreateItem inserts a new item. An empty image is stored as the placeholder.
func CreateItem(ctx context.Context, d *db.DB, name string, price int64, image string) (*model.Item, error) {
	item, err := queryItem(ctx, d,
		`INSERT INTO items (name, price, image) VALUES (?, ?, ?) RETURNING `+itemColumns,
		name, price, model.ImageOrDefault(image),
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}
	return item, nil
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, d *db.DB, id int64) (*model.Item, error) {
	item, err := queryItem(ctx, d,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("getting item %d: %w", id, err)
	}
	return item, nil
}

// ListItems returns items ordered by ID, restricted by filter.
func ListItems(ctx context.Context, d *db.DB, filter model.Filter) ([]model.Item, error) {
	var rows *sql.Rows
	var err error

	switch filter {
	case model.FilterCurrent, model.FilterDeleted:
		rows, err = d.QueryContext(ctx,
			d.Rebind(`SELECT `+itemColumns+` FROM items WHERE deleted = ? ORDER BY id`),
			filter == model.FilterDeleted,
		)
	default:
		rows, err = d.QueryContext(ctx, `SELECT `+itemColumns+` FROM items ORDER BY id`)
	}
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateItem applies a partial update. Fields left nil in patch keep their value.
func UpdateItem(ctx context.Context, d *db.DB, id int64, patch model.ItemPatch) (*model.Item, error) {
	item, err := queryItem(ctx, d,
		`UPDATE items
		 SET name = COALESCE(?, name), price = COALESCE(?, price), image = COALESCE(?, image)
		 WHERE id = ? RETURNING `+itemColumns,
		nullable(patch.Name), nullable(patch.Price), nullable(patch.Image), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item %d: %w", id, err)
	}
	return item, nil
}

// SoftDeleteItem flags an item as deleted and records msg.
func SoftDeleteItem(ctx context.Context, d *db.DB, id int64, msg string) (*model.Item, error) {
	item, err := queryItem(ctx, d,
		`UPDATE items SET deleted = TRUE, msg = ? WHERE id = ? RETURNING `+itemColumns,
		msg, id,
	)
	if err != nil {
		return nil, fmt.Errorf("soft-deleting item %d: %w", id, err)
	}
	return item, nil
}

// UndeleteItem clears the deleted flag and the delete message.
func UndeleteItem(ctx context.Context, d *db.DB, id int64) (*model.Item, error) {
	item, err := queryItem(ctx, d,
		`UPDATE items SET deleted = FALSE, msg = NULL WHERE id = ? RETURNING `+itemColumns,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("undeleting item %d: %w", id, err)
	}
	return item, nil
}

// SetItemImage replaces an item's image path.
func SetItemImage(ctx context.Context, d *db.DB, id int64, image string) (*model.Item, error) {
	item, err := queryItem(ctx, d,
		`UPDATE items SET image = ? WHERE id = ? RETURNING `+itemColumns,
		model.ImageOrDefault(image), id,
	)
	if err != nil {
		return nil, fmt.Errorf("setting item %d image: %w", id, err)
	}
	return item, nil
}

// DeleteItem permanently removes an item.
func DeleteItem(ctx context.Context, d *db.DB, id int64) error {
	result, err := d.ExecContext(ctx, d.Rebind(`DELETE FROM items WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting item %d: %w", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting item %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("deleting item %d: %w", id, ErrNotFound)
	}
	return nil
}

// nullable turns a nil pointer into SQL NULL and dereferences anything else.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
