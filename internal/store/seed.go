package store

import (
	"context"
	"fmt"

	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/model"
)

// SampleItems are the demo records inserted by Seed.
var SampleItems = []model.Item{
	{Name: "Expensive graphics card", Price: 700},
	{Name: "Bananas", Price: 5},
}

// Seed inserts SampleItems and returns the created records.
func Seed(ctx context.Context, d *db.DB) ([]model.Item, error) {
	created := make([]model.Item, 0, len(SampleItems))
	for _, s := range SampleItems {
		item, err := CreateItem(ctx, d, s.Name, s.Price, s.Image)
		if err != nil {
			return nil, fmt.Errorf("seeding %q: %w", s.Name, err)
		}
		created = append(created, *item)
	}
	return created, nil
}
