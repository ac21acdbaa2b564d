package store

import (
	"context"

	"jobmatch-engine/internal/catalog"
)

// Catalog serves search snapshots straight from the postings table.
type Catalog struct {
	DB *DB
}

func (c Catalog) Snapshot(ctx context.Context) (*catalog.Set, error) {
	ps, err := AllPostings(ctx, c.DB.Pool)
	if err != nil {
		return nil, err
	}
	return catalog.NewSet(ps), nil
}
