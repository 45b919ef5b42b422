package business

import (
	"context"

	"goinventory_api/internal/inventory/models"
)

// ProductStore is the slice of product persistence the engine needs inside a
// transaction. GetByID returns (nil, nil) when the product does not exist.
type ProductStore interface {
	GetByID(ctx context.Context, id int) (*models.CanonicalProduct, error)
	Insert(ctx context.Context, p *models.CanonicalProduct) error
	Delete(ctx context.Context, id int) error
}

type LinkStore interface {
	ListByProduct(ctx context.Context, productID int) ([]models.ChannelLink, error)
	CountByProduct(ctx context.Context, productID int) (int, error)
	// Relink points one link at a new product.
	Relink(ctx context.Context, linkID int64, productID int) error
	// RelinkAll redirects every link still pointing at fromProduct. Returns
	// the number of links moved.
	RelinkAll(ctx context.Context, fromProduct, toProduct int) (int64, error)
	RelinkMany(ctx context.Context, linkIDs []int64, productID int) error
}

type MergeLogStore interface {
	Append(ctx context.Context, rec *models.MergeRecord) error
	// LatestByMergedProduct returns the most recent record archiving the given
	// product id, or (nil, nil) when none exists.
	LatestByMergedProduct(ctx context.Context, mergedProductID int) (*models.MergeRecord, error)
}

// RepositoryTx is one open transaction over the canonical store.
type RepositoryTx interface {
	Products() ProductStore
	Links() LinkStore
	MergeLog() MergeLogStore
	// LockProduct takes a transaction-scoped advisory lock on the product id,
	// serializing concurrent merge/restore runs touching the same product.
	LockProduct(ctx context.Context, productID int) error
}

// UnitOfWork opens a transaction, runs fn, and commits; any error from fn (or
// a panic) rolls the transaction back. Each confirmed match and each restore
// call runs under its own unit of work so failures stay isolated.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(tx RepositoryTx) error) error
}
