package storage

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"goinventory_api/internal/inventory/models"
)

type LinkRepository struct {
	q dbtx
}

func NewLinkRepository(q dbtx) *LinkRepository {
	return &LinkRepository{q: q}
}

func (r *LinkRepository) ListByProduct(ctx context.Context, productID int) ([]models.ChannelLink, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, product_id, channel, external_id
		FROM inventory.channel_links
		WHERE product_id = $1
		ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list links for product %d: %w", productID, err)
	}
	defer rows.Close()

	var links []models.ChannelLink
	for rows.Next() {
		var l models.ChannelLink
		if err := rows.Scan(&l.ID, &l.ProductID, &l.Channel, &l.ExternalID); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate links: %w", err)
	}
	return links, nil
}

func (r *LinkRepository) CountByProduct(ctx context.Context, productID int) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM inventory.channel_links WHERE product_id = $1`, productID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count links for product %d: %w", productID, err)
	}
	return count, nil
}

func (r *LinkRepository) Relink(ctx context.Context, linkID int64, productID int) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE inventory.channel_links SET product_id = $1 WHERE id = $2`, productID, linkID)
	if err != nil {
		return fmt.Errorf("relink %d to product %d: %w", linkID, productID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("relink %d rows affected: %w", linkID, err)
	}
	if affected == 0 {
		return fmt.Errorf("relink %d: link not found", linkID)
	}
	return nil
}

func (r *LinkRepository) RelinkAll(ctx context.Context, fromProduct, toProduct int) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE inventory.channel_links SET product_id = $1 WHERE product_id = $2`,
		toProduct, fromProduct)
	if err != nil {
		return 0, fmt.Errorf("relink all %d -> %d: %w", fromProduct, toProduct, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("relink all rows affected: %w", err)
	}
	return affected, nil
}

func (r *LinkRepository) RelinkMany(ctx context.Context, linkIDs []int64, productID int) error {
	if len(linkIDs) == 0 {
		return nil
	}
	_, err := r.q.ExecContext(ctx, `
		UPDATE inventory.channel_links SET product_id = $1 WHERE id = ANY($2)`,
		productID, pq.Array(linkIDs))
	if err != nil {
		return fmt.Errorf("relink %d links to product %d: %w", len(linkIDs), productID, err)
	}
	return nil
}
