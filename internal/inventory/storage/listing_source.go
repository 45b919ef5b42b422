package storage

import (
	"context"
	"fmt"

	"goinventory_api/internal/inventory/models"
)

// ListingSource produces the per-channel listing rows the matching engine
// consumes: one row per channel link, joined with its product and the
// channel-specific price when one exists.
type ListingSource struct {
	q dbtx
}

func NewListingSource(q dbtx) *ListingSource {
	return &ListingSource{q: q}
}

func (s *ListingSource) Listings(ctx context.Context, status, channel string) ([]models.ListingRecord, error) {
	query := `
		SELECT p.id, cl.channel, cl.external_id, p.sku, p.brand, p.model,
			p.title, p.description, COALESCE(cp.price, p.base_price), cl.id
		FROM inventory.products AS p
		JOIN inventory.channel_links AS cl ON cl.product_id = p.id
		LEFT JOIN inventory.channel_prices AS cp
			ON cp.product_id = p.id AND cp.channel = cl.channel
		WHERE p.status = $1`
	args := []interface{}{status}
	if channel != "" {
		query += ` AND cl.channel = $2`
		args = append(args, channel)
	}
	query += ` ORDER BY p.id, cl.id`

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query listings (status=%s channel=%s): %w", status, channel, err)
	}
	defer rows.Close()

	var records []models.ListingRecord
	for rows.Next() {
		var r models.ListingRecord
		if err := rows.Scan(&r.ProductID, &r.Channel, &r.ExternalID, &r.SKU, &r.Brand,
			&r.Model, &r.Title, &r.Description, &r.Price, &r.LinkID); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		r.HasPrice = r.Price > 0
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return records, nil
}
