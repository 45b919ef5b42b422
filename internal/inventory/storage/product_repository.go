package storage

import (
	"context"
	"database/sql"
	"fmt"

	"goinventory_api/internal/inventory/models"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type ProductRepository struct {
	q dbtx
}

func NewProductRepository(q dbtx) *ProductRepository {
	return &ProductRepository{q: q}
}

func (r *ProductRepository) GetByID(ctx context.Context, id int) (*models.CanonicalProduct, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, sku, brand, model, title, description, condition, base_price, status, created_at, updated_at
		FROM inventory.products
		WHERE id = $1`, id)

	var p models.CanonicalProduct
	err := row.Scan(&p.ID, &p.SKU, &p.Brand, &p.Model, &p.Title, &p.Description,
		&p.Condition, &p.BasePrice, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &p, nil
}

// Insert writes a product row. A nonzero ID is preserved (restore re-creates a
// product under its original identity); a zero ID lets the sequence assign one.
func (r *ProductRepository) Insert(ctx context.Context, p *models.CanonicalProduct) error {
	if p.ID != 0 {
		_, err := r.q.ExecContext(ctx, `
			INSERT INTO inventory.products
				(id, sku, brand, model, title, description, condition, base_price, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			p.ID, p.SKU, p.Brand, p.Model, p.Title, p.Description,
			p.Condition, p.BasePrice, p.Status, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert product %d: %w", p.ID, err)
		}
		// Keep the sequence ahead of explicitly inserted ids.
		_, err = r.q.ExecContext(ctx, `
			SELECT setval(pg_get_serial_sequence('inventory.products', 'id'),
				GREATEST((SELECT MAX(id) FROM inventory.products), 1))`)
		if err != nil {
			return fmt.Errorf("bump products sequence: %w", err)
		}
		return nil
	}

	row := r.q.QueryRowContext(ctx, `
		INSERT INTO inventory.products
			(sku, brand, model, title, description, condition, base_price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		p.SKU, p.Brand, p.Model, p.Title, p.Description, p.Condition, p.BasePrice, p.Status)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM inventory.products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return nil
}
