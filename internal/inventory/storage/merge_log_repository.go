package storage

import (
	"context"
	"database/sql"
	"fmt"

	"goinventory_api/internal/inventory/models"
)

// MergeLogRepository writes and reads the append-only merge audit. Rows are
// never updated or deleted here.
type MergeLogRepository struct {
	q dbtx
}

func NewMergeLogRepository(q dbtx) *MergeLogRepository {
	return &MergeLogRepository{q: q}
}

func (r *MergeLogRepository) Append(ctx context.Context, rec *models.MergeRecord) error {
	row := r.q.QueryRowContext(ctx, `
		INSERT INTO inventory.merge_records
			(run_id, kept_product_id, merged_product_id, merged_product_data, merged_at, merged_by, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		rec.RunID, rec.KeptProductID, rec.MergedProductID, []byte(rec.MergedData),
		rec.MergedAt, rec.MergedBy, rec.Reason)
	if err := row.Scan(&rec.ID); err != nil {
		return fmt.Errorf("append merge record for product %d: %w", rec.MergedProductID, err)
	}
	return nil
}

func (r *MergeLogRepository) LatestByMergedProduct(ctx context.Context, mergedProductID int) (*models.MergeRecord, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, run_id, kept_product_id, merged_product_id, merged_product_data, merged_at, merged_by, reason
		FROM inventory.merge_records
		WHERE merged_product_id = $1
		ORDER BY merged_at DESC, id DESC
		LIMIT 1`, mergedProductID)

	var rec models.MergeRecord
	var data []byte
	err := row.Scan(&rec.ID, &rec.RunID, &rec.KeptProductID, &rec.MergedProductID,
		&data, &rec.MergedAt, &rec.MergedBy, &rec.Reason)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("latest merge record for product %d: %w", mergedProductID, err)
	}
	rec.MergedData = data
	return &rec, nil
}
