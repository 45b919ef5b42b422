package models

import (
	"encoding/json"
	"time"
)

// MergeRecord is the append-only audit row written before a merged product is
// deleted. The snapshot is the full serialized state of the removed product at
// deletion time and is the sole mechanism enabling restore.
type MergeRecord struct {
	ID              int64           `json:"id"`
	RunID           string          `json:"run_id"`
	KeptProductID   int             `json:"kept_product_id"`
	MergedProductID int             `json:"merged_product_id"`
	MergedData      json.RawMessage `json:"merged_product_data"`
	MergedAt        time.Time       `json:"merged_at"`
	MergedBy        string          `json:"merged_by"`
	Reason          string          `json:"reason"`
}

// Snapshot deserializes the archived product state.
func (r *MergeRecord) Snapshot() (*CanonicalProduct, error) {
	if len(r.MergedData) == 0 {
		return nil, nil
	}
	var p CanonicalProduct
	if err := json.Unmarshal(r.MergedData, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
