package models

// ListingRecord is the transient unit the scorer operates on. It is rebuilt
// from the store on every matching run and never persisted.
type ListingRecord struct {
	ProductID   int     `json:"product_id"`
	Channel     string  `json:"channel"`
	ExternalID  string  `json:"external_id"`
	SKU         string  `json:"sku"`
	Brand       string  `json:"brand"`
	Model       string  `json:"model"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	HasPrice    bool    `json:"has_price"`
	LinkID      int64   `json:"channel_link_id"`
}
