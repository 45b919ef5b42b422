package models

import "time"

// CanonicalProduct is the single source-of-truth inventory item. One physical
// item has exactly one row here no matter how many channels list it.
type CanonicalProduct struct {
	ID          int       `json:"id"`
	SKU         string    `json:"sku"`
	Brand       string    `json:"brand"`
	Model       string    `json:"model"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Condition   string    `json:"condition"`
	BasePrice   float64   `json:"base_price"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ChannelLink associates one CanonicalProduct with one (channel, external id)
// pair. A link's target product must always exist; the merge executor is the
// only component allowed to move a link between products.
type ChannelLink struct {
	ID         int64  `json:"id"`
	ProductID  int    `json:"product_id"`
	Channel    string `json:"channel"`
	ExternalID string `json:"external_id"`
}
