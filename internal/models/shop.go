package models

import "time"

// ShopItem represents a purchasable cosmetic in the rewards shop
type ShopItem struct {
	ID        string // stable string id, e.g. "cape-red"
	Name      string
	Category  string // 'outfit', 'accessory', 'background', 'effect'
	PriceCoin int64
	CreatedAt time.Time
}
