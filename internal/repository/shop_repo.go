package repository

import (
	"database/sql"
	"fmt"

	"brainblast/internal/database"
	"brainblast/internal/models"
)

// ShopRepository handles the shop item catalog
type ShopRepository struct {
	db *database.DB
}

// NewShopRepository creates a new shop repository
func NewShopRepository(db *database.DB) *ShopRepository {
	return &ShopRepository{db: db}
}

// GetItems lists the full catalog, grouped by category
func (r *ShopRepository) GetItems() ([]models.ShopItem, error) {
	query := `
		SELECT id, name, category, price_coin, created_at
		FROM shop_items
		ORDER BY category ASC, price_coin ASC, id ASC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query shop items: %w", err)
	}
	defer rows.Close()

	var items []models.ShopItem
	for rows.Next() {
		var item models.ShopItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.PriceCoin, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shop item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// GetItemByID retrieves one catalog entry, inside the caller's transaction
func (r *ShopRepository) GetItemByID(q database.Querier, itemID string) (*models.ShopItem, error) {
	query := "SELECT id, name, category, price_coin, created_at FROM shop_items WHERE id = ?"
	item := &models.ShopItem{}
	err := q.QueryRow(query, itemID).Scan(&item.ID, &item.Name, &item.Category, &item.PriceCoin, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shop item: %w", err)
	}
	return item, nil
}

// UpsertItem inserts or refreshes one catalog entry at seed time
func (r *ShopRepository) UpsertItem(item models.ShopItem) error {
	update := "UPDATE shop_items SET name = ?, category = ?, price_coin = ? WHERE id = ?"
	result, err := r.db.Exec(update, item.Name, item.Category, item.PriceCoin, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update shop item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check shop item update: %w", err)
	}
	if affected > 0 {
		return nil
	}

	insert := "INSERT INTO shop_items (id, name, category, price_coin) VALUES (?, ?, ?, ?)"
	if _, err := r.db.Exec(insert, item.ID, item.Name, item.Category, item.PriceCoin); err != nil {
		return fmt.Errorf("failed to insert shop item: %w", err)
	}
	return nil
}
