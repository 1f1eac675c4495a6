package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ShoppingListItem is one aggregated (ingredient name, unit) group.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int    `json:"total_amount"`
}

type ShoppingListService interface {
	Aggregate(ctx context.Context, userID uint) ([]ShoppingListItem, error)
	Render(items []ShoppingListItem) string
}

type shoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) ShoppingListService {
	return &shoppingListService{db: db}
}

// Ingredients are grouped by name and unit, not by id, so that catalog
// duplicates collapse into one line. Groups are ordered by their summed
// amount, largest first; ties fall back to name and unit.
const shoppingListQuery = `
SELECT i.name AS name, i.measurement_unit AS measurement_unit, SUM(ri.amount) AS total_amount
FROM recipe_ingredients ri
JOIN ingredients i ON i.id = ri.ingredient_id
JOIN cart_items c ON c.recipe_id = ri.recipe_id
WHERE c.user_id = ?
GROUP BY i.name, i.measurement_unit
ORDER BY total_amount DESC, i.name ASC, i.measurement_unit ASC`

// Aggregate sums every ingredient line of every recipe in the user's cart.
// An empty cart yields an empty list.
func (s *shoppingListService) Aggregate(ctx context.Context, userID uint) ([]ShoppingListItem, error) {
	items := []ShoppingListItem{}
	if err := s.db.WithContext(ctx).Raw(shoppingListQuery, userID).Scan(&items).Error; err != nil {
		return nil, translateError(err, "shopping list", "", "")
	}
	return items, nil
}

// Render formats the list as the downloadable plain-text file.
func (s *shoppingListService) Render(items []ShoppingListItem) string {
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s - %d %s \n", i+1, item.Name, item.TotalAmount, item.MeasurementUnit)
	}
	return b.String()
}
