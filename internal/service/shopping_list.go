package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ShoppingListLine is the total amount of one ingredient across the cart.
type ShoppingListLine struct {
	Name  string
	Unit  string
	Total decimal.Decimal
}

func (l ShoppingListLine) String() string {
	return fmt.Sprintf("%s(%s) - %s", l.Name, l.Unit, l.Total.StringFixed(2))
}

// ShoppingList sums the ingredient amounts of every recipe in the user's
// cart, one line per (name, unit), ordered by name. The sum is done in
// decimal so totals are exact whatever the column type of the backend.
func (s *LedgerService) ShoppingList(ctx context.Context, userID uint) ([]ShoppingListLine, error) {
	type row struct {
		Name            string
		MeasurementUnit string
		Amount          decimal.Decimal
	}
	var rows []row
	err := s.db.WithContext(ctx).
		Table("shopping_cart_items AS c").
		Select("i.name AS name, i.measurement_unit AS measurement_unit, ri.amount AS amount").
		Joins("JOIN recipe_ingredients AS ri ON ri.recipe_id = c.recipe_id").
		Joins("JOIN ingredients AS i ON i.id = ri.ingredient_id").
		Where("c.user_id = ?", userID).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping cart: %w", err)
	}

	type key struct{ name, unit string }
	totals := make(map[key]decimal.Decimal)
	for _, r := range rows {
		k := key{r.Name, r.MeasurementUnit}
		totals[k] = totals[k].Add(r.Amount)
	}

	lines := make([]ShoppingListLine, 0, len(totals))
	for k, total := range totals {
		lines = append(lines, ShoppingListLine{Name: k.name, Unit: k.unit, Total: total})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Name != lines[j].Name {
			return lines[i].Name < lines[j].Name
		}
		return lines[i].Unit < lines[j].Unit
	})
	return lines, nil
}

// FormatShoppingList renders the plain-text export, one line per entry.
// An empty list renders as an empty string.
func FormatShoppingList(lines []ShoppingListLine) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}
