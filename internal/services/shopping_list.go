package services

import (
	"fmt"
	"strings"

	"foodgram/internal/models"
)

// ShoppingListItem is one merged entry of a shopping list.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// AggregateShoppingList merges cart lines by exact ingredient name. The first occurrence of a
// name fixes its unit and position in the output; later occurrences only add to the amount.
// Names differing in case or unit are not merged.
func AggregateShoppingList(lines []models.CartLine) []ShoppingListItem {
	items := make([]ShoppingListItem, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, line := range lines {
		if i, ok := index[line.Name]; ok {
			items[i].Amount += line.Amount
			continue
		}
		index[line.Name] = len(items)
		items = append(items, ShoppingListItem{
			Name:            line.Name,
			MeasurementUnit: line.MeasurementUnit,
			Amount:          line.Amount,
		})
	}
	return items
}

// FormatShoppingList renders items as the plain-text export, one numbered line per item.
func FormatShoppingList(items []ShoppingListItem) string {
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s --- %d (%s)\n", i+1, item.Name, item.Amount, item.MeasurementUnit)
	}
	return b.String()
}
