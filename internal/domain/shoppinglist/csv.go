package shoppinglist

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// csvHeader is the fixed export column order.
var csvHeader = []string{"ingredient", "totalAmount", "category", "recipes", "checked"}

// ToCSV renders a list as RFC 4180 CSV with a header row. Fields containing
// commas, quotes or newlines are quoted by the encoder; the recipes column
// is semicolon-joined inside its field.
func ToCSV(items []Item) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, item := range items {
		record := []string{
			item.Ingredient,
			item.TotalAmount,
			item.Category,
			strings.Join(item.Recipes, ";"),
			strconv.FormatBool(item.Checked),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	return sb.String(), w.Error()
}
