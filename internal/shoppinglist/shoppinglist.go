// Package shoppinglist aggregates a user's basket into a plain-text
// shopping list.
package shoppinglist

import (
	"fmt"
	"strings"
)

// Filename is the attachment name of the rendered report.
const Filename = "shopping_list.txt"

// Trailer is appended verbatim as the final line of every report. Kept
// byte-for-byte stable: downstream consumers parse the file.
const Trailer = "Спасибо что пользуетесь нашим сервисом!"

// Line is one recipe-ingredient association scaled by the basket entry that
// references it: a recipe in the basket with quantity Q contributes
// Q * Amount of each of its ingredients.
type Line struct {
	IngredientID    int64
	Name            string
	MeasurementUnit string
	Amount          int32
	Quantity        int32
}

// Total is the aggregated requirement for a single ingredient.
type Total struct {
	IngredientID    int64
	Name            string
	MeasurementUnit string
	Quantity        int64
}

// Aggregate sums line quantities per ingredient. Totals are keyed by
// ingredient id, so two ingredients that share a name but differ in unit
// stay separate. Order of the result is the order in which each ingredient
// was first encountered.
func Aggregate(lines []Line) []Total {
	index := make(map[int64]int, len(lines))
	totals := make([]Total, 0, len(lines))

	for _, line := range lines {
		quantity := int64(line.Quantity) * int64(line.Amount)
		if i, ok := index[line.IngredientID]; ok {
			totals[i].Quantity += quantity
			continue
		}
		index[line.IngredientID] = len(totals)
		totals = append(totals, Total{
			IngredientID:    line.IngredientID,
			Name:            line.Name,
			MeasurementUnit: line.MeasurementUnit,
			Quantity:        quantity,
		})
	}

	return totals
}

// Render formats the aggregated totals as the downloadable report: one
// "{name} {total} {unit}" line per ingredient followed by the trailer.
// An empty basket renders the trailer alone.
func Render(totals []Total) string {
	var b strings.Builder
	for _, total := range totals {
		fmt.Fprintf(&b, "%s %d %s\n", total.Name, total.Quantity, total.MeasurementUnit)
	}
	b.WriteString(Trailer)
	return b.String()
}
