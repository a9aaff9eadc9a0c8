// Package recipe contains the domain logic for recipes.
package recipe

// Item is one submitted (ingredient, amount) pair.
type Item struct {
	IngredientID int64
	Amount       int32
}

// Association is an existing recipe-ingredient row.
type Association struct {
	IngredientID int64
	Amount       int32
}

// Plan is the set of writes that turns the existing association set into
// the submitted one.
type Plan struct {
	Inserts  []Item
	Updates  []Item
	Removals []int64
}

func (p Plan) Empty() bool {
	return len(p.Inserts) == 0 && len(p.Updates) == 0 && len(p.Removals) == 0
}

// Reconcile computes the authoritative association set for a recipe from the
// client's submission. The submission wins completely: ingredients absent
// from it are removed. When the same ingredient id appears more than once,
// the last occurrence wins, so the resulting set always has exactly one row
// per ingredient id. Updates with an unchanged amount are dropped from the
// plan.
func Reconcile(existing []Association, submitted []Item) Plan {
	current := make(map[int64]int32, len(existing))
	for _, assoc := range existing {
		current[assoc.IngredientID] = assoc.Amount
	}

	// Deduplicate the submission, preserving first-seen order.
	order := make([]int64, 0, len(submitted))
	amounts := make(map[int64]int32, len(submitted))
	for _, item := range submitted {
		if _, seen := amounts[item.IngredientID]; !seen {
			order = append(order, item.IngredientID)
		}
		amounts[item.IngredientID] = item.Amount
	}

	var plan Plan
	for _, id := range order {
		amount := amounts[id]
		prev, exists := current[id]
		switch {
		case !exists:
			plan.Inserts = append(plan.Inserts, Item{IngredientID: id, Amount: amount})
		case prev != amount:
			plan.Updates = append(plan.Updates, Item{IngredientID: id, Amount: amount})
		}
	}

	for _, assoc := range existing {
		if _, kept := amounts[assoc.IngredientID]; !kept {
			plan.Removals = append(plan.Removals, assoc.IngredientID)
		}
	}

	return plan
}
