// Package grocery builds a user's shopping list from their saved recipes.
package grocery

import (
	"context"
	"fmt"

	"recipesplusplus/models"
	"recipesplusplus/store"
)

// Catalog gives read access to the collections a grocery list is built from.
type Catalog struct {
	Recipes     store.Collection[models.Recipe]
	Ingredients store.Collection[models.Ingredient]
	Units       store.Collection[models.Unit]
}

type lineKey struct {
	ingredientID int
	unitID       int
}

// Build merges the ingredient lines of every recipe saved by user. Lines for
// the same ingredient in the same unit are summed; the same ingredient in
// another unit stays a separate entry since units are not converted. Entries
// keep the order in which they are first seen. Any dangling recipe,
// ingredient or unit id fails the whole build with store.ErrNotFound.
func Build(ctx context.Context, c Catalog, user models.User) ([]models.GroceryItem, error) {
	items := []models.GroceryItem{}
	index := make(map[lineKey]int)

	ingredients := make(map[int]models.Ingredient)
	units := make(map[int]models.Unit)

	for _, recipeID := range user.Recipes {
		recipe, err := store.Get(ctx, c.Recipes, recipeID)
		if err != nil {
			return nil, fmt.Errorf("recipe %d: %w", recipeID, err)
		}

		for _, line := range recipe.Ingredients {
			ing, ok := ingredients[line.IngredientID]
			if !ok {
				ing, err = store.Get(ctx, c.Ingredients, line.IngredientID)
				if err != nil {
					return nil, fmt.Errorf("recipe %d ingredient %d: %w", recipeID, line.IngredientID, err)
				}
				ingredients[line.IngredientID] = ing
			}

			unit, ok := units[line.UnitID]
			if !ok {
				unit, err = store.Get(ctx, c.Units, line.UnitID)
				if err != nil {
					return nil, fmt.Errorf("recipe %d unit %d: %w", recipeID, line.UnitID, err)
				}
				units[line.UnitID] = unit
			}

			key := lineKey{ingredientID: ing.ID, unitID: unit.ID}
			if i, ok := index[key]; ok {
				items[i].Quantity += line.Quantity
				continue
			}
			index[key] = len(items)
			items = append(items, models.GroceryItem{
				Ingredient: ing,
				Unit:       unit,
				Quantity:   line.Quantity,
			})
		}
	}

	return items, nil
}
