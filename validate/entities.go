package validate

import (
	"context"
	"fmt"

	"recipesplusplus/models"
)

const (
	DefaultCalories = -1
	DefaultTime     = -1
)

// Ingredient validates an ingredient payload: name is required, image_url
// is optional and defaults to "".
func Ingredient(raw Raw) (models.Ingredient, error) {
	var errs Errors
	ing := models.Ingredient{
		Name:     requiredString(raw, "name", &errs),
		ImageURL: optionalString(raw, "image_url", "", &errs),
	}
	return ing, errs.err()
}

// Recipe validates a recipe payload. Ingredient lines must reference
// existing ingredients and units; those ids are read from the given sources.
// A non-nil error is either Errors or a failure to read the sources.
func Recipe(ctx context.Context, raw Raw, ingredients, units IDSource) (models.Recipe, error) {
	var errs Errors
	rec := models.Recipe{
		Name:         requiredString(raw, "name", &errs),
		Instructions: []string{},
		Calories:     optionalInt(raw, "calories", DefaultCalories, &errs),
		Time:         optionalInt(raw, "time", DefaultTime, &errs),
		ImageURL:     optionalString(raw, "image_url", "", &errs),
	}

	switch list := raw["instructions"].(type) {
	case []any:
		for i, v := range list {
			s, ok := v.(string)
			if !ok {
				errs.typeErr(fmt.Sprintf("instructions[%d]", i), "string")
				continue
			}
			rec.Instructions = append(rec.Instructions, s)
		}
	default:
		errs.typeErr("instructions", "list of strings")
	}

	lines, ok := raw["ingredients"].([]any)
	if !ok || len(lines) == 0 {
		errs.typeErr("ingredients", "non-empty list of {ingredientId, unitId, quantity}")
		return rec, errs.err()
	}

	ingredientIDs, err := idSet(ctx, ingredients)
	if err != nil {
		return rec, fmt.Errorf("load ingredient ids: %w", err)
	}
	unitIDs, err := idSet(ctx, units)
	if err != nil {
		return rec, fmt.Errorf("load unit ids: %w", err)
	}

	for i, v := range lines {
		field := fmt.Sprintf("ingredients[%d]", i)
		line, ok := v.(map[string]any)
		if !ok {
			errs.typeErr(field, "object {ingredientId, unitId, quantity}")
			continue
		}

		ri := models.RecipeIngredient{}
		valid := true

		if id, ok := asInt(line["ingredientId"]); !ok {
			errs.typeErr(field+".ingredientId", "integer")
			valid = false
		} else if _, exists := ingredientIDs[id]; !exists {
			errs.refErr(field+".ingredientId", id, "ingredient")
			valid = false
		} else {
			ri.IngredientID = id
		}

		if id, ok := asInt(line["unitId"]); !ok {
			errs.typeErr(field+".unitId", "integer")
			valid = false
		} else if _, exists := unitIDs[id]; !exists {
			errs.refErr(field+".unitId", id, "unit")
			valid = false
		} else {
			ri.UnitID = id
		}

		if q, ok := asInt(line["quantity"]); !ok {
			errs.typeErr(field+".quantity", "integer")
			valid = false
		} else {
			ri.Quantity = q
		}

		if valid {
			rec.Ingredients = append(rec.Ingredients, ri)
		}
	}

	return rec, errs.err()
}

// User validates a user payload. recipes is optional and defaults to an
// empty list; each entry must be the id of an existing recipe.
func User(ctx context.Context, raw Raw, recipes IDSource) (models.User, error) {
	var errs Errors
	u := models.User{
		Email:   requiredString(raw, "email", &errs),
		Name:    requiredString(raw, "name", &errs),
		Recipes: []int{},
	}

	v, present := raw["recipes"]
	if !present {
		return u, errs.err()
	}
	list, ok := v.([]any)
	if !ok {
		errs.typeErr("recipes", "list of integers")
		return u, errs.err()
	}
	if len(list) == 0 {
		return u, errs.err()
	}

	recipeIDs, err := idSet(ctx, recipes)
	if err != nil {
		return u, fmt.Errorf("load recipe ids: %w", err)
	}

	for i, item := range list {
		field := fmt.Sprintf("recipes[%d]", i)
		id, ok := asInt(item)
		if !ok {
			errs.typeErr(field, "integer")
			continue
		}
		if _, exists := recipeIDs[id]; !exists {
			errs.refErr(field, id, "recipe")
			continue
		}
		u.Recipes = append(u.Recipes, id)
	}

	return u, errs.err()
}
