package models

// RecipeIngredient is one ingredient line of a recipe.
type RecipeIngredient struct {
	IngredientID int `bson:"ingredientId" json:"ingredientId"`
	UnitID       int `bson:"unitId"       json:"unitId"`
	Quantity     int `bson:"quantity"     json:"quantity"`
}

type Recipe struct {
	ID           int                `bson:"id"           json:"id"`
	Name         string             `bson:"name"         json:"name"`
	Instructions []string           `bson:"instructions" json:"instructions"`
	Ingredients  []RecipeIngredient `bson:"ingredients"  json:"ingredients"`
	Calories     int                `bson:"calories"     json:"calories"`
	Time         int                `bson:"time"         json:"time"`
	ImageURL     string             `bson:"image_url"    json:"image_url"`
}

// Fields returns the mutable fields of r keyed by their stored names.
func (r Recipe) Fields() map[string]any {
	return map[string]any{
		"name":         r.Name,
		"instructions": r.Instructions,
		"ingredients":  r.Ingredients,
		"calories":     r.Calories,
		"time":         r.Time,
		"image_url":    r.ImageURL,
	}
}
