package models

type User struct {
	ID      int    `bson:"id"      json:"id"`
	Email   string `bson:"email"   json:"email"`
	Name    string `bson:"name"    json:"name"`
	Recipes []int  `bson:"recipes" json:"recipes"`
}

func (u User) Fields() map[string]any {
	return map[string]any{
		"email":   u.Email,
		"name":    u.Name,
		"recipes": u.Recipes,
	}
}

// GroceryItem is one merged line of a user's grocery list.
type GroceryItem struct {
	Ingredient Ingredient `json:"ingredient"`
	Unit       Unit       `json:"unit"`
	Quantity   int        `json:"quantity"`
}
