package validate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"recipesplusplus/models"
)

type fixedIDs []int

func (f fixedIDs) IDs(ctx context.Context) ([]int, error) { return f, nil }

type failingIDs struct{}

func (failingIDs) IDs(ctx context.Context) ([]int, error) { return nil, errors.New("store down") }

func decode(t *testing.T, body string) Raw {
	t.Helper()
	raw, err := Decode(strings.NewReader(body))
	require.NoError(t, err)
	return raw
}

func fieldErrors(t *testing.T, err error) Errors {
	t.Helper()
	var errs Errors
	require.True(t, errors.As(err, &errs), "expected validate.Errors, got %v", err)
	return errs
}

func TestDecode(t *testing.T) {
	for _, body := range []string{"", "not json", "[1,2]", "null", `"name"`} {
		_, err := Decode(strings.NewReader(body))
		require.ErrorIs(t, err, ErrInvalidJSON, body)
	}

	raw, err := Decode(strings.NewReader(`{"name":"salt","n":2}`))
	require.NoError(t, err)
	require.Equal(t, "salt", raw["name"])
}

func TestIngredient(t *testing.T) {
	t.Run("defaults image_url", func(t *testing.T) {
		ing, err := Ingredient(decode(t, `{"name":"Flour"}`))
		require.NoError(t, err)
		require.Equal(t, models.Ingredient{Name: "Flour", ImageURL: ""}, ing)
	})

	t.Run("keeps image_url", func(t *testing.T) {
		ing, err := Ingredient(decode(t, `{"name":"Flour","image_url":"/static/uploads/a.jpg"}`))
		require.NoError(t, err)
		require.Equal(t, "/static/uploads/a.jpg", ing.ImageURL)
	})

	t.Run("reports every field", func(t *testing.T) {
		_, err := Ingredient(decode(t, `{"name":"","image_url":5}`))
		errs := fieldErrors(t, err)
		require.Len(t, errs, 2)
		require.True(t, errs.Has("name", KindType))
		require.True(t, errs.Has("image_url", KindType))
		require.Contains(t, err.Error(), "name")
		require.Contains(t, err.Error(), "image_url")
	})

	t.Run("name must be a string", func(t *testing.T) {
		_, err := Ingredient(decode(t, `{"name":12}`))
		require.True(t, fieldErrors(t, err).Has("name", KindType))
	})
}

func TestRecipe(t *testing.T) {
	ctx := context.Background()
	ingredients := fixedIDs{0, 1}
	units := fixedIDs{0}

	t.Run("valid with defaults", func(t *testing.T) {
		rec, err := Recipe(ctx, decode(t, `{
			"name": "Bread",
			"instructions": ["mix", "bake"],
			"ingredients": [{"ingredientId": 0, "unitId": 0, "quantity": 2}]
		}`), ingredients, units)
		require.NoError(t, err)
		require.Equal(t, "Bread", rec.Name)
		require.Equal(t, []string{"mix", "bake"}, rec.Instructions)
		require.Equal(t, []models.RecipeIngredient{{IngredientID: 0, UnitID: 0, Quantity: 2}}, rec.Ingredients)
		require.Equal(t, -1, rec.Calories)
		require.Equal(t, -1, rec.Time)
		require.Equal(t, "", rec.ImageURL)
	})

	t.Run("optional fields", func(t *testing.T) {
		rec, err := Recipe(ctx, decode(t, `{
			"name": "Bread", "instructions": [], "calories": 300, "time": 45, "image_url": "x.jpg",
			"ingredients": [{"ingredientId": 1, "unitId": 0, "quantity": 1}]
		}`), ingredients, units)
		require.NoError(t, err)
		require.Equal(t, 300, rec.Calories)
		require.Equal(t, 45, rec.Time)
		require.Equal(t, "x.jpg", rec.ImageURL)
		require.Empty(t, rec.Instructions)
	})

	t.Run("unknown ingredient is a reference error", func(t *testing.T) {
		_, err := Recipe(ctx, decode(t, `{
			"name": "Bread", "instructions": [],
			"ingredients": [{"ingredientId": 42, "unitId": 0, "quantity": 1}]
		}`), ingredients, units)
		errs := fieldErrors(t, err)
		require.True(t, errs.Has("ingredients[0].ingredientId", KindReference))
		require.False(t, errs.Has("ingredients[0].ingredientId", KindType))
	})

	t.Run("unknown unit is a reference error", func(t *testing.T) {
		_, err := Recipe(ctx, decode(t, `{
			"name": "Bread", "instructions": [],
			"ingredients": [{"ingredientId": 0, "unitId": 9, "quantity": 1}]
		}`), ingredients, units)
		require.True(t, fieldErrors(t, err).Has("ingredients[0].unitId", KindReference))
	})

	t.Run("mistyped line fields are type errors", func(t *testing.T) {
		_, err := Recipe(ctx, decode(t, `{
			"name": "Bread", "instructions": [],
			"ingredients": [{"ingredientId": "0", "unitId": 0.5, "quantity": true}]
		}`), ingredients, units)
		errs := fieldErrors(t, err)
		require.True(t, errs.Has("ingredients[0].ingredientId", KindType))
		require.True(t, errs.Has("ingredients[0].unitId", KindType))
		require.True(t, errs.Has("ingredients[0].quantity", KindType))
	})

	t.Run("accumulates across fields and lines", func(t *testing.T) {
		_, err := Recipe(ctx, decode(t, `{
			"instructions": ["ok", 3],
			"calories": "many",
			"time": 1.5,
			"image_url": false,
			"ingredients": [
				{"ingredientId": 0, "unitId": 0, "quantity": 1},
				"flour",
				{"ingredientId": 7, "unitId": 8, "quantity": 1}
			]
		}`), ingredients, units)
		errs := fieldErrors(t, err)
		require.True(t, errs.Has("name", KindType))
		require.True(t, errs.Has("instructions[1]", KindType))
		require.True(t, errs.Has("calories", KindType))
		require.True(t, errs.Has("time", KindType))
		require.True(t, errs.Has("image_url", KindType))
		require.True(t, errs.Has("ingredients[1]", KindType))
		require.True(t, errs.Has("ingredients[2].ingredientId", KindReference))
		require.True(t, errs.Has("ingredients[2].unitId", KindReference))
		require.Len(t, errs, 8)
	})

	t.Run("ingredients required and non-empty", func(t *testing.T) {
		for _, body := range []string{
			`{"name":"Bread","instructions":[]}`,
			`{"name":"Bread","instructions":[],"ingredients":[]}`,
			`{"name":"Bread","instructions":[],"ingredients":null}`,
			`{"name":"Bread","instructions":[],"ingredients":{"ingredientId":0}}`,
		} {
			_, err := Recipe(ctx, decode(t, body), ingredients, units)
			require.True(t, fieldErrors(t, err).Has("ingredients", KindType), body)
		}
	})

	t.Run("instructions required", func(t *testing.T) {
		_, err := Recipe(ctx, decode(t, `{
			"name": "Bread",
			"ingredients": [{"ingredientId": 0, "unitId": 0, "quantity": 1}]
		}`), ingredients, units)
		require.True(t, fieldErrors(t, err).Has("instructions", KindType))
	})

	t.Run("source failure is not a field error", func(t *testing.T) {
		_, err := Recipe(ctx, decode(t, `{
			"name": "Bread", "instructions": [],
			"ingredients": [{"ingredientId": 0, "unitId": 0, "quantity": 1}]
		}`), failingIDs{}, units)
		require.Error(t, err)
		var errs Errors
		require.False(t, errors.As(err, &errs))
	})
}

func TestUser(t *testing.T) {
	ctx := context.Background()
	recipes := fixedIDs{0, 1}

	t.Run("recipes default to empty", func(t *testing.T) {
		u, err := User(ctx, decode(t, `{"email":"a@example.com","name":"Ann"}`), recipes)
		require.NoError(t, err)
		require.Equal(t, models.User{Email: "a@example.com", Name: "Ann", Recipes: []int{}}, u)
	})

	t.Run("existing recipes", func(t *testing.T) {
		u, err := User(ctx, decode(t, `{"email":"a@example.com","name":"Ann","recipes":[1,0]}`), recipes)
		require.NoError(t, err)
		require.Equal(t, []int{1, 0}, u.Recipes)
	})

	t.Run("unknown recipe is rejected", func(t *testing.T) {
		_, err := User(ctx, decode(t, `{"email":"a@example.com","name":"Ann","recipes":[0,5]}`), recipes)
		require.True(t, fieldErrors(t, err).Has("recipes[1]", KindReference))
	})

	t.Run("reports every field", func(t *testing.T) {
		_, err := User(ctx, decode(t, `{"email":"","recipes":["x", 9]}`), recipes)
		errs := fieldErrors(t, err)
		require.True(t, errs.Has("email", KindType))
		require.True(t, errs.Has("name", KindType))
		require.True(t, errs.Has("recipes[0]", KindType))
		require.True(t, errs.Has("recipes[1]", KindReference))
	})

	t.Run("recipes must be a list", func(t *testing.T) {
		_, err := User(ctx, decode(t, `{"email":"a@example.com","name":"Ann","recipes":3}`), recipes)
		require.True(t, fieldErrors(t, err).Has("recipes", KindType))
	})
}
