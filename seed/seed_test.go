package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"recipesplusplus/ids"
	"recipesplusplus/models"
	"recipesplusplus/store"
)

const catalogue = `
units:
  - name: cup
  - name: gram
  - name: cup
ingredients:
  - name: Flour
    image_url: /static/uploads/flour.jpg
  - name: Sugar
`

func newTarget() Target {
	return Target{
		Units:       store.NewMemory[models.Unit]("units"),
		Ingredients: store.NewMemory[models.Ingredient]("ingredients"),
		IDs:         ids.NewAllocator(),
	}
}

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(catalogue))
	require.NoError(t, err)
	require.Len(t, f.Units, 3)
	require.Equal(t, models.Ingredient{Name: "Flour", ImageURL: "/static/uploads/flour.jpg"}, f.Ingredients[0])

	empty, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, empty.Units)
}

func TestParseRejects(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
	}{
		{name: "UnknownField", doc: "unitz:\n  - name: cup\n"},
		{name: "MissingUnitName", doc: "units:\n  - name: \"\"\n"},
		{name: "MissingIngredientName", doc: "ingredients:\n  - image_url: x.jpg\n"},
		{name: "NotYAML", doc: "units: [\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.doc))
			require.Error(t, err)
		})
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	target := newTarget()
	f, err := Parse(strings.NewReader(catalogue))
	require.NoError(t, err)

	res, err := Apply(ctx, target, f)
	require.NoError(t, err)
	require.Equal(t, Result{UnitsAdded: 2, UnitsSkipped: 1, IngredientsAdded: 2}, res)

	units, err := target.Units.All(ctx)
	require.NoError(t, err)
	require.Equal(t, []models.Unit{{ID: 0, Name: "cup"}, {ID: 1, Name: "gram"}}, units)

	res, err = Apply(ctx, target, f)
	require.NoError(t, err)
	require.Equal(t, Result{UnitsSkipped: 3, IngredientsSkipped: 2}, res)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogue), 0o600))

	f, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, f.Ingredients, 2)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestApplyRejectsBlankNames(t *testing.T) {
	ctx := context.Background()
	target := newTarget()

	f := &File{
		Units:       []models.Unit{{Name: "cup"}, {Name: "  "}},
		Ingredients: []models.Ingredient{{Name: ""}},
	}
	_, err := Apply(ctx, target, f)
	require.Error(t, err)
	require.Contains(t, err.Error(), "units[1]")
	require.Contains(t, err.Error(), "ingredients[0]")

	_, err = target.Units.All(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)
}
