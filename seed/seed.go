// Package seed loads the unit and ingredient catalogue from a YAML file.
// Units have no write endpoint, so this is how they get into the store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"recipesplusplus/ids"
	"recipesplusplus/models"
	"recipesplusplus/store"
)

// File is the seed document:
//
//	units:
//	  - name: cup
//	ingredients:
//	  - name: Flour
//	    image_url: /static/uploads/flour.jpg
type File struct {
	Units       []models.Unit       `yaml:"units"`
	Ingredients []models.Ingredient `yaml:"ingredients"`
}

// Result counts what a seed run inserted and skipped.
type Result struct {
	UnitsAdded         int
	UnitsSkipped       int
	IngredientsAdded   int
	IngredientsSkipped int
}

func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate applies the rules the API applies to the same records: every
// unit and ingredient needs a non-blank name.
func (f *File) Validate() error {
	var errs []error
	for i, u := range f.Units {
		if strings.TrimSpace(u.Name) == "" {
			errs = append(errs, fmt.Errorf("units[%d]: name is required", i))
		}
	}
	for i, ing := range f.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			errs = append(errs, fmt.Errorf("ingredients[%d]: name is required", i))
		}
	}
	return errors.Join(errs...)
}

func ParseFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Parse(fh)
}

type Target struct {
	Units       store.Collection[models.Unit]
	Ingredients store.Collection[models.Ingredient]
	IDs         *ids.Allocator
}

// Apply inserts every unit and ingredient whose name is not already stored.
// Running it twice with the same file inserts nothing the second time.
func Apply(ctx context.Context, t Target, f *File) (Result, error) {
	var res Result
	if err := f.Validate(); err != nil {
		return res, err
	}

	for _, u := range f.Units {
		added, err := insertNamed(ctx, t.IDs, t.Units, u.Name, func(id int) models.Unit {
			u.ID = id
			return u
		})
		if err != nil {
			return res, err
		}
		if added {
			res.UnitsAdded++
		} else {
			res.UnitsSkipped++
		}
	}

	for _, ing := range f.Ingredients {
		added, err := insertNamed(ctx, t.IDs, t.Ingredients, ing.Name, func(id int) models.Ingredient {
			ing.ID = id
			return ing
		})
		if err != nil {
			return res, err
		}
		if added {
			res.IngredientsAdded++
		} else {
			res.IngredientsSkipped++
		}
	}

	slog.Info("seed applied",
		"unitsAdded", res.UnitsAdded,
		"unitsSkipped", res.UnitsSkipped,
		"ingredientsAdded", res.IngredientsAdded,
		"ingredientsSkipped", res.IngredientsSkipped,
	)
	return res, nil
}

func insertNamed[T any](ctx context.Context, alloc *ids.Allocator, c store.Collection[T], name string, build func(id int) T) (bool, error) {
	_, err := c.FindBy(ctx, "name", name)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, fmt.Errorf("look up %s %q: %w", c.Name(), name, err)
	}

	_, err = alloc.Insert(ctx, c, func(ctx context.Context, id int) error {
		return c.Insert(ctx, build(id))
	})
	if err != nil {
		return false, fmt.Errorf("insert %s %q: %w", c.Name(), name, err)
	}
	return true, nil
}
