// Package suggestions recommends recipes a user has not saved yet.
package suggestions

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"recipesplusplus/models"
	"recipesplusplus/store"
	"recipesplusplus/utils"
)

const DefaultLimit = 10

type Handler struct {
	Users   store.Collection[models.User]
	Recipes store.Collection[models.Recipe]
}

// Suggestion is a recipe and how many of its ingredients already appear in
// the user's saved recipes.
type Suggestion struct {
	Recipe models.Recipe `json:"recipe"`
	Shared int           `json:"shared"`
}

// SuggestRecipes pages through Rank for one user.
func (h *Handler) SuggestRecipes(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := utils.ParseID(ps)
	if err != nil {
		utils.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	user, err := store.Get(ctx, h.Users, id)
	if err != nil {
		utils.RespondWithFailure(w, r, err, "no user exists")
		return
	}

	all, err := h.Recipes.All(ctx)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		utils.RespondWithFailure(w, r, err, "no suggestions")
		return
	}

	// Pagination parameters
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}

	ranked := Rank(user, all)
	skip := (page - 1) * limit
	if skip > len(ranked) {
		skip = len(ranked)
	}
	end := skip + limit
	if end > len(ranked) {
		end = len(ranked)
	}

	utils.RespondWithJSON(w, http.StatusOK, ranked[skip:end])
}

// Rank orders the recipes the user has not saved by the number of distinct
// ingredients they share with the user's saved recipes, most first, then by
// id.
func Rank(user models.User, all []models.Recipe) []Suggestion {
	saved := make(map[int]struct{}, len(user.Recipes))
	for _, id := range user.Recipes {
		saved[id] = struct{}{}
	}

	pantry := make(map[int]struct{})
	for _, rec := range all {
		if _, ok := saved[rec.ID]; !ok {
			continue
		}
		for _, line := range rec.Ingredients {
			pantry[line.IngredientID] = struct{}{}
		}
	}

	out := []Suggestion{}
	for _, rec := range all {
		if _, ok := saved[rec.ID]; ok {
			continue
		}
		seen := make(map[int]struct{})
		for _, line := range rec.Ingredients {
			if _, ok := pantry[line.IngredientID]; ok {
				seen[line.IngredientID] = struct{}{}
			}
		}
		out = append(out, Suggestion{Recipe: rec, Shared: len(seen)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Shared != out[j].Shared {
			return out[i].Shared > out[j].Shared
		}
		return out[i].Recipe.ID < out[j].Recipe.ID
	})
	return out
}
