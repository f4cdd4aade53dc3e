package recipes

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"recipesplusplus/ids"
	"recipesplusplus/models"
	"recipesplusplus/mq"
	"recipesplusplus/store"
	"recipesplusplus/utils"
	"recipesplusplus/validate"
)

type Handler struct {
	Recipes     store.Collection[models.Recipe]
	Ingredients store.Collection[models.Ingredient]
	Units       store.Collection[models.Unit]
	IDs         *ids.Allocator
	Events      *mq.Hub
}

// Get all recipes
//
// Optional query params narrow the list: search matches the name
// case-insensitively, ingredient keeps recipes using that ingredient id,
// offset and limit page through the result.
func (h *Handler) GetRecipes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	all, err := h.Recipes.All(r.Context())
	if err != nil {
		utils.RespondWithFailure(w, r, err, "no recipes exist")
		return
	}

	q := r.URL.Query()
	search := strings.ToLower(strings.TrimSpace(q.Get("search")))
	ingredient, filterIngredient := -1, false
	if s := q.Get("ingredient"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			ingredient, filterIngredient = v, true
		}
	}

	out := make([]models.Recipe, 0, len(all))
	for _, rec := range all {
		if search != "" && !strings.Contains(strings.ToLower(rec.Name), search) {
			continue
		}
		if filterIngredient && !uses(rec, ingredient) {
			continue
		}
		out = append(out, rec)
	}

	// --- Pagination ---
	offset, err := strconv.Atoi(q.Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]

	limit, err := strconv.Atoi(q.Get("limit"))
	if err == nil && limit > 0 && limit < len(out) {
		out = out[:limit]
	}

	utils.RespondWithJSON(w, http.StatusOK, out)
}

func uses(rec models.Recipe, ingredientID int) bool {
	for _, line := range rec.Ingredients {
		if line.IngredientID == ingredientID {
			return true
		}
	}
	return false
}

// Get one recipe
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := utils.ParseID(ps)
	if err != nil {
		utils.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := store.Get(r.Context(), h.Recipes, id)
	if err != nil {
		utils.RespondWithFailure(w, r, err, "no recipe exists")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rec)
}

// Create
func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	rec, err := h.decode(r)
	if err != nil {
		utils.RespondWithFailure(w, r, err, "no recipe added")
		return
	}

	rec.ID, err = h.IDs.Insert(ctx, h.Recipes, func(ctx context.Context, id int) error {
		rec.ID = id
		return h.Recipes.Insert(ctx, rec)
	})
	if err != nil {
		utils.RespondWithFailure(w, r, err, "no recipe added")
		return
	}

	h.Events.Emit(mq.Event{EntityType: h.Recipes.Name(), Method: mq.MethodCreate, EntityID: rec.ID})
	utils.RespondWithJSON(w, http.StatusCreated, rec)
}

// Update
func (h *Handler) UpdateRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := utils.ParseID(ps)
	if err != nil {
		utils.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := h.decode(r)
	if err != nil {
		utils.RespondWithFailure(w, r, err, "no recipe updated")
		return
	}

	if err := h.Recipes.Update(r.Context(), id, rec.Fields()); err != nil {
		utils.RespondWithFailure(w, r, err, "no recipe updated")
		return
	}

	rec.ID = id
	h.Events.Emit(mq.Event{EntityType: h.Recipes.Name(), Method: mq.MethodUpdate, EntityID: id})
	utils.RespondWithJSON(w, http.StatusOK, rec)
}

// Delete
func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := utils.ParseID(ps)
	if err != nil {
		utils.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.Remove(r.Context(), h.Recipes, id); err != nil {
		utils.RespondWithFailure(w, r, err, "no recipe deleted")
		return
	}

	h.Events.Emit(mq.Event{EntityType: h.Recipes.Name(), Method: mq.MethodDelete, EntityID: id})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "id": id})
}

func (h *Handler) decode(r *http.Request) (models.Recipe, error) {
	raw, err := validate.Decode(r.Body)
	if err != nil {
		return models.Recipe{}, err
	}
	return validate.Recipe(r.Context(), raw, h.Ingredients, h.Units)
}
