package ingredients

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"recipesplusplus/ids"
	"recipesplusplus/models"
	"recipesplusplus/mq"
	"recipesplusplus/store"
	"recipesplusplus/utils"
	"recipesplusplus/validate"
)

type Handler struct {
	Ingredients store.Collection[models.Ingredient]
	IDs         *ids.Allocator
	Events      *mq.Hub
}

// GetIngredients lists every ingredient
func (h *Handler) GetIngredients(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	all, err := h.Ingredients.All(r.Context())
	if err != nil {
		utils.RespondWithFailure(w, r, err, "no ingredients exist")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, all)
}

// GetIngredient returns one ingredient by id
func (h *Handler) GetIngredient(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := utils.ParseID(ps)
	if err != nil {
		utils.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ing, err := store.Get(r.Context(), h.Ingredients, id)
	if err != nil {
		utils.RespondWithFailure(w, r, err, "no ingredient exists")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, ing)
}

// CreateIngredient validates the body and stores it under the next free id
func (h *Handler) CreateIngredient(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	raw, err := validate.Decode(r.Body)
	if err != nil {
		utils.RespondWithFailure(w, r, err, "no ingredient added")
		return
	}
	ing, err := validate.Ingredient(raw)
	if err != nil {
		utils.RespondWithFailure(w, r, err, "no ingredient added")
		return
	}

	ing.ID, err = h.IDs.Insert(ctx, h.Ingredients, func(ctx context.Context, id int) error {
		ing.ID = id
		return h.Ingredients.Insert(ctx, ing)
	})
	if err != nil {
		utils.RespondWithFailure(w, r, err, "no ingredient added")
		return
	}

	h.Events.Emit(mq.Event{EntityType: h.Ingredients.Name(), Method: mq.MethodCreate, EntityID: ing.ID})
	utils.RespondWithJSON(w, http.StatusCreated, ing)
}

// UpdateIngredient replaces every mutable field of an ingredient
func (h *Handler) UpdateIngredient(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := utils.ParseID(ps)
	if err != nil {
		utils.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	raw, err := validate.Decode(r.Body)
	if err != nil {
		utils.RespondWithFailure(w, r, err, "no ingredient updated")
		return
	}
	ing, err := validate.Ingredient(raw)
	if err != nil {
		utils.RespondWithFailure(w, r, err, "no ingredient updated")
		return
	}

	if err := h.Ingredients.Update(r.Context(), id, ing.Fields()); err != nil {
		utils.RespondWithFailure(w, r, err, "no ingredient updated")
		return
	}

	ing.ID = id
	h.Events.Emit(mq.Event{EntityType: h.Ingredients.Name(), Method: mq.MethodUpdate, EntityID: id})
	utils.RespondWithJSON(w, http.StatusOK, ing)
}

// DeleteIngredient removes an ingredient. Recipes that still reference it
// are left alone; their grocery lists fail until they are fixed.
func (h *Handler) DeleteIngredient(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := utils.ParseID(ps)
	if err != nil {
		utils.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.Remove(r.Context(), h.Ingredients, id); err != nil {
		utils.RespondWithFailure(w, r, err, "no ingredient deleted")
		return
	}

	h.Events.Emit(mq.Event{EntityType: h.Ingredients.Name(), Method: mq.MethodDelete, EntityID: id})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "id": id})
}
