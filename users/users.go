package users

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"recipesplusplus/grocery"
	"recipesplusplus/ids"
	"recipesplusplus/models"
	"recipesplusplus/mq"
	"recipesplusplus/store"
	"recipesplusplus/utils"
	"recipesplusplus/validate"
)

type Handler struct {
	Users   store.Collection[models.User]
	Catalog grocery.Catalog
	IDs     *ids.Allocator
	Events  *mq.Hub
}

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	all, err := h.Users.All(r.Context())
	if err != nil {
		utils.RespondWithFailure(w, r, err, "no users exist")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, all)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := utils.ParseID(ps)
	if err != nil {
		utils.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	u, err := store.Get(r.Context(), h.Users, id)
	if err != nil {
		utils.RespondWithFailure(w, r, err, "no user exists")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, u)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	u, err := h.decode(r)
	if err != nil {
		utils.RespondWithFailure(w, r, err, "no user added")
		return
	}

	u.ID, err = h.IDs.Insert(ctx, h.Users, func(ctx context.Context, id int) error {
		u.ID = id
		return h.Users.Insert(ctx, u)
	})
	if err != nil {
		utils.RespondWithFailure(w, r, err, "no user added")
		return
	}

	h.Events.Emit(mq.Event{EntityType: h.Users.Name(), Method: mq.MethodCreate, EntityID: u.ID})
	utils.RespondWithJSON(w, http.StatusCreated, u)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := utils.ParseID(ps)
	if err != nil {
		utils.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.decode(r)
	if err != nil {
		utils.RespondWithFailure(w, r, err, "no user updated")
		return
	}

	if err := h.Users.Update(r.Context(), id, u.Fields()); err != nil {
		utils.RespondWithFailure(w, r, err, "no user updated")
		return
	}

	u.ID = id
	h.Events.Emit(mq.Event{EntityType: h.Users.Name(), Method: mq.MethodUpdate, EntityID: id})
	utils.RespondWithJSON(w, http.StatusOK, u)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := utils.ParseID(ps)
	if err != nil {
		utils.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.Remove(r.Context(), h.Users, id); err != nil {
		utils.RespondWithFailure(w, r, err, "no user deleted")
		return
	}

	h.Events.Emit(mq.Event{EntityType: h.Users.Name(), Method: mq.MethodDelete, EntityID: id})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "id": id})
}

// GetGroceryList merges the ingredients of every recipe the user saved.
func (h *Handler) GetGroceryList(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := utils.ParseID(ps)
	if err != nil {
		utils.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	u, err := store.Get(ctx, h.Users, id)
	if err != nil {
		utils.RespondWithFailure(w, r, err, "no user exists")
		return
	}

	items, err := grocery.Build(ctx, h.Catalog, u)
	if err != nil {
		utils.RespondWithFailure(w, r, err, "no grocery list")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

func (h *Handler) decode(r *http.Request) (models.User, error) {
	raw, err := validate.Decode(r.Body)
	if err != nil {
		return models.User{}, err
	}
	return validate.User(r.Context(), raw, h.Catalog.Recipes)
}
