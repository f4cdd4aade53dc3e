// Package units serves the read-only unit catalogue. Units are written only
// by the seed command.
package units

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"recipesplusplus/models"
	"recipesplusplus/store"
	"recipesplusplus/utils"
)

type Handler struct {
	Units store.Collection[models.Unit]
}

func (h *Handler) GetUnits(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	all, err := h.Units.All(r.Context())
	if err != nil {
		utils.RespondWithFailure(w, r, err, "no units exist")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, all)
}

func (h *Handler) GetUnit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := utils.ParseID(ps)
	if err != nil {
		utils.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	u, err := store.Get(r.Context(), h.Units, id)
	if err != nil {
		utils.RespondWithFailure(w, r, err, "no unit exists")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, u)
}
