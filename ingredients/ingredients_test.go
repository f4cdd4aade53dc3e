package ingredients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"recipesplusplus/ids"
	"recipesplusplus/models"
	"recipesplusplus/mq"
	"recipesplusplus/store"
	"recipesplusplus/utils"
)

func newHandler(t *testing.T, seed ...models.Ingredient) *Handler {
	t.Helper()
	c := store.NewMemory[models.Ingredient]("ingredients")
	for _, ing := range seed {
		require.NoError(t, c.Insert(context.Background(), ing))
	}
	return &Handler{Ingredients: c, IDs: ids.NewAllocator(), Events: mq.NewHub()}
}

func idParam(id string) httprouter.Params {
	return httprouter.Params{{Key: "id", Value: id}}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var resp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateIngredient(t *testing.T) {
	testCases := []struct {
		name          string
		body          string
		checkResponse func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name: "OK",
			body: `{"name":"Flour","image_url":"/static/uploads/flour.jpg"}`,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusCreated, rec.Code)
				var got models.Ingredient
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				require.Equal(t, models.Ingredient{ID: 0, Name: "Flour", ImageURL: "/static/uploads/flour.jpg"}, got)
			},
		},
		{
			name: "DefaultImageURL",
			body: `{"name":"Sugar"}`,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusCreated, rec.Code)
				var got models.Ingredient
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				require.Equal(t, "", got.ImageURL)
			},
		},
		{
			name: "MissingName",
			body: `{"image_url":7}`,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, rec.Code)
				resp := decodeError(t, rec)
				require.Len(t, resp.Fields, 2)
				require.Contains(t, resp.Error, "name (non-empty string)")
				require.Contains(t, resp.Error, "image_url (string)")
			},
		},
		{
			name: "InvalidJSON",
			body: `{"name":`,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, rec.Code)
				require.Equal(t, "invalid JSON", decodeError(t, rec).Error)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHandler(t)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/ingredients", strings.NewReader(tc.body))

			h.CreateIngredient(rec, req, nil)
			tc.checkResponse(t, rec)
		})
	}
}

func TestCreateIngredientReusesDeletedID(t *testing.T) {
	h := newHandler(t,
		models.Ingredient{ID: 0, Name: "Flour"},
		models.Ingredient{ID: 2, Name: "Eggs"},
	)

	rec := httptest.NewRecorder()
	h.CreateIngredient(rec, httptest.NewRequest(http.MethodPost, "/ingredients", strings.NewReader(`{"name":"Sugar"}`)), nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got models.Ingredient
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, 1, got.ID)
}

func TestGetIngredients(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		h := newHandler(t)
		rec := httptest.NewRecorder()
		h.GetIngredients(rec, httptest.NewRequest(http.MethodGet, "/ingredients", nil), nil)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "no ingredients exist: not found", decodeError(t, rec).Error)
	})

	t.Run("OK", func(t *testing.T) {
		h := newHandler(t,
			models.Ingredient{ID: 1, Name: "Sugar"},
			models.Ingredient{ID: 0, Name: "Flour"},
		)
		rec := httptest.NewRecorder()
		h.GetIngredients(rec, httptest.NewRequest(http.MethodGet, "/ingredients", nil), nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var got []models.Ingredient
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Equal(t, []models.Ingredient{{ID: 0, Name: "Flour"}, {ID: 1, Name: "Sugar"}}, got)
	})
}

func TestGetIngredient(t *testing.T) {
	testCases := []struct {
		name   string
		id     string
		status int
	}{
		{name: "OK", id: "0", status: http.StatusOK},
		{name: "NotFound", id: "9", status: http.StatusBadRequest},
		{name: "BadID", id: "flour", status: http.StatusBadRequest},
		{name: "NegativeID", id: "-1", status: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHandler(t, models.Ingredient{ID: 0, Name: "Flour"})
			rec := httptest.NewRecorder()
			h.GetIngredient(rec, httptest.NewRequest(http.MethodGet, "/ingredients/"+tc.id, nil), idParam(tc.id))
			require.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestUpdateIngredient(t *testing.T) {
	h := newHandler(t, models.Ingredient{ID: 0, Name: "Flour", ImageURL: "old.jpg"})
	events, cancel := h.Events.Subscribe()
	defer cancel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/ingredients/0", strings.NewReader(`{"name":"Wholemeal flour"}`))
	h.UpdateIngredient(rec, req, idParam("0"))
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := store.Get(context.Background(), h.Ingredients, 0)
	require.NoError(t, err)
	require.Equal(t, models.Ingredient{ID: 0, Name: "Wholemeal flour"}, stored)
	require.Equal(t, mq.Event{EntityType: "ingredients", Method: mq.MethodUpdate, EntityID: 0}, <-events)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/ingredients/4", strings.NewReader(`{"name":"Salt"}`))
	h.UpdateIngredient(rec, req, idParam("4"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "no ingredient updated: not found", decodeError(t, rec).Error)
}

func TestDeleteIngredient(t *testing.T) {
	h := newHandler(t, models.Ingredient{ID: 3, Name: "Flour"})
	events, cancel := h.Events.Subscribe()
	defer cancel()

	rec := httptest.NewRecorder()
	h.DeleteIngredient(rec, httptest.NewRequest(http.MethodDelete, "/ingredients/3", nil), idParam(strconv.Itoa(3)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success":true,"id":3}`, rec.Body.String())
	require.Equal(t, mq.Event{EntityType: "ingredients", Method: mq.MethodDelete, EntityID: 3}, <-events)

	rec = httptest.NewRecorder()
	h.DeleteIngredient(rec, httptest.NewRequest(http.MethodDelete, "/ingredients/3", nil), idParam("3"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
