package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"recipesplusplus/store"
	"recipesplusplus/validate"
)

func TestRespondWithFailure(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantError  string
		wantFields int
	}{
		{
			name:       "field errors",
			err:        validate.Errors{{Field: "name", Problem: "non-empty string", Kind: validate.KindType}},
			wantError:  "please fix the following values: name (non-empty string)",
			wantFields: 1,
		},
		{
			name:      "not found",
			err:       fmt.Errorf("recipe 3: %w", store.ErrNotFound),
			wantError: "no recipe updated: not found",
		},
		{
			name:      "invalid json",
			err:       validate.ErrInvalidJSON,
			wantError: "invalid JSON",
		},
		{
			name:      "other",
			err:       errors.New("socket closed"),
			wantError: "no recipe updated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/recipes/3", nil)
			req = req.WithContext(WithRequestID(req.Context(), "req-1"))
			rec := httptest.NewRecorder()

			RespondWithFailure(rec, req, tt.err, "no recipe updated")

			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tt.wantError, body.Error)
			require.Len(t, body.Fields, tt.wantFields)
			require.Equal(t, "req-1", body.RequestID)
		})
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID(httprouter.Params{{Key: "id", Value: "12"}})
	require.NoError(t, err)
	require.Equal(t, 12, id)

	for _, v := range []string{"", "abc", "-1", "1.5"} {
		_, err := ParseID(httprouter.Params{{Key: "id", Value: v}})
		require.Error(t, err, v)
	}
}
