package utils

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"recipesplusplus/store"
	"recipesplusplus/validate"
)

type M map[string]interface{}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string          `json:"error"`
	Fields    validate.Errors `json:"fields,omitempty"`
	RequestID string          `json:"requestId,omitempty"`
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

func RespondWithError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	RespondWithJSON(w, code, ErrorResponse{Error: msg, RequestID: RequestID(r.Context())})
}

// RespondWithFailure reports a failed resource operation as a 400. Field
// errors are listed individually; other errors are logged and summarised by
// msg, with "not found" appended when the cause is a missing record.
func RespondWithFailure(w http.ResponseWriter, r *http.Request, err error, msg string) {
	resp := ErrorResponse{Error: msg, RequestID: RequestID(r.Context())}

	var fieldErrs validate.Errors
	switch {
	case errors.As(err, &fieldErrs):
		resp.Error = fieldErrs.Error()
		resp.Fields = fieldErrs
	case errors.Is(err, validate.ErrInvalidJSON):
		resp.Error = "invalid JSON"
	case errors.Is(err, store.ErrNotFound):
		resp.Error = msg + ": not found"
	default:
		slog.Error("request failed",
			"requestID", resp.RequestID,
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}

	RespondWithJSON(w, http.StatusBadRequest, resp)
}

// ParseID reads the integer :id route parameter.
func ParseID(ps httprouter.Params) (int, error) {
	id, err := strconv.Atoi(ps.ByName("id"))
	if err != nil || id < 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
