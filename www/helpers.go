package www

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"freightcore/match"
)

func (h *Handlers) jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (h *Handlers) jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}

// httpStatusFor maps stable domain error codes onto HTTP statuses.
func httpStatusFor(code string) int {
	switch code {
	case match.CodeValidationError:
		return http.StatusBadRequest
	case match.CodeForeignKeyNotFound:
		return http.StatusUnprocessableEntity
	case match.CodeNotFound:
		return http.StatusNotFound
	case match.CodeInvalidStateTransition, match.CodeConflict:
		return http.StatusConflict
	case match.CodeSaveFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// jsonDomainError renders an engine error with its stable code so API
// clients can branch without parsing messages. Errors that carry no code
// are logged and answered generically; their text never reaches a client.
func (h *Handlers) jsonDomainError(w http.ResponseWriter, r *http.Request, err error) {
	de := match.AsError(err)
	if de == nil {
		h.jsonInternalError(w, r, err)
		return
	}
	body := map[string]any{
		"success":   false,
		"errorCode": de.Code,
		"message":   de.Message,
	}
	if de.Field != "" {
		body["field"] = de.Field
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusFor(de.Code))
	json.NewEncoder(w).Encode(body)
}

// jsonInternalError logs the full error server-side and sends a generic
// Unknown body.
func (h *Handlers) jsonInternalError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("www: %s %s: %v", r.Method, r.URL.Path, err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]any{
		"success":   false,
		"errorCode": match.CodeUnknown,
		"message":   "internal error",
	})
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(v)
}

func queryLimit(r *http.Request, def int) int {
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			return n
		}
	}
	return def
}
