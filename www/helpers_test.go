package www

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"freightcore/match"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestJSONDomainErrorHidesInternalDetail(t *testing.T) {
	h := &Handlers{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/freight-bids/1", nil)

	h.jsonDomainError(rec, req, errors.New("pgx: connect failed host=db-internal password=hunter2"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["errorCode"] != match.CodeUnknown {
		t.Errorf("errorCode = %v, want Unknown", body["errorCode"])
	}
	if body["message"] != "internal error" {
		t.Errorf("message = %q, want generic", body["message"])
	}
	if strings.Contains(rec.Body.String(), "hunter2") || strings.Contains(rec.Body.String(), "db-internal") {
		t.Errorf("response leaks internal detail: %s", rec.Body.String())
	}
}

func TestJSONDomainErrorKeepsDomainMessage(t *testing.T) {
	h := &Handlers{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/driver-bids", nil)

	h.jsonDomainError(rec, req, match.ValidationErr("Amount", "must not be negative"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["errorCode"] != match.CodeValidationError || body["field"] != "Amount" {
		t.Errorf("body = %v", body)
	}
	if body["message"] != "must not be negative" {
		t.Errorf("message = %q, want the domain message", body["message"])
	}
}

func TestJSONInternalError(t *testing.T) {
	h := &Handlers{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)

	h.jsonInternalError(rec, req, errors.New("sql: database is closed"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false || body["message"] != "internal error" {
		t.Errorf("body = %v", body)
	}
}

func TestHTTPStatusFor(t *testing.T) {
	cases := map[string]int{
		match.CodeValidationError:        http.StatusBadRequest,
		match.CodeForeignKeyNotFound:     http.StatusUnprocessableEntity,
		match.CodeNotFound:               http.StatusNotFound,
		match.CodeInvalidStateTransition: http.StatusConflict,
		match.CodeConflict:               http.StatusConflict,
		match.CodeSaveFailed:             http.StatusServiceUnavailable,
		match.CodeUnknown:                http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := httpStatusFor(code); got != want {
			t.Errorf("httpStatusFor(%s) = %d, want %d", code, got, want)
		}
	}
}
