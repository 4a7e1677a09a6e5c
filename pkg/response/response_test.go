package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorWithDetails(rec, http.StatusBadRequest, "ADDRESS_INCOMPLETE", "missing", map[string]any{"missingFields": []string{"city"}})

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusBadRequest || body["success"] != false || body["error"] != "ADDRESS_INCOMPLETE" {
		t.Fatalf("unexpected envelope %v", body)
	}
	if _, ok := body["details"]; !ok {
		t.Fatalf("expected details")
	}

	rec = httptest.NewRecorder()
	Error(rec, http.StatusNotFound, "DISH_NOT_FOUND", "Dish not found")
	body = map[string]any{}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if _, ok := body["details"]; ok {
		t.Fatalf("details must be omitted when empty")
	}
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Created(rec, map[string]any{"id": 1})
	if rec.Code != http.StatusCreated || rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
}
