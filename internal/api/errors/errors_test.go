package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteError_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, "акт не найден")

	if rec.Code != http.StatusNotFound {
		t.Errorf("статус = %d, ожидается 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body struct {
		Error struct {
			Code    string            `json:"code"`
			Message string            `json:"message"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("ошибка разбора ответа: %v", err)
	}
	if body.Error.Code != CodeNotFound || body.Error.Message != "акт не найден" {
		t.Errorf("тело = %+v", body.Error)
	}
	if body.Error.Details != nil {
		t.Errorf("details = %v, ожидается отсутствие", body.Error.Details)
	}
}

func TestFieldErrors_Details(t *testing.T) {
	rec := httptest.NewRecorder()
	FieldErrors(rec, "ошибка валидации", map[string]string{"title": "required"})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("статус = %d, ожидается 400", rec.Code)
	}
	var body map[string]map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("ошибка разбора ответа: %v", err)
	}
	details, ok := body["error"]["details"].(map[string]any)
	if !ok || details["title"] != "required" {
		t.Errorf("details = %v", body["error"]["details"])
	}
}
