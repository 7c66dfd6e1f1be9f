package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteJSONSetsContentTypeAndStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"OK", http.StatusOK},
		{"Created", http.StatusCreated},
		{"BadGateway", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			WriteJSON(recorder, tt.statusCode, map[string]string{"key": "value"})

			if recorder.Code != tt.statusCode {
				t.Errorf("expected status %d, got %d", tt.statusCode, recorder.Code)
			}
			if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected Content-Type application/json, got %s", ct)
			}
		})
	}
}

func TestWriteJSONEncodesStructBody(t *testing.T) {
	type item struct {
		ID    string `json:"youtube_id"`
		Title string `json:"title"`
	}

	recorder := httptest.NewRecorder()
	WriteJSON(recorder, http.StatusOK, item{ID: "abc", Title: "Tapping"})

	var decoded item
	if err := json.NewDecoder(recorder.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if decoded.ID != "abc" || decoded.Title != "Tapping" {
		t.Errorf("unexpected body %+v", decoded)
	}
}

func TestWriteErrorWithVariousMessages(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		message    string
	}{
		{"NotFound", http.StatusNotFound, "session not found"},
		{"Conflict", http.StatusConflict, "sync already in progress"},
		{"BadGateway", http.StatusBadGateway, "catalog unavailable"},
		{"EmptyMessage", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			WriteError(recorder, tt.statusCode, tt.message)

			if recorder.Code != tt.statusCode {
				t.Errorf("expected status %d, got %d", tt.statusCode, recorder.Code)
			}
			var decoded ErrorBody
			if err := json.NewDecoder(recorder.Body).Decode(&decoded); err != nil {
				t.Fatalf("failed to decode response body: %v", err)
			}
			if decoded.Error != tt.message {
				t.Errorf("expected error=%q, got %q", tt.message, decoded.Error)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var body struct {
		Query string `json:"query"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"query":"tags=tapping"}`))

	if err := DecodeJSON(httptest.NewRecorder(), req, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Query != "tags=tapping" {
		t.Errorf("expected query decoded, got %q", body.Query)
	}
}

func TestDecodeJSONEmptyBody(t *testing.T) {
	body := struct{ Index int }{Index: 3}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))

	if err := DecodeJSON(httptest.NewRecorder(), req, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Index != 3 {
		t.Errorf("expected untouched value, got %d", body.Index)
	}
}

func TestDecodeJSONRejectsMalformedAndOversized(t *testing.T) {
	var body map[string]any
	bad := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"query":`))
	if err := DecodeJSON(httptest.NewRecorder(), bad, &body); err == nil {
		t.Error("expected error for malformed body")
	}

	huge := `{"query":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	big := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(huge))
	if err := DecodeJSON(httptest.NewRecorder(), big, &body); err == nil {
		t.Error("expected error for oversized body")
	}
}
