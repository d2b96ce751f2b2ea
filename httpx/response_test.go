package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]int{"n": 1})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type %q", ct)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"n":1}` {
		t.Fatalf("body %q", rec.Body.String())
	}
}

func TestJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, http.StatusNotFound, "not_found", nil)
	if rec.Body.String() != `{"error":"not_found"}` {
		t.Fatalf("body %q", rec.Body.String())
	}
}

func TestWantsJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if WantsJSON(r) {
		t.Fatal("plain request should not want JSON")
	}
	r.Header.Set("Accept", "application/json")
	if !WantsJSON(r) {
		t.Fatal("Accept: application/json should want JSON")
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":2}`))
	if err := DecodeJSON(r, &v); err != nil || v.A != 2 {
		t.Fatalf("decode: %v %+v", err, v)
	}
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"b":2}`))
	if err := DecodeJSON(r, &v); err == nil {
		t.Fatal("unknown field should be rejected")
	}
}
