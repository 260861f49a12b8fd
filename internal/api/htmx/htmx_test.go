package htmx

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if IsRequest(r) {
		t.Fatal("plain request detected as htmx")
	}
	r.Header.Set("HX-Request", "TRUE")
	if !IsRequest(r) {
		t.Fatal("htmx request not detected")
	}
}

func TestTriggerAppends(t *testing.T) {
	rec := httptest.NewRecorder()
	Trigger(rec, "a")
	Trigger(rec, StandingsChangedEvent)
	if got := rec.Header().Get("HX-Trigger"); got != "a, standings-changed" {
		t.Fatalf("HX-Trigger = %q", got)
	}
}
