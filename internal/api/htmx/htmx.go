package htmx

import (
	"net/http"
	"strings"
)

// StandingsChangedEvent lets open standings tables refresh themselves.
const StandingsChangedEvent = "standings-changed"

func IsRequest(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("HX-Request"), "true")
}

// Trigger asks htmx to fire event on the client after the swap.
func Trigger(w http.ResponseWriter, event string) {
	if existing := w.Header().Get("HX-Trigger"); existing != "" {
		event = existing + ", " + event
	}
	w.Header().Set("HX-Trigger", event)
}
