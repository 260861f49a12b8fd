package leagues

import "net/http"

// RegisterRoutes mounts the league and match endpoints on mux.
func RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/leagues/{id}/teams", HandleAddTeam)
	mux.HandleFunc("DELETE /api/v1/leagues/{id}/teams/{team_id}", HandleRemoveTeam)
	mux.HandleFunc("GET /api/v1/leagues/{id}/standings", HandleStandings)
	mux.HandleFunc("GET /api/v1/leagues/{id}/audit", HandleAudit)
	mux.HandleFunc("POST /api/v1/leagues/{id}/rebuild", HandleRebuild)

	mux.HandleFunc("POST /api/v1/matches", HandleMatchCreate)
	mux.HandleFunc("GET /api/v1/matches/{id}", HandleMatchDetail)
	mux.HandleFunc("POST /api/v1/matches/{id}/result", HandleMatchResult)
	mux.HandleFunc("POST /api/v1/matches/{id}/cancel", HandleMatchCancel)
	mux.HandleFunc("POST /api/v1/matches/{id}/refold", HandleMatchRefold)
}
