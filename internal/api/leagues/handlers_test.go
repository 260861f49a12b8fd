package leagues

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/codr1/matchday/internal/db"
	"github.com/codr1/matchday/internal/leagues"
	"github.com/codr1/matchday/internal/testutil"
)

type testServer struct {
	mux      *http.ServeMux
	svc      *leagues.Service
	leagueID int64
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	database := testutil.NewGuardedTestDB(t)
	svc := leagues.NewService(database, leagues.Options{Location: time.UTC, LockWait: 2 * time.Second})
	InitHandlers(svc)
	t.Cleanup(func() { service = nil })

	leagueID, err := svc.CreateLeague(context.Background(), leagues.CompetitionInput{Name: "Sunday League"})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}

	mux := http.NewServeMux()
	RegisterRoutes(mux)
	return &testServer{mux: mux, svc: svc, leagueID: leagueID}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) team(t *testing.T, name string, member bool) int64 {
	t.Helper()
	teamID, err := s.svc.CreateTeam(context.Background(), name)
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	if member {
		rec := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/leagues/%d/teams", s.leagueID), fmt.Sprintf(`{"teamId":%d}`, teamID), nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("add team status = %d body=%s", rec.Code, rec.Body.String())
		}
	}
	return teamID
}

func (s *testServer) match(t *testing.T, team1, team2 int64, scheduledAt string) int64 {
	t.Helper()
	body := fmt.Sprintf(`{"leagueId":%d,"team1Id":%d,"team2Id":%d,"scheduledAt":%q}`, s.leagueID, team1, team2, scheduledAt)
	rec := s.do(t, http.MethodPost, "/api/v1/matches", body, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create match status = %d body=%s", rec.Code, rec.Body.String())
	}
	return decodeMatch(t, rec).Match.ID
}

func decodeMatch(t *testing.T, rec *httptest.ResponseRecorder) matchResponse {
	t.Helper()
	var resp matchResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode match: %v", err)
	}
	return resp
}

func TestAddTeamConflictsAndMissingReferences(t *testing.T) {
	s := newTestServer(t)
	teamID := s.team(t, "Rovers", true)
	path := fmt.Sprintf("/api/v1/leagues/%d/teams", s.leagueID)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{name: "duplicate", path: path, body: fmt.Sprintf(`{"teamId":%d}`, teamID), wantStatus: http.StatusConflict},
		{name: "unknown team", path: path, body: `{"teamId":9999}`, wantStatus: http.StatusNotFound},
		{name: "unknown league", path: "/api/v1/leagues/9999/teams", body: fmt.Sprintf(`{"teamId":%d}`, teamID), wantStatus: http.StatusNotFound},
		{name: "missing team id", path: path, body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", path: path, body: `{"teamId":1,"captain":true}`, wantStatus: http.StatusBadRequest},
		{name: "bad path id", path: "/api/v1/leagues/abc/teams", body: `{"teamId":1}`, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, tt.path, tt.body, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d body=%s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestRemoveTeam(t *testing.T) {
	s := newTestServer(t)
	teamID := s.team(t, "Rovers", true)
	path := fmt.Sprintf("/api/v1/leagues/%d/teams/%d", s.leagueID, teamID)

	if rec := s.do(t, http.MethodDelete, path, "", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("remove status = %d body=%s", rec.Code, rec.Body.String())
	}
	if rec := s.do(t, http.MethodDelete, path, "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("second remove status = %d, want 404", rec.Code)
	}
}

func TestMatchResultFoldsIntoStandings(t *testing.T) {
	s := newTestServer(t)
	home := s.team(t, "Home", true)
	away := s.team(t, "Away", true)
	matchID := s.match(t, home, away, "2024-03-02T15:00:00Z")

	resultPath := fmt.Sprintf("/api/v1/matches/%d/result", matchID)
	rec := s.do(t, http.MethodPost, resultPath, `{"team1Score":3,"team2Score":1}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("result status = %d body=%s", rec.Code, rec.Body.String())
	}
	resp := decodeMatch(t, rec)
	if resp.Match.Status != leagues.StatusCompleted || resp.Match.StandingsFoldedAt == nil {
		t.Fatalf("match = %+v", resp.Match)
	}

	// Same score again is a no-op; a different score is a conflict.
	if rec := s.do(t, http.MethodPost, resultPath, `{"team1Score":3,"team2Score":1}`, nil); rec.Code != http.StatusOK {
		t.Fatalf("repeat status = %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPost, resultPath, `{"team1Score":0,"team2Score":1}`, nil); rec.Code != http.StatusConflict {
		t.Fatalf("changed score status = %d, want 409", rec.Code)
	}

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/leagues/%d/standings", s.leagueID), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("standings status = %d", rec.Code)
	}
	var standings standingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&standings); err != nil {
		t.Fatalf("decode standings: %v", err)
	}
	if len(standings.Standings) != 2 {
		t.Fatalf("standings = %+v", standings.Standings)
	}
	leader := standings.Standings[0]
	if leader.TeamID != home || leader.Points != 3 || leader.GoalDifference != 2 || leader.MatchesPlayed != 1 {
		t.Fatalf("leader = %+v", leader)
	}
}

func TestMatchResultValidation(t *testing.T) {
	s := newTestServer(t)
	home := s.team(t, "Home", true)
	away := s.team(t, "Away", true)
	matchID := s.match(t, home, away, "2024-03-02T15:00:00Z")
	resultPath := fmt.Sprintf("/api/v1/matches/%d/result", matchID)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{name: "missing score", path: resultPath, body: `{"team1Score":1}`, wantStatus: http.StatusBadRequest},
		{name: "negative score", path: resultPath, body: `{"team1Score":-1,"team2Score":0}`, wantStatus: http.StatusBadRequest},
		{name: "unknown match", path: "/api/v1/matches/9999/result", body: `{"team1Score":1,"team2Score":0}`, wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, tt.path, tt.body, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d body=%s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestMatchCreateValidation(t *testing.T) {
	s := newTestServer(t)
	home := s.team(t, "Home", true)
	away := s.team(t, "Away", true)
	s.match(t, home, away, "2024-03-02T15:00:00Z")

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "both scopes", body: fmt.Sprintf(`{"leagueId":%d,"tournamentId":1,"team1Id":%d,"team2Id":%d,"scheduledAt":"2024-03-05T15:00:00Z"}`, s.leagueID, home, away), wantStatus: http.StatusBadRequest},
		{name: "no scope", body: fmt.Sprintf(`{"team1Id":%d,"team2Id":%d,"scheduledAt":"2024-03-05T15:00:00Z"}`, home, away), wantStatus: http.StatusBadRequest},
		{name: "self match", body: fmt.Sprintf(`{"leagueId":%d,"team1Id":%d,"team2Id":%d,"scheduledAt":"2024-03-05T15:00:00Z"}`, s.leagueID, home, home), wantStatus: http.StatusBadRequest},
		{name: "bad timestamp", body: fmt.Sprintf(`{"leagueId":%d,"team1Id":%d,"team2Id":%d,"scheduledAt":"soon"}`, s.leagueID, home, away), wantStatus: http.StatusBadRequest},
		{name: "same day conflict", body: fmt.Sprintf(`{"leagueId":%d,"team1Id":%d,"team2Id":%d,"scheduledAt":"2024-03-02T19:00:00Z"}`, s.leagueID, away, home), wantStatus: http.StatusConflict},
		{name: "unknown venue", body: fmt.Sprintf(`{"leagueId":%d,"team1Id":%d,"team2Id":%d,"scheduledAt":"2024-03-06T15:00:00Z","venueId":9999}`, s.leagueID, home, away), wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/v1/matches", tt.body, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d body=%s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestDeferredFoldReturnsAcceptedAndRefolds(t *testing.T) {
	s := newTestServer(t)
	member := s.team(t, "Members", true)
	guest := s.team(t, "Guests", false)
	matchID := s.match(t, member, guest, "2024-03-02T15:00:00Z")

	rec := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/matches/%d/result", matchID), `{"team1Score":2,"team2Score":2}`, nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("result status = %d, want 202 body=%s", rec.Code, rec.Body.String())
	}
	resp := decodeMatch(t, rec)
	if resp.Deferred == nil || len(resp.Deferred.MissingTeamIDs) != 1 || resp.Deferred.MissingTeamIDs[0] != guest {
		t.Fatalf("deferred = %+v", resp.Deferred)
	}
	if resp.Match.Status != leagues.StatusCompleted || resp.Match.StandingsFoldedAt != nil {
		t.Fatalf("match = %+v", resp.Match)
	}

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/matches/%d/result", matchID), `{"team1Score":2,"team2Score":2}`, nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("repeated result status = %d, want 202 body=%s", rec.Code, rec.Body.String())
	}
	if resp := decodeMatch(t, rec); resp.Deferred == nil || resp.Deferred.LeagueID != s.leagueID {
		t.Fatalf("repeated result deferred = %+v", resp.Deferred)
	}

	refoldPath := fmt.Sprintf("/api/v1/matches/%d/refold", matchID)
	if rec := s.do(t, http.MethodPost, refoldPath, "", nil); rec.Code != http.StatusAccepted {
		t.Fatalf("refold while missing status = %d, want 202", rec.Code)
	}

	if _, err := s.svc.AddTeamToLeague(context.Background(), guest, s.leagueID, nil); err != nil {
		t.Fatalf("add guest: %v", err)
	}
	rec = s.do(t, http.MethodPost, refoldPath, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("refold status = %d body=%s", rec.Code, rec.Body.String())
	}
	if decodeMatch(t, rec).Match.StandingsFoldedAt == nil {
		t.Fatal("expected match folded after refold")
	}

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/leagues/%d/audit", s.leagueID), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("audit status = %d", rec.Code)
	}
	var report leagues.AuditReport
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("decode audit: %v", err)
	}
	if !report.Healthy() {
		t.Fatalf("audit = %+v, want healthy", report)
	}
}

func TestCancelMatch(t *testing.T) {
	s := newTestServer(t)
	home := s.team(t, "Home", true)
	away := s.team(t, "Away", true)
	matchID := s.match(t, home, away, "2024-03-02T15:00:00Z")
	cancelPath := fmt.Sprintf("/api/v1/matches/%d/cancel", matchID)

	rec := s.do(t, http.MethodPost, cancelPath, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel status = %d body=%s", rec.Code, rec.Body.String())
	}
	if decodeMatch(t, rec).Match.Status != leagues.StatusCancelled {
		t.Fatal("expected cancelled match")
	}
	if rec := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/matches/%d/result", matchID), `{"team1Score":1,"team2Score":0}`, nil); rec.Code != http.StatusConflict {
		t.Fatalf("result on cancelled status = %d, want 409", rec.Code)
	}

	// The cancelled fixture frees the date.
	s.match(t, home, away, "2024-03-02T18:00:00Z")
}

func TestStandingsHTMXFragment(t *testing.T) {
	s := newTestServer(t)
	s.team(t, "Rovers <FC>", true)

	rec := s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/leagues/%d/standings", s.leagueID), "", map[string]string{"HX-Request": "true"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<table") || !strings.Contains(body, "Rovers &lt;FC&gt;") {
		t.Fatalf("unexpected fragment: %s", body)
	}

	if rec := s.do(t, http.MethodGet, "/api/v1/leagues/9999/standings", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown league status = %d, want 404", rec.Code)
	}
}

func TestRebuildReturnsStandings(t *testing.T) {
	s := newTestServer(t)
	home := s.team(t, "Home", true)
	away := s.team(t, "Away", true)
	matchID := s.match(t, home, away, "2024-03-02T15:00:00Z")
	if rec := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/matches/%d/result", matchID), `{"team1Score":0,"team2Score":2}`, nil); rec.Code != http.StatusOK {
		t.Fatalf("result status = %d", rec.Code)
	}

	rec := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/leagues/%d/rebuild", s.leagueID), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("rebuild status = %d body=%s", rec.Code, rec.Body.String())
	}
	var resp standingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Standings) != 2 || resp.Standings[0].TeamID != away || resp.Standings[0].Points != 3 {
		t.Fatalf("standings = %+v", resp.Standings)
	}
}

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{err: leagues.ErrSelfMatch, wantStatus: http.StatusBadRequest},
		{err: leagues.ErrMembershipNotFound, wantStatus: http.StatusNotFound},
		{err: leagues.ErrSchedulingConflict, wantStatus: http.StatusConflict},
		{err: leagues.ErrLockContention, wantStatus: http.StatusServiceUnavailable},
		{err: fmt.Errorf("fold: %w", db.ErrTxConflict), wantStatus: http.StatusServiceUnavailable},
		{err: errors.New("disk on fire"), wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			writeServiceError(rec, req, tt.err)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandlersWithoutServiceFail(t *testing.T) {
	service = nil
	rec := httptest.NewRecorder()
	HandleStandings(rec, httptest.NewRequest(http.MethodGet, "/api/v1/leagues/1/standings", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}
