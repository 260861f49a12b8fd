// internal/api/leagues/handlers.go
package leagues

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/matchday/internal/api/apiutil"
	"github.com/codr1/matchday/internal/api/htmx"
	"github.com/codr1/matchday/internal/db"
	"github.com/codr1/matchday/internal/leagues"
)

const (
	requestTimeout  = 5 * time.Second
	leagueIDPathKey = "id"
	teamIDPathKey   = "team_id"
	matchIDPathKey  = "id"
)

var service *leagues.Service

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(svc *leagues.Service) {
	if svc == nil {
		return
	}
	service = svc
}

func loadService() *leagues.Service {
	return service
}

type addTeamRequest struct {
	TeamID  int64  `json:"teamId"`
	CoachID *int64 `json:"coachId"`
}

type addTeamResponse struct {
	MembershipID int64 `json:"membershipId"`
}

type standingsResponse struct {
	LeagueID  int64              `json:"leagueId"`
	Standings []leagues.Standing `json:"standings"`
}

type createMatchRequest struct {
	LeagueID     *int64 `json:"leagueId"`
	TournamentID *int64 `json:"tournamentId"`
	Team1ID      int64  `json:"team1Id"`
	Team2ID      int64  `json:"team2Id"`
	ScheduledAt  string `json:"scheduledAt"`
	VenueID      *int64 `json:"venueId"`
	RefereeID    *int64 `json:"refereeId"`
}

type matchResultRequest struct {
	Team1Score *int `json:"team1Score"`
	Team2Score *int `json:"team2Score"`
}

type matchResponse struct {
	Match    leagues.Match     `json:"match"`
	Deferred *deferredResponse `json:"deferred,omitempty"`
}

type deferredResponse struct {
	LeagueID       int64   `json:"leagueId"`
	MissingTeamIDs []int64 `json:"missingTeamIds"`
}

// POST /api/v1/leagues/{id}/teams
func HandleAddTeam(w http.ResponseWriter, r *http.Request) {
	svc := loadService()
	if svc == nil {
		serviceUnavailable(w, r)
		return
	}

	leagueID, err := apiutil.PathInt64(r, leagueIDPathKey)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var req addTeamRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, badRequest(err))
		return
	}
	if req.TeamID <= 0 {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "teamId", Reason: "must be greater than 0"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	membershipID, err := svc.AddTeamToLeague(ctx, req.TeamID, leagueID, req.CoachID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusCreated, addTeamResponse{MembershipID: membershipID}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write membership response")
	}
}

// DELETE /api/v1/leagues/{id}/teams/{team_id}
func HandleRemoveTeam(w http.ResponseWriter, r *http.Request) {
	svc := loadService()
	if svc == nil {
		serviceUnavailable(w, r)
		return
	}

	leagueID, err := apiutil.PathInt64(r, leagueIDPathKey)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	teamID, err := apiutil.PathInt64(r, teamIDPathKey)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := svc.RemoveTeamFromLeague(ctx, teamID, leagueID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/leagues/{id}/standings
func HandleStandings(w http.ResponseWriter, r *http.Request) {
	svc := loadService()
	if svc == nil {
		serviceUnavailable(w, r)
		return
	}

	leagueID, err := apiutil.PathInt64(r, leagueIDPathKey)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	standings, err := svc.GetStandings(ctx, leagueID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if htmx.IsRequest(r) {
		component := standingsTableComponent(leagueID, standings)
		apiutil.RenderHTMLComponent(r.Context(), w, component, nil, "Failed to render standings table", "Failed to render standings")
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, standingsResponse{LeagueID: leagueID, Standings: standings}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write standings response")
	}
}

// GET /api/v1/leagues/{id}/audit
func HandleAudit(w http.ResponseWriter, r *http.Request) {
	svc := loadService()
	if svc == nil {
		serviceUnavailable(w, r)
		return
	}

	leagueID, err := apiutil.PathInt64(r, leagueIDPathKey)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := svc.AuditLeague(ctx, leagueID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, report); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write audit response")
	}
}

// POST /api/v1/leagues/{id}/rebuild
func HandleRebuild(w http.ResponseWriter, r *http.Request) {
	svc := loadService()
	if svc == nil {
		serviceUnavailable(w, r)
		return
	}

	leagueID, err := apiutil.PathInt64(r, leagueIDPathKey)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	standings, err := svc.RebuildStandings(ctx, leagueID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Ctx(r.Context()).Info().Int64("league_id", leagueID).Msg("Standings rebuilt by operator")
	if htmx.IsRequest(r) {
		htmx.Trigger(w, htmx.StandingsChangedEvent)
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, standingsResponse{LeagueID: leagueID, Standings: standings}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write standings response")
	}
}

// POST /api/v1/matches
func HandleMatchCreate(w http.ResponseWriter, r *http.Request) {
	svc := loadService()
	if svc == nil {
		serviceUnavailable(w, r)
		return
	}

	var req createMatchRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, badRequest(err))
		return
	}

	scheduledAt, err := apiutil.ParseTimestamp(req.ScheduledAt, "scheduledAt", svc.Location())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	matchID, err := svc.CreateMatch(ctx, leagues.MatchInput{
		Scope: leagues.CompetitionRef{
			LeagueID:     req.LeagueID,
			TournamentID: req.TournamentID,
		},
		Team1ID:     req.Team1ID,
		Team2ID:     req.Team2ID,
		ScheduledAt: scheduledAt,
		VenueID:     req.VenueID,
		RefereeID:   req.RefereeID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeMatch(ctx, w, r, svc, matchID, http.StatusCreated, nil)
}

// GET /api/v1/matches/{id}
func HandleMatchDetail(w http.ResponseWriter, r *http.Request) {
	svc := loadService()
	if svc == nil {
		serviceUnavailable(w, r)
		return
	}

	matchID, err := apiutil.PathInt64(r, matchIDPathKey)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	writeMatch(ctx, w, r, svc, matchID, http.StatusOK, nil)
}

// POST /api/v1/matches/{id}/result
func HandleMatchResult(w http.ResponseWriter, r *http.Request) {
	svc := loadService()
	if svc == nil {
		serviceUnavailable(w, r)
		return
	}

	matchID, err := apiutil.PathInt64(r, matchIDPathKey)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var req matchResultRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, badRequest(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	err = svc.UpdateMatchResult(ctx, matchID, req.Team1Score, req.Team2Score)
	finishFold(ctx, w, r, svc, matchID, err)
}

// POST /api/v1/matches/{id}/cancel
func HandleMatchCancel(w http.ResponseWriter, r *http.Request) {
	svc := loadService()
	if svc == nil {
		serviceUnavailable(w, r)
		return
	}

	matchID, err := apiutil.PathInt64(r, matchIDPathKey)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := svc.CancelMatch(ctx, matchID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeMatch(ctx, w, r, svc, matchID, http.StatusOK, nil)
}

// POST /api/v1/matches/{id}/refold
func HandleMatchRefold(w http.ResponseWriter, r *http.Request) {
	svc := loadService()
	if svc == nil {
		serviceUnavailable(w, r)
		return
	}

	matchID, err := apiutil.PathInt64(r, matchIDPathKey)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	err = svc.RefoldMatch(ctx, matchID)
	finishFold(ctx, w, r, svc, matchID, err)
}

// finishFold answers 202 when the result is stored but the fold is still
// waiting on a standing row.
func finishFold(ctx context.Context, w http.ResponseWriter, r *http.Request, svc *leagues.Service, matchID int64, err error) {
	var deferred *leagues.DeferredFoldError
	switch {
	case err == nil:
		if htmx.IsRequest(r) {
			htmx.Trigger(w, htmx.StandingsChangedEvent)
		}
		writeMatch(ctx, w, r, svc, matchID, http.StatusOK, nil)
	case errors.As(err, &deferred):
		writeMatch(ctx, w, r, svc, matchID, http.StatusAccepted, &deferredResponse{
			LeagueID:       deferred.LeagueID,
			MissingTeamIDs: deferred.MissingTeamIDs,
		})
	default:
		writeServiceError(w, r, err)
	}
}

func writeMatch(ctx context.Context, w http.ResponseWriter, r *http.Request, svc *leagues.Service, matchID int64, status int, deferred *deferredResponse) {
	match, err := svc.GetMatch(ctx, matchID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, status, matchResponse{Match: match, Deferred: deferred}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("match_id", matchID).Msg("Failed to write match response")
	}
}

func serviceUnavailable(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Error().Msg("League service not initialized")
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func badRequest(err error) error {
	return apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid request body", Err: err}
}

func mapServiceError(err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, leagues.ErrInvalidInput),
		errors.Is(err, leagues.ErrInvalidCompetitionScope),
		errors.Is(err, leagues.ErrSelfMatch),
		errors.Is(err, leagues.ErrIncompleteScore),
		errors.Is(err, leagues.ErrNegativeScore),
		errors.Is(err, leagues.ErrNotEnoughTeams):
		status = http.StatusBadRequest
	case errors.Is(err, leagues.ErrUnknownReference),
		errors.Is(err, leagues.ErrMatchNotFound),
		errors.Is(err, leagues.ErrLeagueNotFound),
		errors.Is(err, leagues.ErrMembershipNotFound):
		status = http.StatusNotFound
	case errors.Is(err, leagues.ErrDuplicateMembership),
		errors.Is(err, leagues.ErrSchedulingConflict),
		errors.Is(err, leagues.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, leagues.ErrLockContention),
		errors.Is(err, db.ErrTxConflict):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	if status == http.StatusInternalServerError {
		return err
	}
	return apiutil.HandlerError{Status: status, Message: err.Error(), Err: err}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	apiutil.WriteError(w, r, mapServiceError(err))
}
