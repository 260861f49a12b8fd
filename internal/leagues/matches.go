package leagues

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/codr1/matchday/internal/api/apiutil"
	"github.com/codr1/matchday/internal/db"
	dbgen "github.com/codr1/matchday/internal/db/generated"
)

// CreateMatch schedules a match in exactly one league or tournament. A team
// may not have two non-cancelled matches on the same calendar date across
// all competitions.
func (s *Service) CreateMatch(ctx context.Context, input MatchInput) (int64, error) {
	if err := validateMatchInput(input); err != nil {
		return 0, err
	}

	var matchID int64
	err := s.db.RunInTxRetry(ctx, func(tx *db.DB) error {
		id, err := s.createMatchTx(ctx, tx.Queries, input)
		if err != nil {
			return err
		}
		matchID = id
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Ctx(ctx).Info().
		Int64("match_id", matchID).
		Int64("team1_id", input.Team1ID).
		Int64("team2_id", input.Team2ID).
		Str("match_date", s.matchDate(input.ScheduledAt)).
		Msg("Match scheduled")
	return matchID, nil
}

func validateMatchInput(input MatchInput) error {
	if !input.Scope.valid() {
		return ErrInvalidCompetitionScope
	}
	if input.Team1ID <= 0 || input.Team2ID <= 0 {
		return fmt.Errorf("%w: team ids must be positive", ErrInvalidInput)
	}
	if input.Team1ID == input.Team2ID {
		return ErrSelfMatch
	}
	if input.ScheduledAt.IsZero() {
		return fmt.Errorf("%w: scheduled time is required", ErrInvalidInput)
	}
	return nil
}

func (s *Service) createMatchTx(ctx context.Context, q *dbgen.Queries, input MatchInput) (int64, error) {
	for _, teamID := range []int64{input.Team1ID, input.Team2ID} {
		if err := requireTeam(ctx, q, teamID); err != nil {
			return 0, err
		}
	}
	if input.Scope.LeagueID != nil {
		if _, err := q.GetLeague(ctx, *input.Scope.LeagueID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, fmt.Errorf("%w: league %d", ErrUnknownReference, *input.Scope.LeagueID)
			}
			return 0, fmt.Errorf("load league: %w", err)
		}
	}
	if input.Scope.TournamentID != nil {
		if _, err := q.GetTournament(ctx, *input.Scope.TournamentID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, fmt.Errorf("%w: tournament %d", ErrUnknownReference, *input.Scope.TournamentID)
			}
			return 0, fmt.Errorf("load tournament: %w", err)
		}
	}

	matchDate := s.matchDate(input.ScheduledAt)
	for _, teamID := range []int64{input.Team1ID, input.Team2ID} {
		count, err := q.CountActiveMatchesForTeamOnDate(ctx, dbgen.CountActiveMatchesForTeamOnDateParams{
			MatchDate: matchDate,
			TeamID:    teamID,
		})
		if err != nil {
			return 0, fmt.Errorf("check schedule for team %d: %w", teamID, err)
		}
		if count > 0 {
			return 0, fmt.Errorf("%w: team %d on %s", ErrSchedulingConflict, teamID, matchDate)
		}
	}

	id, err := q.CreateMatch(ctx, dbgen.CreateMatchParams{
		LeagueID:     apiutil.ToNullInt64(input.Scope.LeagueID),
		TournamentID: apiutil.ToNullInt64(input.Scope.TournamentID),
		Team1ID:      input.Team1ID,
		Team2ID:      input.Team2ID,
		MatchDate:    matchDate,
		ScheduledAt:  input.ScheduledAt.UTC(),
		VenueID:      apiutil.ToNullInt64(input.VenueID),
		RefereeID:    apiutil.ToNullInt64(input.RefereeID),
	})
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return 0, fmt.Errorf("%w: venue or referee: %v", ErrUnknownReference, err)
		}
		if db.IsConstraintViolation(err) {
			return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return 0, fmt.Errorf("create match: %w", err)
	}
	return id, nil
}

func (s *Service) GetMatch(ctx context.Context, matchID int64) (Match, error) {
	row, err := s.db.Queries.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Match{}, ErrMatchNotFound
		}
		return Match{}, fmt.Errorf("load match: %w", err)
	}
	return matchFromRow(row), nil
}

// UpdateMatchResult records the final score of a scheduled match and folds it
// into the league standings in the same transaction. Repeating the call with
// the same scores is a no-op. When a standing row is missing the result is
// still committed and a *DeferredFoldError is returned, also on repeats
// until the fold goes through.
func (s *Service) UpdateMatchResult(ctx context.Context, matchID int64, score1, score2 *int) error {
	if score1 == nil || score2 == nil {
		return ErrIncompleteScore
	}
	if *score1 < 0 || *score2 < 0 {
		return ErrNegativeScore
	}

	current, err := s.db.Queries.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("load match: %w", err)
	}

	if current.LeagueID.Valid {
		release, err := s.locks.Acquire(ctx, matchRowKeys(current.LeagueID.Int64, current.Team1ID, current.Team2ID)...)
		if err != nil {
			return err
		}
		defer release()
	}

	var (
		deferred *DeferredFoldError
		noop     bool
	)
	err = s.db.RunInTxRetry(ctx, func(tx *db.DB) error {
		deferred = nil
		noop = false

		match, err := tx.Queries.GetMatch(ctx, matchID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrMatchNotFound
			}
			return fmt.Errorf("load match: %w", err)
		}

		switch MatchStatus(match.Status) {
		case StatusCancelled:
			return fmt.Errorf("%w: match %d is cancelled", ErrInvalidState, matchID)
		case StatusCompleted:
			if match.Team1Score.Int64 == int64(*score1) && match.Team2Score.Int64 == int64(*score2) {
				noop = true
				deferred, err = pendingDeferral(ctx, tx.Queries, match)
				return err
			}
			return fmt.Errorf("%w: match %d already completed with a different score", ErrInvalidState, matchID)
		}

		updated, err := tx.Queries.CompleteMatch(ctx, dbgen.CompleteMatchParams{
			Team1Score: sql.NullInt64{Int64: int64(*score1), Valid: true},
			Team2Score: sql.NullInt64{Int64: int64(*score2), Valid: true},
			ID:         matchID,
		})
		if err != nil {
			return fmt.Errorf("complete match: %w", err)
		}
		if updated != 1 {
			return fmt.Errorf("%w: match %d changed state", ErrInvalidState, matchID)
		}

		match.Status = string(StatusCompleted)
		match.Team1Score = sql.NullInt64{Int64: int64(*score1), Valid: true}
		match.Team2Score = sql.NullInt64{Int64: int64(*score2), Valid: true}

		deferred, err = s.foldInTx(ctx, tx, match)
		return err
	})
	if err != nil {
		return err
	}

	logger := log.Ctx(ctx)
	switch {
	case noop && deferred != nil:
		logger.Debug().Int64("match_id", matchID).Msg("Match result unchanged, standings fold still deferred")
		return deferred
	case noop:
		logger.Debug().Int64("match_id", matchID).Msg("Match result unchanged")
	case deferred != nil:
		logger.Warn().
			Int64("match_id", matchID).
			Int64("league_id", deferred.LeagueID).
			Str("missing_team_ids", formatTeamIDs(deferred.MissingTeamIDs)).
			Msg("Match completed but standings fold deferred")
		return deferred
	default:
		logger.Info().
			Int64("match_id", matchID).
			Int("team1_score", *score1).
			Int("team2_score", *score2).
			Msg("Match completed")
	}
	return nil
}

// pendingDeferral reports the recorded deferral of a completed, unfolded
// league match, or nil when there is none.
func pendingDeferral(ctx context.Context, q *dbgen.Queries, match dbgen.Match) (*DeferredFoldError, error) {
	if !match.LeagueID.Valid || match.StandingsFoldedAt.Valid {
		return nil, nil
	}
	row, err := q.GetDeferredFold(ctx, match.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load deferred fold: %w", err)
	}
	return &DeferredFoldError{
		MatchID:        row.MatchID,
		LeagueID:       row.LeagueID,
		MissingTeamIDs: parseTeamIDs(row.MissingTeamIds),
	}, nil
}

// CancelMatch moves a scheduled match to Cancelled. Cancelling twice is a
// no-op; a completed match cannot be cancelled.
func (s *Service) CancelMatch(ctx context.Context, matchID int64) error {
	var noop bool
	err := s.db.RunInTxRetry(ctx, func(tx *db.DB) error {
		noop = false
		match, err := tx.Queries.GetMatch(ctx, matchID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrMatchNotFound
			}
			return fmt.Errorf("load match: %w", err)
		}

		switch MatchStatus(match.Status) {
		case StatusCancelled:
			noop = true
			return nil
		case StatusCompleted:
			return fmt.Errorf("%w: match %d is completed", ErrInvalidState, matchID)
		}

		updated, err := tx.Queries.CancelMatch(ctx, matchID)
		if err != nil {
			return fmt.Errorf("cancel match: %w", err)
		}
		if updated != 1 {
			return fmt.Errorf("%w: match %d changed state", ErrInvalidState, matchID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if !noop {
		log.Ctx(ctx).Info().Int64("match_id", matchID).Msg("Match cancelled")
	}
	return nil
}

// RefoldMatch retries the standings fold of a completed match. Matches that
// are already folded, or that belong to a tournament, are left alone.
func (s *Service) RefoldMatch(ctx context.Context, matchID int64) error {
	current, err := s.db.Queries.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("load match: %w", err)
	}
	if MatchStatus(current.Status) != StatusCompleted {
		return fmt.Errorf("%w: match %d is %s", ErrInvalidState, matchID, current.Status)
	}
	if !current.LeagueID.Valid {
		return nil
	}

	release, err := s.locks.Acquire(ctx, matchRowKeys(current.LeagueID.Int64, current.Team1ID, current.Team2ID)...)
	if err != nil {
		return err
	}
	defer release()

	var (
		deferred *DeferredFoldError
		folded   bool
	)
	err = s.db.RunInTxRetry(ctx, func(tx *db.DB) error {
		deferred = nil
		folded = false
		match, err := tx.Queries.GetMatch(ctx, matchID)
		if err != nil {
			return fmt.Errorf("load match: %w", err)
		}
		if match.StandingsFoldedAt.Valid {
			return tx.Queries.DeleteDeferredFold(ctx, matchID)
		}
		deferred, err = s.foldInTx(ctx, tx, match)
		folded = err == nil && deferred == nil
		return err
	})
	if err != nil {
		return err
	}
	if deferred != nil {
		log.Ctx(ctx).Warn().
			Int64("match_id", matchID).
			Str("missing_team_ids", formatTeamIDs(deferred.MissingTeamIDs)).
			Msg("Refold still deferred")
		return deferred
	}
	if folded {
		log.Ctx(ctx).Info().Int64("match_id", matchID).Msg("Deferred match refolded")
	}
	return nil
}

func (s *Service) ListDeferredFolds(ctx context.Context, leagueID int64) ([]DeferredFold, error) {
	rows, err := s.db.Queries.ListDeferredFolds(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list deferred folds: %w", err)
	}
	folds := make([]DeferredFold, 0, len(rows))
	for _, row := range rows {
		folds = append(folds, deferredFoldFromRow(row))
	}
	return folds, nil
}

type RefoldSummary struct {
	Attempted int     `json:"attempted"`
	Folded    int     `json:"folded"`
	Pending   []int64 `json:"pending"`
}

// RefoldPending retries every deferred fold in every league. A match that
// fails for any other reason stays pending and the rest are still tried;
// those failures come back joined.
func (s *Service) RefoldPending(ctx context.Context) (RefoldSummary, error) {
	rows, err := s.db.Queries.ListAllDeferredFolds(ctx)
	if err != nil {
		return RefoldSummary{}, fmt.Errorf("list deferred folds: %w", err)
	}

	var (
		summary RefoldSummary
		errs    []error
	)
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		summary.Attempted++
		err := s.RefoldMatch(ctx, row.MatchID)
		switch {
		case err == nil:
			summary.Folded++
		case errors.Is(err, ErrMissingStandingRow):
			summary.Pending = append(summary.Pending, row.MatchID)
		default:
			log.Ctx(ctx).Error().Err(err).Int64("match_id", row.MatchID).Msg("Refold failed")
			summary.Pending = append(summary.Pending, row.MatchID)
			errs = append(errs, fmt.Errorf("refold match %d: %w", row.MatchID, err))
		}
	}
	return summary, errors.Join(errs...)
}
