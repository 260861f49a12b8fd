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

// AddTeamToLeague registers a team in a league and makes sure the team has a
// standing row there. An existing standing row is never reset, so a team that
// leaves and rejoins keeps its counters.
func (s *Service) AddTeamToLeague(ctx context.Context, teamID, leagueID int64, coachID *int64) (int64, error) {
	if teamID <= 0 || leagueID <= 0 {
		return 0, fmt.Errorf("%w: team and league ids must be positive", ErrInvalidInput)
	}

	var membershipID int64
	err := s.db.RunInTxRetry(ctx, func(tx *db.DB) error {
		if err := requireTeam(ctx, tx.Queries, teamID); err != nil {
			return err
		}
		if _, err := tx.Queries.GetLeague(ctx, leagueID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: league %d", ErrUnknownReference, leagueID)
			}
			return fmt.Errorf("load league: %w", err)
		}
		if coachID != nil {
			if _, err := tx.Queries.GetCoach(ctx, *coachID); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return fmt.Errorf("%w: coach %d", ErrUnknownReference, *coachID)
				}
				return fmt.Errorf("load coach: %w", err)
			}
		}

		_, err := tx.Queries.GetMembership(ctx, dbgen.GetMembershipParams{TeamID: teamID, LeagueID: leagueID})
		if err == nil {
			return ErrDuplicateMembership
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("load membership: %w", err)
		}

		id, err := tx.Queries.CreateMembership(ctx, dbgen.CreateMembershipParams{
			TeamID:   teamID,
			LeagueID: leagueID,
			CoachID:  apiutil.ToNullInt64(coachID),
		})
		if err != nil {
			if db.IsUniqueViolation(err) {
				return ErrDuplicateMembership
			}
			if db.IsForeignKeyViolation(err) {
				return fmt.Errorf("%w: %v", ErrUnknownReference, err)
			}
			return fmt.Errorf("create membership: %w", err)
		}

		if _, err := tx.Queries.EnsureStanding(ctx, dbgen.EnsureStandingParams{LeagueID: leagueID, TeamID: teamID}); err != nil {
			return fmt.Errorf("create standing row: %w", err)
		}
		membershipID = id
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Ctx(ctx).Info().
		Int64("membership_id", membershipID).
		Int64("team_id", teamID).
		Int64("league_id", leagueID).
		Msg("Team added to league")
	return membershipID, nil
}

// RemoveTeamFromLeague deletes the membership. The standing row stays so the
// league table still reflects matches the team already played.
func (s *Service) RemoveTeamFromLeague(ctx context.Context, teamID, leagueID int64) error {
	err := s.db.RunInTxRetry(ctx, func(tx *db.DB) error {
		deleted, err := tx.Queries.DeleteMembership(ctx, dbgen.DeleteMembershipParams{TeamID: teamID, LeagueID: leagueID})
		if err != nil {
			return fmt.Errorf("delete membership: %w", err)
		}
		if deleted == 0 {
			return ErrMembershipNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Ctx(ctx).Info().
		Int64("team_id", teamID).
		Int64("league_id", leagueID).
		Msg("Team removed from league")
	return nil
}

func requireTeam(ctx context.Context, q *dbgen.Queries, teamID int64) error {
	if _, err := q.GetTeam(ctx, teamID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: team %d", ErrUnknownReference, teamID)
		}
		return fmt.Errorf("load team: %w", err)
	}
	return nil
}
