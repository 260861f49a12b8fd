package leagues

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/codr1/matchday/internal/db"
	dbgen "github.com/codr1/matchday/internal/db/generated"
)

const (
	pointsForWin  = 3
	pointsForDraw = 1
)

// fold stages reported to the test hook
const (
	stageTeam1Applied = "team1_applied"
	stageTeam2Applied = "team2_applied"
)

type standingDelta struct {
	MatchesPlayed  int64
	Wins           int64
	Draws          int64
	Losses         int64
	Points         int64
	GoalsFor       int64
	GoalsAgainst   int64
	GoalDifference int64
}

func teamDelta(own, other int64) standingDelta {
	delta := standingDelta{
		MatchesPlayed:  1,
		GoalsFor:       own,
		GoalsAgainst:   other,
		GoalDifference: own - other,
	}
	switch {
	case own > other:
		delta.Wins = 1
		delta.Points = pointsForWin
	case own < other:
		delta.Losses = 1
	default:
		delta.Draws = 1
		delta.Points = pointsForDraw
	}
	return delta
}

// outcomeDeltas returns the standing change for team1 and team2.
func outcomeDeltas(score1, score2 int64) (standingDelta, standingDelta) {
	return teamDelta(score1, score2), teamDelta(score2, score1)
}

func (s *Standing) apply(d standingDelta) {
	s.MatchesPlayed += int(d.MatchesPlayed)
	s.Wins += int(d.Wins)
	s.Draws += int(d.Draws)
	s.Losses += int(d.Losses)
	s.Points += int(d.Points)
	s.GoalsFor += int(d.GoalsFor)
	s.GoalsAgainst += int(d.GoalsAgainst)
	s.GoalDifference += int(d.GoalDifference)
}

func matchRowKeys(leagueID, team1ID, team2ID int64) []RowKey {
	return []RowKey{
		{LeagueID: leagueID, TeamID: team1ID},
		{LeagueID: leagueID, TeamID: team2ID},
	}
}

// foldInTx folds a completed league match into both standing rows. It is a
// no-op for tournament matches and for matches already folded. When a row
// is missing nothing is touched and a deferral is recorded instead.
func (s *Service) foldInTx(ctx context.Context, tx *db.DB, match dbgen.Match) (*DeferredFoldError, error) {
	if !match.LeagueID.Valid || match.StandingsFoldedAt.Valid {
		return nil, nil
	}
	if match.Status != string(StatusCompleted) || !match.Team1Score.Valid || !match.Team2Score.Valid {
		return nil, fmt.Errorf("match %d: %w", match.ID, ErrInvalidState)
	}
	leagueID := match.LeagueID.Int64

	var missing []int64
	for _, teamID := range []int64{match.Team1ID, match.Team2ID} {
		_, err := tx.Queries.GetStanding(ctx, dbgen.GetStandingParams{LeagueID: leagueID, TeamID: teamID})
		if errors.Is(err, sql.ErrNoRows) {
			missing = append(missing, teamID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load standing for team %d: %w", teamID, err)
		}
	}
	if len(missing) > 0 {
		err := tx.Queries.UpsertDeferredFold(ctx, dbgen.UpsertDeferredFoldParams{
			MatchID:        match.ID,
			LeagueID:       leagueID,
			MissingTeamIds: formatTeamIDs(missing),
			LastAttemptAt:  s.now().UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("record deferred fold: %w", err)
		}
		return &DeferredFoldError{MatchID: match.ID, LeagueID: leagueID, MissingTeamIDs: missing}, nil
	}

	marked, err := tx.Queries.MarkMatchFolded(ctx, dbgen.MarkMatchFoldedParams{
		StandingsFoldedAt: sql.NullTime{Time: s.now().UTC(), Valid: true},
		ID:                match.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("mark match folded: %w", err)
	}
	if marked == 0 {
		return nil, nil
	}

	delta1, delta2 := outcomeDeltas(match.Team1Score.Int64, match.Team2Score.Int64)
	if err := applyDelta(ctx, tx.Queries, leagueID, match.Team1ID, delta1); err != nil {
		return nil, err
	}
	if err := s.hook(stageTeam1Applied); err != nil {
		return nil, err
	}
	if err := applyDelta(ctx, tx.Queries, leagueID, match.Team2ID, delta2); err != nil {
		return nil, err
	}
	if err := s.hook(stageTeam2Applied); err != nil {
		return nil, err
	}

	if err := tx.Queries.DeleteDeferredFold(ctx, match.ID); err != nil {
		return nil, fmt.Errorf("clear deferred fold: %w", err)
	}

	log.Ctx(ctx).Info().
		Int64("match_id", match.ID).
		Int64("league_id", leagueID).
		Int64("team1_id", match.Team1ID).
		Int64("team2_id", match.Team2ID).
		Int64("team1_score", match.Team1Score.Int64).
		Int64("team2_score", match.Team2Score.Int64).
		Msg("Folded match into standings")
	return nil, nil
}

func applyDelta(ctx context.Context, q *dbgen.Queries, leagueID, teamID int64, d standingDelta) error {
	updated, err := q.ApplyStandingDelta(ctx, dbgen.ApplyStandingDeltaParams{
		MatchesPlayed:  d.MatchesPlayed,
		Wins:           d.Wins,
		Draws:          d.Draws,
		Losses:         d.Losses,
		Points:         d.Points,
		GoalsFor:       d.GoalsFor,
		GoalsAgainst:   d.GoalsAgainst,
		GoalDifference: d.GoalDifference,
		LeagueID:       leagueID,
		TeamID:         teamID,
	})
	if err != nil {
		return fmt.Errorf("update standing for team %d: %w", teamID, err)
	}
	if updated != 1 {
		return fmt.Errorf("update standing for team %d: %w", teamID, ErrMissingStandingRow)
	}
	return nil
}

func (s *Service) hook(stage string) error {
	if s.foldHook == nil {
		return nil
	}
	return s.foldHook(stage)
}
