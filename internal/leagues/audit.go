package leagues

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/matchday/internal/db"
	dbgen "github.com/codr1/matchday/internal/db/generated"
)

// StandingDrift is a team whose cached row disagrees with the match log.
type StandingDrift struct {
	TeamID   int64    `json:"teamId"`
	Cached   Standing `json:"cached"`
	Expected Standing `json:"expected"`
}

// AuditReport describes every integrity gap found in one league.
type AuditReport struct {
	LeagueID            int64           `json:"leagueId"`
	CheckedAt           time.Time       `json:"checkedAt"`
	Drift               []StandingDrift `json:"drift"`
	UnfoldedMatchIDs    []int64         `json:"unfoldedMatchIds"`
	DeferredFolds       []DeferredFold  `json:"deferredFolds"`
	PointsMismatchTeams []int64         `json:"pointsMismatchTeams"`
	GoalDifferenceSum   int             `json:"goalDifferenceSum"`
}

// Healthy reports whether the cache matches the match log with nothing pending.
func (r AuditReport) Healthy() bool {
	return len(r.Drift) == 0 &&
		len(r.UnfoldedMatchIDs) == 0 &&
		len(r.DeferredFolds) == 0 &&
		len(r.PointsMismatchTeams) == 0 &&
		r.GoalDifferenceSum == 0
}

// AuditLeague compares the cached standings with a recomputation from the
// folded match log and lists completed matches that were never folded.
// It reads one consistent snapshot, never writes and never waits on the
// writer lock.
func (s *Service) AuditLeague(ctx context.Context, leagueID int64) (AuditReport, error) {
	report := AuditReport{LeagueID: leagueID, CheckedAt: s.now().UTC()}

	err := s.db.RunInReadTx(ctx, func(tx *db.DB) error {
		cached, err := cachedStandings(ctx, tx.Queries, leagueID)
		if err != nil {
			return err
		}
		expected, err := recomputeStandings(ctx, tx.Queries, leagueID, cached)
		if err != nil {
			return err
		}
		report.Drift = diffStandings(cached, expected)

		for _, row := range cached {
			if row.Points != pointsForWin*row.Wins+pointsForDraw*row.Draws {
				report.PointsMismatchTeams = append(report.PointsMismatchTeams, row.TeamID)
			}
			report.GoalDifferenceSum += row.GoalDifference
		}

		unfolded, err := tx.Queries.ListUnfoldedCompletedLeagueMatches(ctx, nullLeague(leagueID))
		if err != nil {
			return fmt.Errorf("list unfolded matches: %w", err)
		}
		report.UnfoldedMatchIDs = unfolded

		deferred, err := tx.Queries.ListDeferredFolds(ctx, leagueID)
		if err != nil {
			return fmt.Errorf("list deferred folds: %w", err)
		}
		for _, row := range deferred {
			report.DeferredFolds = append(report.DeferredFolds, deferredFoldFromRow(row))
		}
		return nil
	})
	if err != nil {
		return AuditReport{}, err
	}

	if !report.Healthy() {
		log.Ctx(ctx).Warn().
			Int64("league_id", leagueID).
			Int("drifted_teams", len(report.Drift)).
			Int("unfolded_matches", len(report.UnfoldedMatchIDs)).
			Int("deferred_folds", len(report.DeferredFolds)).
			Int("goal_difference_sum", report.GoalDifferenceSum).
			Msg("League standings audit found integrity gaps")
	}
	return report, nil
}

// RebuildStandings overwrites every cached standing row of the league with
// values recomputed from the folded match log. It is an explicit operator
// repair; ordinary folds never call it.
func (s *Service) RebuildStandings(ctx context.Context, leagueID int64) ([]Standing, error) {
	cached, err := cachedStandings(ctx, s.db.Queries, leagueID)
	if err != nil {
		return nil, err
	}
	keys := make([]RowKey, 0, len(cached))
	for _, row := range cached {
		keys = append(keys, RowKey{LeagueID: leagueID, TeamID: row.TeamID})
	}
	release, err := s.locks.Acquire(ctx, keys...)
	if err != nil {
		return nil, err
	}
	defer release()

	var rebuilt []Standing
	err = s.db.RunInTxRetry(ctx, func(tx *db.DB) error {
		current, err := cachedStandings(ctx, tx.Queries, leagueID)
		if err != nil {
			return err
		}
		expected, err := recomputeStandings(ctx, tx.Queries, leagueID, current)
		if err != nil {
			return err
		}

		for _, row := range expected {
			if _, err := tx.Queries.EnsureStanding(ctx, dbgen.EnsureStandingParams{LeagueID: leagueID, TeamID: row.TeamID}); err != nil {
				return fmt.Errorf("ensure standing for team %d: %w", row.TeamID, err)
			}
			_, err := tx.Queries.OverwriteStanding(ctx, dbgen.OverwriteStandingParams{
				MatchesPlayed:  int64(row.MatchesPlayed),
				Wins:           int64(row.Wins),
				Draws:          int64(row.Draws),
				Losses:         int64(row.Losses),
				Points:         int64(row.Points),
				GoalsFor:       int64(row.GoalsFor),
				GoalsAgainst:   int64(row.GoalsAgainst),
				GoalDifference: int64(row.GoalDifference),
				LeagueID:       leagueID,
				TeamID:         row.TeamID,
			})
			if err != nil {
				return fmt.Errorf("overwrite standing for team %d: %w", row.TeamID, err)
			}
		}

		rebuilt, err = cachedStandings(ctx, tx.Queries, leagueID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Warn().
		Int64("league_id", leagueID).
		Int("teams", len(rebuilt)).
		Msg("League standings rebuilt from match log")
	return rebuilt, nil
}

func diffStandings(cached, expected []Standing) []StandingDrift {
	byTeam := make(map[int64]Standing, len(expected))
	for _, row := range expected {
		byTeam[row.TeamID] = row
	}
	var drift []StandingDrift
	for _, row := range cached {
		want := byTeam[row.TeamID]
		if !sameCounters(row, want) {
			drift = append(drift, StandingDrift{TeamID: row.TeamID, Cached: row, Expected: want})
		}
	}
	return drift
}

func sameCounters(a, b Standing) bool {
	return a.MatchesPlayed == b.MatchesPlayed &&
		a.Wins == b.Wins &&
		a.Draws == b.Draws &&
		a.Losses == b.Losses &&
		a.Points == b.Points &&
		a.GoalsFor == b.GoalsFor &&
		a.GoalsAgainst == b.GoalsAgainst &&
		a.GoalDifference == b.GoalDifference
}

// AuditAll audits every league in id order.
func (s *Service) AuditAll(ctx context.Context) ([]AuditReport, error) {
	rows, err := s.db.Queries.ListLeagues(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	reports := make([]AuditReport, 0, len(rows))
	for _, row := range rows {
		report, err := s.AuditLeague(ctx, row.ID)
		if err != nil {
			return reports, fmt.Errorf("audit league %d: %w", row.ID, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}
