package leagues

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	dbgen "github.com/codr1/matchday/internal/db/generated"
)

// GetStandings returns the cached league table ordered by points, goal
// difference, goals scored and finally team id.
func (s *Service) GetStandings(ctx context.Context, leagueID int64) ([]Standing, error) {
	return cachedStandings(ctx, s.db.Queries, leagueID)
}

// RecomputeStandings derives the league table from the folded match log
// without touching the cache.
func (s *Service) RecomputeStandings(ctx context.Context, leagueID int64) ([]Standing, error) {
	cached, err := cachedStandings(ctx, s.db.Queries, leagueID)
	if err != nil {
		return nil, err
	}
	return recomputeStandings(ctx, s.db.Queries, leagueID, cached)
}

func cachedStandings(ctx context.Context, q *dbgen.Queries, leagueID int64) ([]Standing, error) {
	if leagueID <= 0 {
		return nil, fmt.Errorf("%w: league id must be positive", ErrInvalidInput)
	}
	if _, err := q.GetLeague(ctx, leagueID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("load league: %w", err)
	}

	rows, err := q.ListLeagueStandings(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	standings := make([]Standing, 0, len(rows))
	for _, row := range rows {
		standings = append(standings, standingFromRow(row))
	}
	return standings, nil
}

// recomputeStandings starts every team present in the cache from zero and
// replays each folded match of the league.
func recomputeStandings(ctx context.Context, q *dbgen.Queries, leagueID int64, cached []Standing) ([]Standing, error) {
	teams := make(map[int64]*Standing, len(cached))
	for _, row := range cached {
		teams[row.TeamID] = &Standing{LeagueID: leagueID, TeamID: row.TeamID, TeamName: row.TeamName}
	}

	matches, err := q.ListFoldedLeagueMatches(ctx, nullLeague(leagueID))
	if err != nil {
		return nil, fmt.Errorf("list folded matches: %w", err)
	}
	for _, match := range matches {
		if !match.Team1Score.Valid || !match.Team2Score.Valid {
			return nil, fmt.Errorf("match %d is missing scores", match.ID)
		}
		delta1, delta2 := outcomeDeltas(match.Team1Score.Int64, match.Team2Score.Int64)
		for _, side := range []struct {
			teamID int64
			delta  standingDelta
		}{
			{match.Team1ID, delta1},
			{match.Team2ID, delta2},
		} {
			entry, ok := teams[side.teamID]
			if !ok {
				entry = &Standing{LeagueID: leagueID, TeamID: side.teamID}
				teams[side.teamID] = entry
			}
			entry.apply(side.delta)
		}
	}

	standings := make([]Standing, 0, len(teams))
	for _, entry := range teams {
		standings = append(standings, *entry)
	}
	SortStandings(standings)
	return standings, nil
}

// SortStandings orders rows the way the league table is displayed.
func SortStandings(standings []Standing) {
	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.TeamID < b.TeamID
	})
}

func nullLeague(leagueID int64) sql.NullInt64 {
	return sql.NullInt64{Int64: leagueID, Valid: true}
}
