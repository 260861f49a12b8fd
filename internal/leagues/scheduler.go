package leagues

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/matchday/internal/db"
)

const minRoundInterval = 24 * time.Hour

type ScheduledMatch struct {
	MatchID     int64     `json:"matchId"`
	Round       int       `json:"round"`
	Team1ID     int64     `json:"team1Id"`
	Team2ID     int64     `json:"team2Id"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

// ScheduleRoundRobin creates a single round robin between the league's
// current members. Round n kicks off at start + (n-1)*interval. Every
// fixture goes through the same checks as CreateMatch and the whole
// schedule is written in one transaction.
func (s *Service) ScheduleRoundRobin(ctx context.Context, leagueID int64, start time.Time, interval time.Duration) ([]ScheduledMatch, error) {
	if leagueID <= 0 {
		return nil, fmt.Errorf("%w: league id must be positive", ErrInvalidInput)
	}
	if start.IsZero() {
		return nil, fmt.Errorf("%w: start time is required", ErrInvalidInput)
	}
	if interval < minRoundInterval {
		return nil, fmt.Errorf("%w: rounds must be at least one day apart", ErrInvalidInput)
	}

	var schedule []ScheduledMatch
	err := s.db.RunInTxRetry(ctx, func(tx *db.DB) error {
		schedule = nil
		if _, err := cachedStandings(ctx, tx.Queries, leagueID); err != nil {
			return err
		}
		members, err := tx.Queries.ListLeagueMemberships(ctx, leagueID)
		if err != nil {
			return fmt.Errorf("list memberships: %w", err)
		}
		teamIDs := make([]int64, 0, len(members))
		for _, member := range members {
			teamIDs = append(teamIDs, member.TeamID)
		}

		pairs, err := buildRoundRobinPairs(teamIDs)
		if err != nil {
			return err
		}
		for _, pair := range pairs {
			kickoff := s.roundKickoff(start, pair.Round, interval)
			id, err := s.createMatchTx(ctx, tx.Queries, MatchInput{
				Scope:       LeagueScope(leagueID),
				Team1ID:     pair.Team1ID,
				Team2ID:     pair.Team2ID,
				ScheduledAt: kickoff,
			})
			if err != nil {
				return fmt.Errorf("round %d %d vs %d: %w", pair.Round, pair.Team1ID, pair.Team2ID, err)
			}
			schedule = append(schedule, ScheduledMatch{
				MatchID:     id,
				Round:       pair.Round,
				Team1ID:     pair.Team1ID,
				Team2ID:     pair.Team2ID,
				ScheduledAt: kickoff,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Int64("league_id", leagueID).
		Int("matches", len(schedule)).
		Msg("Round robin scheduled")
	return schedule, nil
}

// roundKickoff steps whole days on the calendar so a DST change never pulls
// two rounds onto the same date.
func (s *Service) roundKickoff(start time.Time, round int, interval time.Duration) time.Time {
	if interval%minRoundInterval == 0 {
		days := int(interval / minRoundInterval)
		return start.In(s.loc).AddDate(0, 0, days*(round-1))
	}
	return start.Add(time.Duration(round-1) * interval)
}

type roundPair struct {
	Round   int
	Team1ID int64
	Team2ID int64
}

// buildRoundRobinPairs uses the circle method. With an odd number of teams
// one team per round gets a bye.
func buildRoundRobinPairs(teamIDs []int64) ([]roundPair, error) {
	if len(teamIDs) < 2 {
		return nil, ErrNotEnoughTeams
	}

	const bye int64 = 0
	working := make([]int64, len(teamIDs), len(teamIDs)+1)
	copy(working, teamIDs)
	if len(working)%2 == 1 {
		working = append(working, bye)
	}

	rounds := len(working) - 1
	pairs := make([]roundPair, 0, rounds*len(working)/2)

	for round := 0; round < rounds; round++ {
		for i := 0; i < len(working)/2; i++ {
			left := working[i]
			right := working[len(working)-1-i]
			if left == bye || right == bye {
				continue
			}
			home, away := left, right
			if i == 0 && round%2 == 1 {
				home, away = away, home
			}
			pairs = append(pairs, roundPair{Round: round + 1, Team1ID: home, Team2ID: away})
		}
		rotateTeams(working)
	}

	return pairs, nil
}

// rotateTeams keeps the first slot fixed and rotates the rest clockwise.
func rotateTeams(teams []int64) {
	if len(teams) <= 2 {
		return
	}
	last := teams[len(teams)-1]
	copy(teams[2:], teams[1:len(teams)-1])
	teams[1] = last
}
