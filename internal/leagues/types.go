package leagues

import (
	"database/sql"
	"time"

	dbgen "github.com/codr1/matchday/internal/db/generated"
)

type MatchStatus string

const (
	StatusScheduled MatchStatus = "Scheduled"
	StatusCompleted MatchStatus = "Completed"
	StatusCancelled MatchStatus = "Cancelled"
)

const matchDateLayout = "2006-01-02"

// CompetitionRef names the single league or tournament a match belongs to.
type CompetitionRef struct {
	LeagueID     *int64 `json:"leagueId,omitempty"`
	TournamentID *int64 `json:"tournamentId,omitempty"`
}

func LeagueScope(leagueID int64) CompetitionRef {
	return CompetitionRef{LeagueID: &leagueID}
}

func TournamentScope(tournamentID int64) CompetitionRef {
	return CompetitionRef{TournamentID: &tournamentID}
}

func (c CompetitionRef) valid() bool {
	return (c.LeagueID == nil) != (c.TournamentID == nil)
}

type MatchInput struct {
	Scope       CompetitionRef
	Team1ID     int64
	Team2ID     int64
	ScheduledAt time.Time
	VenueID     *int64
	RefereeID   *int64
}

type Match struct {
	ID                int64       `json:"id"`
	LeagueID          *int64      `json:"leagueId,omitempty"`
	TournamentID      *int64      `json:"tournamentId,omitempty"`
	Team1ID           int64       `json:"team1Id"`
	Team2ID           int64       `json:"team2Id"`
	MatchDate         string      `json:"matchDate"`
	ScheduledAt       time.Time   `json:"scheduledAt"`
	VenueID           *int64      `json:"venueId,omitempty"`
	RefereeID         *int64      `json:"refereeId,omitempty"`
	Status            MatchStatus `json:"status"`
	Team1Score        *int        `json:"team1Score,omitempty"`
	Team2Score        *int        `json:"team2Score,omitempty"`
	StandingsFoldedAt *time.Time  `json:"standingsFoldedAt,omitempty"`
}

type Standing struct {
	LeagueID       int64  `json:"leagueId"`
	TeamID         int64  `json:"teamId"`
	TeamName       string `json:"teamName"`
	MatchesPlayed  int    `json:"matchesPlayed"`
	Wins           int    `json:"wins"`
	Draws          int    `json:"draws"`
	Losses         int    `json:"losses"`
	Points         int    `json:"points"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
}

type DeferredFold struct {
	MatchID        int64     `json:"matchId"`
	LeagueID       int64     `json:"leagueId"`
	MissingTeamIDs []int64   `json:"missingTeamIds"`
	Attempts       int64     `json:"attempts"`
	DeferredAt     time.Time `json:"deferredAt"`
	LastAttemptAt  time.Time `json:"lastAttemptAt"`
}

func matchFromRow(row dbgen.Match) Match {
	match := Match{
		ID:           row.ID,
		LeagueID:     nullInt64Ptr(row.LeagueID),
		TournamentID: nullInt64Ptr(row.TournamentID),
		Team1ID:      row.Team1ID,
		Team2ID:      row.Team2ID,
		MatchDate:    row.MatchDate,
		ScheduledAt:  row.ScheduledAt,
		VenueID:      nullInt64Ptr(row.VenueID),
		RefereeID:    nullInt64Ptr(row.RefereeID),
		Status:       MatchStatus(row.Status),
		Team1Score:   nullIntPtr(row.Team1Score),
		Team2Score:   nullIntPtr(row.Team2Score),
	}
	if row.StandingsFoldedAt.Valid {
		foldedAt := row.StandingsFoldedAt.Time
		match.StandingsFoldedAt = &foldedAt
	}
	return match
}

func standingFromRow(row dbgen.ListLeagueStandingsRow) Standing {
	return Standing{
		LeagueID:       row.LeagueID,
		TeamID:         row.TeamID,
		TeamName:       row.TeamName,
		MatchesPlayed:  int(row.MatchesPlayed),
		Wins:           int(row.Wins),
		Draws:          int(row.Draws),
		Losses:         int(row.Losses),
		Points:         int(row.Points),
		GoalsFor:       int(row.GoalsFor),
		GoalsAgainst:   int(row.GoalsAgainst),
		GoalDifference: int(row.GoalDifference),
	}
}

func deferredFoldFromRow(row dbgen.DeferredFold) DeferredFold {
	return DeferredFold{
		MatchID:        row.MatchID,
		LeagueID:       row.LeagueID,
		MissingTeamIDs: parseTeamIDs(row.MissingTeamIds),
		Attempts:       row.Attempts,
		DeferredAt:     row.DeferredAt,
		LastAttemptAt:  row.LastAttemptAt,
	}
}

func nullInt64Ptr(value sql.NullInt64) *int64 {
	if !value.Valid {
		return nil
	}
	v := value.Int64
	return &v
}

func nullIntPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int64)
	return &v
}
