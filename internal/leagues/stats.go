package leagues

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/codr1/matchday/internal/db"
	dbgen "github.com/codr1/matchday/internal/db/generated"
)

type PlayerStatInput struct {
	PlayerID      int64 `json:"playerId"`
	MatchID       int64 `json:"matchId"`
	Goals         int   `json:"goals"`
	Assists       int   `json:"assists"`
	YellowCards   int   `json:"yellowCards"`
	RedCards      int   `json:"redCards"`
	MinutesPlayed int   `json:"minutesPlayed"`
}

// RecordPlayerStat stores a player's line for a match. The league is taken
// from the match, or from the tournament's parent league, so the two can
// never disagree.
func (s *Service) RecordPlayerStat(ctx context.Context, input PlayerStatInput) (int64, error) {
	if input.PlayerID <= 0 || input.MatchID <= 0 {
		return 0, fmt.Errorf("%w: player and match ids must be positive", ErrInvalidInput)
	}
	for _, value := range []int{input.Goals, input.Assists, input.YellowCards, input.RedCards, input.MinutesPlayed} {
		if value < 0 {
			return 0, fmt.Errorf("%w: stat values must not be negative", ErrInvalidInput)
		}
	}

	var statID int64
	err := s.db.RunInTxRetry(ctx, func(tx *db.DB) error {
		match, err := tx.Queries.GetMatch(ctx, input.MatchID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrMatchNotFound
			}
			return fmt.Errorf("load match: %w", err)
		}
		leagueID := match.LeagueID
		if !leagueID.Valid && match.TournamentID.Valid {
			tournament, err := tx.Queries.GetTournament(ctx, match.TournamentID.Int64)
			if err != nil {
				return fmt.Errorf("load tournament: %w", err)
			}
			leagueID = tournament.LeagueID
		}
		if !leagueID.Valid {
			return fmt.Errorf("%w: match %d has no league", ErrInvalidInput, match.ID)
		}
		if _, err := tx.Queries.GetPlayer(ctx, input.PlayerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: player %d", ErrUnknownReference, input.PlayerID)
			}
			return fmt.Errorf("load player: %w", err)
		}

		id, err := tx.Queries.CreatePlayerStat(ctx, dbgen.CreatePlayerStatParams{
			PlayerID:      input.PlayerID,
			MatchID:       sql.NullInt64{Int64: match.ID, Valid: true},
			LeagueID:      leagueID,
			Goals:         int64(input.Goals),
			Assists:       int64(input.Assists),
			YellowCards:   int64(input.YellowCards),
			RedCards:      int64(input.RedCards),
			MinutesPlayed: int64(input.MinutesPlayed),
		})
		if err != nil {
			if db.IsConstraintViolation(err) {
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			return fmt.Errorf("create player stat: %w", err)
		}
		statID = id
		return nil
	})
	if err != nil {
		return 0, err
	}
	return statID, nil
}
