package leagues

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrUnknownReference        = errors.New("unknown reference")
	ErrDuplicateMembership     = errors.New("team is already a member of the league")
	ErrMembershipNotFound      = errors.New("membership not found")
	ErrLeagueNotFound          = errors.New("league not found")
	ErrInvalidCompetitionScope = errors.New("match must belong to exactly one of a league or a tournament")
	ErrSelfMatch               = errors.New("a team cannot play itself")
	ErrSchedulingConflict      = errors.New("team already has a match on that date")
	ErrMatchNotFound           = errors.New("match not found")
	ErrIncompleteScore         = errors.New("both scores are required")
	ErrNegativeScore           = errors.New("scores must not be negative")
	ErrInvalidState            = errors.New("match is not in a state that allows this change")
	ErrMissingStandingRow      = errors.New("standing row missing for league team")
	ErrLockContention          = errors.New("standing rows are busy, try again")
	ErrNotEnoughTeams          = errors.New("at least two teams are required")
)

// DeferredFoldError reports a completed league match whose standings fold
// could not run because one or both standing rows were missing. The match
// result is committed and the fold is recorded for a later refold.
type DeferredFoldError struct {
	MatchID        int64
	LeagueID       int64
	MissingTeamIDs []int64
}

func (e *DeferredFoldError) Error() string {
	return fmt.Sprintf("match %d fold deferred: league %d has no standing row for team(s) %s",
		e.MatchID, e.LeagueID, formatTeamIDs(e.MissingTeamIDs))
}

func (e *DeferredFoldError) Unwrap() error {
	return ErrMissingStandingRow
}

func formatTeamIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}

func parseTeamIDs(raw string) []int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
