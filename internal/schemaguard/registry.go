package schemaguard

import "fmt"

const (
	PlayerStatsRequireMatch          = "player_stats_require_match"
	MatchesCompetitionScopeExclusive = "matches_competition_scope_exclusive"
	MatchesDistinctTeams             = "matches_distinct_teams"
	MatchesScoresPaired              = "matches_scores_paired"
	MatchesCompletedRequiresScores   = "matches_completed_requires_scores"
)

// Builtin returns the tightenings the service applies at startup.
func Builtin() []Tightening {
	return []Tightening{
		{
			Name:        PlayerStatsRequireMatch,
			Table:       "player_stats",
			Description: "player stats must reference a match and a league",
			ViolationQuery: `SELECT id FROM player_stats
WHERE match_id IS NULL OR league_id IS NULL
ORDER BY id`,
			Backfill: []string{
				`UPDATE player_stats
SET league_id = (
    SELECT COALESCE(m.league_id, t.league_id)
    FROM matches m
    LEFT JOIN tournaments t ON t.id = m.tournament_id
    WHERE m.id = player_stats.match_id
)
WHERE league_id IS NULL AND match_id IS NOT NULL`,
			},
			Quarantinable: true,
			Enforce: rowTriggers("player_stats", PlayerStatsRequireMatch,
				"NEW.match_id IS NULL OR NEW.league_id IS NULL",
				"player_stats requires match_id and league_id"),
			Relax: dropRowTriggers(PlayerStatsRequireMatch),
		},
		{
			Name:        MatchesCompetitionScopeExclusive,
			Table:       "matches",
			Description: "a match belongs to exactly one of a league or a tournament",
			ViolationQuery: `SELECT id FROM matches
WHERE (league_id IS NULL) = (tournament_id IS NULL)
ORDER BY id`,
			Enforce: rowTriggers("matches", MatchesCompetitionScopeExclusive,
				"(NEW.league_id IS NULL) = (NEW.tournament_id IS NULL)",
				"match must have exactly one of league_id or tournament_id"),
			Relax: dropRowTriggers(MatchesCompetitionScopeExclusive),
		},
		{
			Name:        MatchesDistinctTeams,
			Table:       "matches",
			Description: "a team cannot play itself",
			ViolationQuery: `SELECT id FROM matches
WHERE team1_id = team2_id
ORDER BY id`,
			Enforce: rowTriggers("matches", MatchesDistinctTeams,
				"NEW.team1_id = NEW.team2_id",
				"match teams must differ"),
			Relax: dropRowTriggers(MatchesDistinctTeams),
		},
		{
			Name:        MatchesScoresPaired,
			Table:       "matches",
			Description: "match scores are both set or both empty",
			ViolationQuery: `SELECT id FROM matches
WHERE (team1_score IS NULL) != (team2_score IS NULL)
ORDER BY id`,
			Enforce: rowTriggers("matches", MatchesScoresPaired,
				"(NEW.team1_score IS NULL) != (NEW.team2_score IS NULL)",
				"match scores must be set together"),
			Relax: dropRowTriggers(MatchesScoresPaired),
		},
		{
			Name:        MatchesCompletedRequiresScores,
			Table:       "matches",
			Description: "completed matches carry both scores",
			ViolationQuery: `SELECT id FROM matches
WHERE status = 'Completed' AND (team1_score IS NULL OR team2_score IS NULL)
ORDER BY id`,
			Enforce: rowTriggers("matches", MatchesCompletedRequiresScores,
				"NEW.status = 'Completed' AND (NEW.team1_score IS NULL OR NEW.team2_score IS NULL)",
				"completed match requires both scores"),
			Relax: dropRowTriggers(MatchesCompletedRequiresScores),
		},
	}
}

// rowTriggers builds BEFORE INSERT and BEFORE UPDATE triggers that abort
// the statement when condition holds for the new row.
func rowTriggers(table, name, condition, message string) []string {
	stmts := make([]string, 0, 2)
	for _, event := range []string{"INSERT", "UPDATE"} {
		stmts = append(stmts, fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS %s
BEFORE %s ON %s
FOR EACH ROW WHEN %s
BEGIN
    SELECT RAISE(ABORT, '%s');
END`, triggerName(name, event), event, table, condition, message))
	}
	return stmts
}

func dropRowTriggers(name string) []string {
	return []string{
		fmt.Sprintf("DROP TRIGGER IF EXISTS %s", triggerName(name, "INSERT")),
		fmt.Sprintf("DROP TRIGGER IF EXISTS %s", triggerName(name, "UPDATE")),
	}
}

func triggerName(name, event string) string {
	if event == "INSERT" {
		return "trg_" + name + "_insert"
	}
	return "trg_" + name + "_update"
}
