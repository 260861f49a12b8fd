package leagues

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/codr1/matchday/internal/leagues"
)

func standingsTableComponent(leagueID int64, standings []leagues.Standing) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildStandingsTableHTML(leagueID, standings))
		return err
	})
}

func buildStandingsTableHTML(leagueID int64, standings []leagues.Standing) string {
	if len(standings) == 0 {
		return `<div class="rounded border border-dashed p-6 text-center text-sm text-gray-500">No teams in this league yet.</div>`
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf(`<table id="standings-%d" class="min-w-full text-sm">`, leagueID))
	builder.WriteString(`<thead><tr class="text-left text-gray-500">`)
	for _, heading := range []string{"#", "Team", "P", "W", "D", "L", "GF", "GA", "GD", "Pts"} {
		builder.WriteString(`<th class="px-2 py-1">`)
		builder.WriteString(heading)
		builder.WriteString(`</th>`)
	}
	builder.WriteString(`</tr></thead><tbody>`)
	for i, row := range standings {
		builder.WriteString(fmt.Sprintf(
			`<tr data-team-id="%d"><td class="px-2 py-1">%d</td><td class="px-2 py-1 font-medium">%s</td>`+
				`<td class="px-2 py-1">%d</td><td class="px-2 py-1">%d</td><td class="px-2 py-1">%d</td><td class="px-2 py-1">%d</td>`+
				`<td class="px-2 py-1">%d</td><td class="px-2 py-1">%d</td><td class="px-2 py-1">%+d</td><td class="px-2 py-1 font-semibold">%d</td></tr>`,
			row.TeamID, i+1, html.EscapeString(row.TeamName),
			row.MatchesPlayed, row.Wins, row.Draws, row.Losses,
			row.GoalsFor, row.GoalsAgainst, row.GoalDifference, row.Points,
		))
	}
	builder.WriteString(`</tbody></table>`)
	return builder.String()
}
