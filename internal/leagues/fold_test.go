package leagues

import "testing"

func TestOutcomeDeltas(t *testing.T) {
	tests := []struct {
		name   string
		score1 int64
		score2 int64
		want1  standingDelta
		want2  standingDelta
	}{
		{
			name:   "home win",
			score1: 3, score2: 1,
			want1: standingDelta{MatchesPlayed: 1, Wins: 1, Points: 3, GoalsFor: 3, GoalsAgainst: 1, GoalDifference: 2},
			want2: standingDelta{MatchesPlayed: 1, Losses: 1, Points: 0, GoalsFor: 1, GoalsAgainst: 3, GoalDifference: -2},
		},
		{
			name:   "away win",
			score1: 0, score2: 2,
			want1: standingDelta{MatchesPlayed: 1, Losses: 1, GoalsFor: 0, GoalsAgainst: 2, GoalDifference: -2},
			want2: standingDelta{MatchesPlayed: 1, Wins: 1, Points: 3, GoalsFor: 2, GoalsAgainst: 0, GoalDifference: 2},
		},
		{
			name:   "score draw",
			score1: 2, score2: 2,
			want1: standingDelta{MatchesPlayed: 1, Draws: 1, Points: 1, GoalsFor: 2, GoalsAgainst: 2},
			want2: standingDelta{MatchesPlayed: 1, Draws: 1, Points: 1, GoalsFor: 2, GoalsAgainst: 2},
		},
		{
			name:   "goalless draw",
			score1: 0, score2: 0,
			want1: standingDelta{MatchesPlayed: 1, Draws: 1, Points: 1},
			want2: standingDelta{MatchesPlayed: 1, Draws: 1, Points: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got1, got2 := outcomeDeltas(tt.score1, tt.score2)
			if got1 != tt.want1 {
				t.Fatalf("team1 delta = %+v, want %+v", got1, tt.want1)
			}
			if got2 != tt.want2 {
				t.Fatalf("team2 delta = %+v, want %+v", got2, tt.want2)
			}
			if got1.GoalDifference+got2.GoalDifference != 0 {
				t.Fatalf("goal difference not balanced: %d + %d", got1.GoalDifference, got2.GoalDifference)
			}
		})
	}
}

func TestSortStandings(t *testing.T) {
	standings := []Standing{
		{TeamID: 5, Points: 3, GoalDifference: 1, GoalsFor: 2},
		{TeamID: 4, Points: 3, GoalDifference: 1, GoalsFor: 2},
		{TeamID: 3, Points: 3, GoalDifference: 1, GoalsFor: 4},
		{TeamID: 2, Points: 3, GoalDifference: 2, GoalsFor: 1},
		{TeamID: 1, Points: 6, GoalDifference: -1, GoalsFor: 0},
	}
	SortStandings(standings)

	want := []int64{1, 2, 3, 4, 5}
	for i, id := range want {
		if standings[i].TeamID != id {
			t.Fatalf("position %d = team %d, want %d (%+v)", i, standings[i].TeamID, id, standings)
		}
	}
}
