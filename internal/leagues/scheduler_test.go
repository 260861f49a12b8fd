package leagues

import (
	"errors"
	"testing"
)

func TestBuildRoundRobinPairs(t *testing.T) {
	tests := []struct {
		name       string
		teams      []int64
		wantPairs  int
		wantRounds int
	}{
		{name: "two teams", teams: []int64{1, 2}, wantPairs: 1, wantRounds: 1},
		{name: "odd count uses byes", teams: []int64{1, 2, 3}, wantPairs: 3, wantRounds: 3},
		{name: "four teams", teams: []int64{1, 2, 3, 4}, wantPairs: 6, wantRounds: 3},
		{name: "six teams", teams: []int64{10, 20, 30, 40, 50, 60}, wantPairs: 15, wantRounds: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, err := buildRoundRobinPairs(tt.teams)
			if err != nil {
				t.Fatalf("build pairs: %v", err)
			}
			if len(pairs) != tt.wantPairs {
				t.Fatalf("pairs = %d, want %d", len(pairs), tt.wantPairs)
			}

			seen := make(map[[2]int64]bool)
			perRound := make(map[int]map[int64]bool)
			maxRound := 0
			for _, pair := range pairs {
				if pair.Team1ID == pair.Team2ID {
					t.Fatalf("team %d paired with itself", pair.Team1ID)
				}
				key := [2]int64{min(pair.Team1ID, pair.Team2ID), max(pair.Team1ID, pair.Team2ID)}
				if seen[key] {
					t.Fatalf("pair %v scheduled twice", key)
				}
				seen[key] = true

				if perRound[pair.Round] == nil {
					perRound[pair.Round] = make(map[int64]bool)
				}
				for _, id := range []int64{pair.Team1ID, pair.Team2ID} {
					if perRound[pair.Round][id] {
						t.Fatalf("team %d plays twice in round %d", id, pair.Round)
					}
					perRound[pair.Round][id] = true
				}
				if pair.Round > maxRound {
					maxRound = pair.Round
				}
			}
			if maxRound != tt.wantRounds {
				t.Fatalf("rounds = %d, want %d", maxRound, tt.wantRounds)
			}
		})
	}
}

func TestBuildRoundRobinPairsNeedsTwoTeams(t *testing.T) {
	if _, err := buildRoundRobinPairs([]int64{1}); !errors.Is(err, ErrNotEnoughTeams) {
		t.Fatalf("expected ErrNotEnoughTeams, got %v", err)
	}
}
