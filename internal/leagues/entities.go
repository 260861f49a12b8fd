package leagues

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/codr1/matchday/internal/api/apiutil"
	"github.com/codr1/matchday/internal/db"
	dbgen "github.com/codr1/matchday/internal/db/generated"
)

// The helpers below create the reference rows matches and memberships point
// at. Full CRUD for these entities lives outside this service.

func (s *Service) CreateTeam(ctx context.Context, name string) (int64, error) {
	name, err := requireName(name)
	if err != nil {
		return 0, err
	}
	id, err := s.db.Queries.CreateTeam(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("create team: %w", err)
	}
	return id, nil
}

type CompetitionInput struct {
	Name      string
	StartDate *time.Time
	EndDate   *time.Time
	Status    string
}

func (in CompetitionInput) validate() (string, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return "", err
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return "", fmt.Errorf("%w: start date must be on or before end date", ErrInvalidInput)
	}
	return name, nil
}

func (s *Service) CreateLeague(ctx context.Context, input CompetitionInput) (int64, error) {
	name, err := input.validate()
	if err != nil {
		return 0, err
	}
	id, err := s.db.Queries.CreateLeague(ctx, dbgen.CreateLeagueParams{
		Name:      name,
		StartDate: toNullTime(input.StartDate),
		EndDate:   toNullTime(input.EndDate),
		Status:    statusOrDefault(input.Status),
	})
	if err != nil {
		return 0, fmt.Errorf("create league: %w", err)
	}
	return id, nil
}

// CreateTournament creates a tournament, optionally attached to a league.
func (s *Service) CreateTournament(ctx context.Context, leagueID *int64, input CompetitionInput) (int64, error) {
	name, err := input.validate()
	if err != nil {
		return 0, err
	}
	id, err := s.db.Queries.CreateTournament(ctx, dbgen.CreateTournamentParams{
		LeagueID:  apiutil.ToNullInt64(leagueID),
		Name:      name,
		StartDate: toNullTime(input.StartDate),
		EndDate:   toNullTime(input.EndDate),
		Status:    statusOrDefault(input.Status),
	})
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return 0, fmt.Errorf("%w: league %d", ErrUnknownReference, *leagueID)
		}
		return 0, fmt.Errorf("create tournament: %w", err)
	}
	return id, nil
}

func (s *Service) CreateCoach(ctx context.Context, name string) (int64, error) {
	name, err := requireName(name)
	if err != nil {
		return 0, err
	}
	id, err := s.db.Queries.CreateCoach(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("create coach: %w", err)
	}
	return id, nil
}

func (s *Service) CreateVenue(ctx context.Context, name, city string) (int64, error) {
	name, err := requireName(name)
	if err != nil {
		return 0, err
	}
	id, err := s.db.Queries.CreateVenue(ctx, dbgen.CreateVenueParams{Name: name, City: strings.TrimSpace(city)})
	if err != nil {
		return 0, fmt.Errorf("create venue: %w", err)
	}
	return id, nil
}

func (s *Service) CreateReferee(ctx context.Context, name string) (int64, error) {
	name, err := requireName(name)
	if err != nil {
		return 0, err
	}
	id, err := s.db.Queries.CreateReferee(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("create referee: %w", err)
	}
	return id, nil
}

func (s *Service) CreatePlayer(ctx context.Context, teamID *int64, name, position string) (int64, error) {
	name, err := requireName(name)
	if err != nil {
		return 0, err
	}
	id, err := s.db.Queries.CreatePlayer(ctx, dbgen.CreatePlayerParams{
		TeamID:   apiutil.ToNullInt64(teamID),
		Name:     name,
		Position: strings.TrimSpace(position),
	})
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return 0, fmt.Errorf("%w: team %d", ErrUnknownReference, *teamID)
		}
		return 0, fmt.Errorf("create player: %w", err)
	}
	return id, nil
}

func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	return name, nil
}

func statusOrDefault(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return "upcoming"
	}
	return status
}

func toNullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *value, Valid: true}
}
