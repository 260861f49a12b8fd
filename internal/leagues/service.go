package leagues

import (
	"time"

	"github.com/codr1/matchday/internal/config"
	"github.com/codr1/matchday/internal/db"
)

type Options struct {
	// Location decides which calendar date a kickoff falls on.
	Location    *time.Location
	LockWait    time.Duration
	LockRetries int
	LockBackoff time.Duration
	Now         func() time.Time
}

// OptionsFromConfig maps the standings section of the config.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	loc, err := cfg.Location()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Location:    loc,
		LockWait:    cfg.Standings.LockWait.Duration,
		LockRetries: cfg.Standings.LockRetries,
		LockBackoff: cfg.Standings.LockBackoff.Duration,
	}, nil
}

// Service owns memberships, the match lifecycle and the standings cache of
// every league. All writes go through database transactions scoped to one
// operation.
type Service struct {
	db    *db.DB
	locks *RowLocks
	loc   *time.Location
	now   func() time.Time

	foldHook func(stage string) error
}

func NewService(database *db.DB, opts Options) *Service {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		db:    database,
		locks: NewRowLocks(opts.LockWait, opts.LockRetries, opts.LockBackoff),
		loc:   loc,
		now:   now,
	}
}

func (s *Service) matchDate(scheduledAt time.Time) string {
	return scheduledAt.In(s.loc).Format(matchDateLayout)
}

// Location is the zone kickoff dates are bucketed in.
func (s *Service) Location() *time.Location {
	return s.loc
}
