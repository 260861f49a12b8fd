package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/matchday/internal/email"
	"github.com/codr1/matchday/internal/leagues"
)

const (
	standingsAuditJobName = "standings_audit"
	standingsAuditTimeout = 5 * time.Minute
)

// StandingsAudit retries deferred folds, audits every league and mails a
// report when anything still needs an operator.
type StandingsAudit struct {
	Standings *leagues.Service
	// Sender may be nil; unhealthy runs are then only logged.
	Sender     email.EmailSender
	Recipients []string
	AppName    string
	Now        func() time.Time
}

type AuditOutcome struct {
	Refold   leagues.RefoldSummary
	Reports  []leagues.AuditReport
	Notified bool
}

func (a *StandingsAudit) Run(ctx context.Context) (AuditOutcome, error) {
	var outcome AuditOutcome
	if a == nil || a.Standings == nil {
		return outcome, fmt.Errorf("standings audit requires a league service")
	}
	logger := log.Ctx(ctx)

	refold, refoldErr := a.Standings.RefoldPending(ctx)
	outcome.Refold = refold
	if refoldErr != nil {
		refoldErr = fmt.Errorf("refold pending matches: %w", refoldErr)
		logger.Error().Err(refoldErr).Msg("Some deferred folds could not be retried")
	}
	if refold.Attempted > 0 {
		logger.Info().
			Int("attempted", refold.Attempted).
			Int("folded", refold.Folded).
			Int("pending", len(refold.Pending)).
			Msg("Deferred folds retried")
	}

	reports, err := a.Standings.AuditAll(ctx)
	outcome.Reports = reports
	if err != nil {
		return outcome, errors.Join(refoldErr, err)
	}

	unhealthy := 0
	for _, report := range reports {
		if report.Healthy() {
			continue
		}
		unhealthy++
		logger.Warn().
			Int64("league_id", report.LeagueID).
			Int("drift", len(report.Drift)).
			Int("unfolded", len(report.UnfoldedMatchIDs)).
			Int("deferred", len(report.DeferredFolds)).
			Int("goal_difference_sum", report.GoalDifferenceSum).
			Msg("League standings need attention")
	}

	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	message, ok := email.BuildIntegrityReport(a.AppName, now(), refold, reports)
	if !ok {
		logger.Info().Int("leagues", len(reports)).Msg("Standings audit clean")
		return outcome, refoldErr
	}
	if a.Sender == nil || len(a.Recipients) == 0 {
		logger.Warn().Int("unhealthy_leagues", unhealthy).Msg("Standings audit found gaps; notifications disabled")
		return outcome, refoldErr
	}
	if err := email.SendIntegrityReport(ctx, a.Sender, a.Recipients, message); err != nil {
		return outcome, errors.Join(refoldErr, fmt.Errorf("send integrity report: %w", err))
	}
	outcome.Notified = true
	return outcome, refoldErr
}

// RegisterStandingsAuditJob schedules audit on the singleton scheduler.
func RegisterStandingsAuditJob(cronExpr string, audit *StandingsAudit) error {
	if audit == nil || audit.Standings == nil {
		return fmt.Errorf("standings audit job requires a league service")
	}

	jobLogger := log.With().
		Str("component", "standings_audit_job").
		Str("job_name", standingsAuditJobName).
		Logger()

	_, err := AddJob(standingsAuditJobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), standingsAuditTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		if _, err := audit.Run(ctx); err != nil {
			jobLogger.Error().Err(err).Msg("Standings audit failed")
		}
	})
	return err
}
