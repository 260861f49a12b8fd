package email

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/matchday/internal/leagues"
)

const integrityEmailTimeout = 10 * time.Second

type IntegrityEmail struct {
	Subject string
	Body    string
}

// BuildIntegrityReport summarises the leagues whose standings need operator
// attention. ok is false when every league is healthy and nothing is pending.
func BuildIntegrityReport(appName string, checkedAt time.Time, refold leagues.RefoldSummary, reports []leagues.AuditReport) (IntegrityEmail, bool) {
	var unhealthy []leagues.AuditReport
	for _, report := range reports {
		if !report.Healthy() {
			unhealthy = append(unhealthy, report)
		}
	}
	if len(unhealthy) == 0 && len(refold.Pending) == 0 {
		return IntegrityEmail{}, false
	}

	appName = strings.TrimSpace(appName)
	if appName == "" {
		appName = "matchday"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Standings audit run at %s.\n\n", checkedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Deferred folds retried: %d, folded: %d, still pending: %d\n",
		refold.Attempted, refold.Folded, len(refold.Pending))
	if len(refold.Pending) > 0 {
		fmt.Fprintf(&b, "Pending match ids: %s\n", joinIDs(refold.Pending))
	}

	for _, report := range unhealthy {
		fmt.Fprintf(&b, "\nLeague %d\n", report.LeagueID)
		for _, drift := range report.Drift {
			fmt.Fprintf(&b, "  team %d drifted: cached %d pts over %d played, expected %d pts over %d played\n",
				drift.TeamID, drift.Cached.Points, drift.Cached.MatchesPlayed,
				drift.Expected.Points, drift.Expected.MatchesPlayed)
		}
		if len(report.UnfoldedMatchIDs) > 0 {
			fmt.Fprintf(&b, "  completed but unfolded matches: %s\n", joinIDs(report.UnfoldedMatchIDs))
		}
		for _, fold := range report.DeferredFolds {
			fmt.Fprintf(&b, "  match %d deferred since %s, missing standing rows for teams %s (%d attempts)\n",
				fold.MatchID, fold.DeferredAt.UTC().Format(time.RFC3339), joinIDs(fold.MissingTeamIDs), fold.Attempts)
		}
		if len(report.PointsMismatchTeams) > 0 {
			fmt.Fprintf(&b, "  points do not match wins and draws for teams %s\n", joinIDs(report.PointsMismatchTeams))
		}
		if report.GoalDifferenceSum != 0 {
			fmt.Fprintf(&b, "  goal difference sums to %d\n", report.GoalDifferenceSum)
		}
	}
	b.WriteString("\nRun POST /api/v1/leagues/{id}/rebuild after reviewing drift.\n")

	return IntegrityEmail{
		Subject: fmt.Sprintf("[%s] Standings integrity: %d league(s) need attention", appName, len(unhealthy)),
		Body:    b.String(),
	}, true
}

// SendIntegrityReport delivers message to every recipient. Sends run on a
// context detached from ctx's cancellation so a shutting-down job still
// flushes its alert.
func SendIntegrityReport(ctx context.Context, sender EmailSender, recipients []string, message IntegrityEmail) error {
	if sender == nil {
		return fmt.Errorf("email sender is not configured")
	}
	logger := log.Ctx(ctx)

	var errs []error
	for _, recipient := range recipients {
		recipient = strings.TrimSpace(recipient)
		if recipient == "" {
			continue
		}
		sendCtx, cancel := newEmailContext(ctx, integrityEmailTimeout)
		err := sender.Send(sendCtx, recipient, message.Subject, message.Body)
		cancel()
		if err != nil {
			logger.Error().Err(err).Str("recipient", recipient).Msg("Failed to send integrity report")
			errs = append(errs, fmt.Errorf("send to %s: %w", recipient, err))
			continue
		}
		logger.Info().Str("recipient", recipient).Msg("Integrity report sent")
	}
	return errors.Join(errs...)
}

func newEmailContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}
