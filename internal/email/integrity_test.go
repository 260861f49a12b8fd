package email

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/codr1/matchday/internal/leagues"
)

type sentEmail struct {
	recipient string
	subject   string
	body      string
	ctxErr    error
}

type fakeEmailSender struct {
	mu      sync.Mutex
	sent    []sentEmail
	failFor string
}

func (f *fakeEmailSender) Send(ctx context.Context, recipient, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEmail{recipient: recipient, subject: subject, body: body, ctxErr: ctx.Err()})
	if recipient == f.failFor {
		return errors.New("mailbox unavailable")
	}
	return nil
}

var auditTime = time.Date(2024, 3, 10, 3, 0, 0, 0, time.UTC)

func TestBuildIntegrityReportHealthy(t *testing.T) {
	reports := []leagues.AuditReport{{LeagueID: 1}, {LeagueID: 2}}
	if _, ok := BuildIntegrityReport("matchday", auditTime, leagues.RefoldSummary{Attempted: 1, Folded: 1}, reports); ok {
		t.Fatal("expected no report when every league is healthy")
	}
}

func TestBuildIntegrityReportListsGaps(t *testing.T) {
	reports := []leagues.AuditReport{
		{LeagueID: 1},
		{
			LeagueID: 2,
			Drift: []leagues.StandingDrift{{
				TeamID:   7,
				Cached:   leagues.Standing{Points: 6, MatchesPlayed: 2},
				Expected: leagues.Standing{Points: 3, MatchesPlayed: 1},
			}},
			UnfoldedMatchIDs: []int64{11, 12},
			DeferredFolds: []leagues.DeferredFold{{
				MatchID: 13, LeagueID: 2, MissingTeamIDs: []int64{9}, Attempts: 2, DeferredAt: auditTime,
			}},
		},
	}
	refold := leagues.RefoldSummary{Attempted: 1, Pending: []int64{13}}

	message, ok := BuildIntegrityReport("matchday", auditTime, refold, reports)
	if !ok {
		t.Fatal("expected a report")
	}
	if !strings.Contains(message.Subject, "1 league(s)") {
		t.Fatalf("subject = %q", message.Subject)
	}
	for _, want := range []string{
		"League 2",
		"team 7 drifted: cached 6 pts over 2 played, expected 3 pts over 1 played",
		"completed but unfolded matches: 11, 12",
		"match 13 deferred since 2024-03-10T03:00:00Z, missing standing rows for teams 9 (2 attempts)",
		"Pending match ids: 13",
	} {
		if !strings.Contains(message.Body, want) {
			t.Errorf("body missing %q:\n%s", want, message.Body)
		}
	}
	if strings.Contains(message.Body, "League 1\n") {
		t.Errorf("healthy league listed:\n%s", message.Body)
	}
}

func TestSendIntegrityReportDetachesCancellation(t *testing.T) {
	sender := &fakeEmailSender{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	message := IntegrityEmail{Subject: "Subject", Body: "Body"}
	if err := SendIntegrityReport(ctx, sender, []string{"ops@example.com", " ", "league@example.com"}, message); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("sent %d emails, want 2", len(sender.sent))
	}
	for _, sent := range sender.sent {
		if sent.ctxErr != nil {
			t.Fatalf("send context already done: %v", sent.ctxErr)
		}
	}
}

func TestSendIntegrityReportJoinsFailures(t *testing.T) {
	sender := &fakeEmailSender{failFor: "broken@example.com"}
	err := SendIntegrityReport(context.Background(), sender, []string{"broken@example.com", "ops@example.com"}, IntegrityEmail{Subject: "s", Body: "b"})
	if err == nil || !strings.Contains(err.Error(), "broken@example.com") {
		t.Fatalf("err = %v", err)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("expected delivery to continue after a failure, sent %d", len(sender.sent))
	}
}

func TestSendIntegrityReportRequiresSender(t *testing.T) {
	if err := SendIntegrityReport(context.Background(), nil, []string{"ops@example.com"}, IntegrityEmail{}); err == nil {
		t.Fatal("expected error without sender")
	}
}
