package scheduler

import (
	"errors"
	"testing"
	"time"
)

func TestAddJobValidation(t *testing.T) {
	svc, err := newService(time.UTC)
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	t.Cleanup(func() { _ = svc.Stop() })

	noop := func() {}
	if _, err := svc.AddJob(" ", "0 3 * * *", noop); !errors.Is(err, ErrEmptyJobName) {
		t.Fatalf("empty name err = %v", err)
	}
	if _, err := svc.AddJob("audit", "", noop); !errors.Is(err, ErrEmptyCronExpr) {
		t.Fatalf("empty cron err = %v", err)
	}
	if _, err := svc.AddJob("audit", "not a cron", noop); err == nil {
		t.Fatal("expected invalid cron expression to be rejected")
	}
	job, err := svc.AddJob("audit", "0 3 * * *", noop)
	if err != nil {
		t.Fatalf("add job: %v", err)
	}
	if job.Name() != "audit" {
		t.Fatalf("job name = %q", job.Name())
	}
}

func TestNilServiceReportsNotInitialized(t *testing.T) {
	var svc *Service
	if _, err := svc.AddJob("audit", "0 3 * * *", func() {}); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("err = %v", err)
	}
	if err := svc.Stop(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("stop err = %v", err)
	}
}
