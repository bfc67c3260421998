package scheduler

import (
	"context"
	"errors"
	"testing"
)

type fakeRetrier struct {
	calls     int
	remaining int
	err       error
}

func (f *fakeRetrier) RetryPending(ctx context.Context) (int, error) {
	f.calls++
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("expected a deadline")
	}
	return f.remaining, f.err
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	s := NewScheduler("every tuesday", &fakeRetrier{}, nil)
	if err := s.Start(); err == nil {
		t.Fatal("expected an error for an invalid cron expression")
	}
}

func TestStartAndStop(t *testing.T) {
	s := NewScheduler("*/5 * * * *", &fakeRetrier{}, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() err=%v", err)
	}
	if len(s.cron.Entries()) != 1 {
		t.Fatalf("entries = %d, want 1", len(s.cron.Entries()))
	}
	s.Stop()
}

func TestRetryAuditCallsRetrier(t *testing.T) {
	r := &fakeRetrier{remaining: 2}
	s := NewScheduler("*/5 * * * *", r, nil)

	s.retryAudit()
	r.err = context.DeadlineExceeded
	s.retryAudit()

	if r.calls != 2 {
		t.Fatalf("calls = %d, want 2", r.calls)
	}
}
