package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/mariogeiger/coverage-http/internal/history"
)

func TestNewRejectsEmptyDSN(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatalf("expected error for empty DSN")
	}
}

func TestSendAndQueryEvents(t *testing.T) {
	sink, err := New(":memory:")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer func() { _ = sink.Close() }()

	ctx := context.Background()
	events := []history.Event{
		{
			Type:       history.EventRunStart,
			OccurredAt: time.Now(),
			Target:     "tests/unit",
			Command:    "python -m coverage run -m pytest tests/unit && python -m coverage html",
		},
		{
			Type:       history.EventRunFinish,
			OccurredAt: time.Now(),
			Target:     "tests/unit",
			Command:    "python -m coverage run -m pytest tests/unit && python -m coverage html",
			Success:    false,
			ExitCode:   1,
			FailedStep: "python -m coverage run -m pytest tests/unit",
			Duration:   1200 * time.Millisecond,
		},
	}
	for _, e := range events {
		if err := sink.Send(ctx, e); err != nil {
			t.Fatalf("Send(%s) error: %v", e.Type, err)
		}
	}

	var n int
	if err := sink.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM coverage_runs`).Scan(&n); err != nil {
		t.Fatalf("count query: %v", err)
	}
	if n != len(events) {
		t.Fatalf("stored %d rows, want %d", n, len(events))
	}

	var failedStep string
	var durationMS int64
	err = sink.db.QueryRowContext(ctx,
		`SELECT failed_step, duration_ms FROM coverage_runs WHERE event = ?`,
		string(history.EventRunFinish)).Scan(&failedStep, &durationMS)
	if err != nil {
		t.Fatalf("finish row query: %v", err)
	}
	if failedStep != events[1].FailedStep {
		t.Errorf("failed_step = %q, want %q", failedStep, events[1].FailedStep)
	}
	if durationMS != 1200 {
		t.Errorf("duration_ms = %d, want 1200", durationMS)
	}
}

func TestSqlitePrefixDSN(t *testing.T) {
	sink, err := New("sqlite://:memory:")
	if err != nil {
		t.Fatalf("New with sqlite:// prefix: %v", err)
	}
	_ = sink.Close()
}
