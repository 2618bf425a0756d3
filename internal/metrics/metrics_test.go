package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRegisterIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("first Register error: %v", err)
	}
	if err := Register(reg); err != nil {
		t.Fatalf("second Register error: %v", err)
	}
}

func TestHelpersAfterRegister(t *testing.T) {
	_ = Register(prometheus.NewRegistry())
	// These must not panic once registered.
	IncRunStart()
	IncRunFailure()
	ObserveRunDuration(1500*time.Millisecond, true)
	ObserveRunDuration(2*time.Second, false)
}
