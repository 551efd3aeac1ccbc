package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"pkt.systems/netskin/schema"
	"pkt.systems/pslog"
)

// TriggerGate filters notification events down to the decisive subset and
// serializes decision cycles across processes. The exclusion primitive is an
// OS file lock tied to process lifetime: a killed cycle can never leave the
// lock held.
type TriggerGate struct {
	lockPath string
	settle   time.Duration
	log      pslog.Logger
}

// NewTriggerGate constructs a gate with the given lock path and settle delay.
func NewTriggerGate(lockPath string, settle time.Duration, logger pslog.Logger) *TriggerGate {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &TriggerGate{lockPath: lockPath, settle: settle, log: logger}
}

// Admit reports whether the event status is decisive. Non-decisive statuses
// are dropped without further processing and without log noise.
func (g *TriggerGate) Admit(status schema.TriggerStatus) bool {
	return status.Decisive()
}

// Acquire takes the cross-process trigger lock without blocking. When the
// lock is already held the event is dropped, not queued: correctness relies
// on the next decisive event re-triggering evaluation. The returned release
// func must run on every exit path of the cycle.
func (g *TriggerGate) Acquire() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(g.lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(g.lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire trigger lock: %w", err)
	}
	if !locked {
		return nil, schema.ErrLockBusy
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			g.log.Warn("trigger lock release failed", "path", g.lockPath, "err", err)
		}
	}, nil
}

// Settle waits the configured delay before the cycle queries system state,
// letting route and connection state stabilize after the triggering event.
// The wait happens while the lock is held, intentionally blocking any
// concurrently admitted event for the duration.
func (g *TriggerGate) Settle(ctx context.Context) {
	if g.settle <= 0 {
		return
	}
	timer := time.NewTimer(g.settle)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
