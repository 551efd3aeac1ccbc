package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"pkt.systems/netskin/schema"
)

func TestAdmitFiltersStatuses(t *testing.T) {
	gate := NewTriggerGate(filepath.Join(t.TempDir(), "trigger.lock"), 0, nil)
	for _, status := range []schema.TriggerStatus{schema.StatusUp, schema.StatusDown, schema.StatusVPNUp, schema.StatusVPNDown} {
		if !gate.Admit(status) {
			t.Fatalf("expected %q to be admitted", status)
		}
	}
	for _, status := range []schema.TriggerStatus{"pre-up", "dhcp6-change", "connectivity-change", ""} {
		if gate.Admit(status) {
			t.Fatalf("expected %q to be dropped", status)
		}
	}
}

func TestAcquireMutualExclusion(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "trigger.lock")
	gate := NewTriggerGate(lockPath, 0, nil)
	release, err := gate.Acquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	other := NewTriggerGate(lockPath, 0, nil)
	if _, err := other.Acquire(); !errors.Is(err, schema.ErrLockBusy) {
		t.Fatalf("expected ErrLockBusy while held, got %v", err)
	}

	release()
	release2, err := other.Acquire()
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	release2()
}

func TestSettleZeroReturnsImmediately(t *testing.T) {
	gate := NewTriggerGate(filepath.Join(t.TempDir(), "trigger.lock"), 0, nil)
	start := time.Now()
	gate.Settle(context.Background())
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("zero settle took %s", elapsed)
	}
}

func TestSettleHonorsCancellation(t *testing.T) {
	gate := NewTriggerGate(filepath.Join(t.TempDir(), "trigger.lock"), time.Minute, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	gate.Settle(ctx)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("cancelled settle took %s", elapsed)
	}
}
