package schema

import "errors"

var (
	// ErrLockBusy indicates another decision cycle holds the trigger lock.
	// The event is dropped, not queued; the next decisive event converges.
	ErrLockBusy = errors.New("trigger lock busy")
	// ErrNoTargetContext indicates no local graphical user context exists.
	// Expected on headless hosts; the cycle ends skipped, not failed.
	ErrNoTargetContext = errors.New("no target context")
	// ErrMissingFallback indicates a mapping without a fallback artifact.
	ErrMissingFallback = errors.New("mapping fallback artifact is required")
	// ErrInvalidDecision indicates a decision record without a context id.
	ErrInvalidDecision = errors.New("decision context id is required")
)
