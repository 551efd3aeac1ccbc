package core

import (
	"context"
	"errors"

	"pkt.systems/netskin/internal/logx"
	"pkt.systems/netskin/schema"
	"pkt.systems/pslog"
)

// Outcome is the terminal state of one decision cycle for one target.
type Outcome string

const (
	// OutcomeChanged means a new decision was applied and stored.
	OutcomeChanged Outcome = "changed"
	// OutcomeUnchanged means the stored decision already matches.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeSkipped means no target context exists (headless host).
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means the apply collaborator reported a failure. The
	// stored decision is left untouched so the next decisive event
	// retries from scratch.
	OutcomeFailed Outcome = "failed"
)

// Target is one branding destination: a user session or the login greeter.
// The orchestrator runs the same state machine for every target; only
// context resolution, the apply call and the post-apply hook differ.
type Target interface {
	// Name labels the target in logs.
	Name() string
	// ResolveContext picks the context id to brand. Returns
	// schema.ErrNoTargetContext when no context exists.
	ResolveContext(ctx context.Context) (schema.ContextID, error)
	// Apply writes the artifact to the context. routeDevice is informational
	// (the greeter includes it in its label).
	Apply(ctx context.Context, id schema.ContextID, connection string, artifact schema.ArtifactRef, routeDevice string) error
	// PostApply runs after a successful apply (greeter restart gating).
	PostApply(ctx context.Context, id schema.ContextID) error
}

// Result reports the terminal state of one target within a cycle.
type Result struct {
	Target     string
	Context    schema.ContextID
	Connection string
	Artifact   schema.ArtifactRef
	Outcome    Outcome
	Err        error
}

// Orchestrator wires the trigger gate, the connection selector, the decision
// store and the branding targets into one serialized decision cycle per
// decisive event.
type Orchestrator struct {
	gate    *TriggerGate
	mapping schema.Mapping
	targets []Target
	network NetworkProber
	store   DecisionStore
	log     pslog.Logger
}

// NewOrchestrator constructs an orchestrator for the given targets.
func NewOrchestrator(gate *TriggerGate, mapping schema.Mapping, deps OrchestratorDeps, targets ...Target) *Orchestrator {
	logger := deps.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Orchestrator{
		gate:    gate,
		mapping: mapping,
		targets: targets,
		network: deps.Network,
		store:   deps.Store,
		log:     logger,
	}
}

// Run executes one decision cycle for the event. Non-decisive events return
// (nil, nil) without any processing. A busy trigger lock returns
// schema.ErrLockBusy and drops the event. Everything else resolves locally:
// per-target failures land in the Result, never in the error return, because
// the trigger source is fire-and-forget.
func (o *Orchestrator) Run(ctx context.Context, event schema.TriggerEvent) ([]Result, error) {
	if !o.gate.Admit(event.Status) {
		return nil, nil
	}
	release, err := o.gate.Acquire()
	if err != nil {
		if errors.Is(err, schema.ErrLockBusy) {
			o.log.Debug("cycle dropped", "iface", event.Interface, "status", event.Status, "reason", "lock busy")
			return nil, err
		}
		o.log.Warn("trigger lock unavailable", "err", err)
		return nil, err
	}
	defer release()

	log := logx.WithCycle(o.log, newCycleID()).With("iface", event.Interface, "status", event.Status)
	log.Debug("cycle admitted")
	o.gate.Settle(ctx)

	conns, err := o.network.ActiveConnections(ctx)
	if err != nil {
		// Fail soft: an unreadable snapshot behaves like no active
		// connections and resolves the fallback artifact.
		log.Warn("connection snapshot failed", "err", err)
		conns = nil
	}
	routeDevice, err := o.network.DefaultRouteDevice(ctx)
	if err != nil {
		log.Warn("default route query failed", "err", err)
		routeDevice = ""
	}
	connection, haveConnection := SelectAuthoritative(conns, routeDevice)
	if haveConnection {
		log = logx.WithConnection(log, connection)
		log.Info("authoritative connection selected", "route_device", routeDevice)
	} else {
		log.Info("no active connection, using fallback artifact")
	}

	results := make([]Result, 0, len(o.targets))
	for _, target := range o.targets {
		results = append(results, o.runTarget(ctx, log, target, connection, routeDevice))
	}
	return results, nil
}

func (o *Orchestrator) runTarget(ctx context.Context, log pslog.Logger, target Target, connection, routeDevice string) Result {
	result := Result{Target: target.Name(), Connection: connection}
	log = log.With("target", target.Name())

	id, err := target.ResolveContext(ctx)
	if err != nil {
		if errors.Is(err, schema.ErrNoTargetContext) {
			log.Info("cycle skipped", "reason", "no target context")
			result.Outcome = OutcomeSkipped
			return result
		}
		log.Error("context resolution failed", "err", err)
		result.Outcome = OutcomeFailed
		result.Err = err
		return result
	}
	log = logx.WithContext(log, id)

	artifact := o.mapping.Resolve(connection)
	candidate := schema.Decision{Context: id, Connection: connection, Artifact: artifact}
	result.Context = id
	result.Artifact = artifact

	previous, ok, err := o.store.Get(id)
	if err != nil {
		// A broken record is treated as absent: re-applying is idempotent
		// from the collaborator's point of view.
		log.Warn("decision load failed", "err", err)
		ok = false
	}
	if ok && previous.Equal(candidate) {
		log.Info("cycle unchanged", "artifact", artifact)
		result.Outcome = OutcomeUnchanged
		return result
	}

	if err := target.Apply(ctx, id, connection, artifact, routeDevice); err != nil {
		log.Error("apply failed", "artifact", artifact, "err", err)
		result.Outcome = OutcomeFailed
		result.Err = err
		return result
	}
	if err := o.store.Put(candidate); err != nil {
		// The settings are applied; a store miss only costs one redundant
		// apply on the next decisive event.
		log.Warn("decision save failed", "err", err)
	}
	if err := target.PostApply(ctx, id); err != nil {
		log.Warn("post-apply hook failed", "err", err)
	}
	log.Info("cycle changed", "artifact", artifact)
	result.Outcome = OutcomeChanged
	return result
}
