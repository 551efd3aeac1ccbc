package main

import (
	"pkt.systems/netskin/core"
	"pkt.systems/netskin/internal/appconfig"
	"pkt.systems/netskin/internal/decisionstore"
	"pkt.systems/netskin/internal/greeterd"
	"pkt.systems/netskin/internal/gsettings"
	"pkt.systems/netskin/internal/logind"
	"pkt.systems/netskin/internal/nmcli"
	"pkt.systems/netskin/schema"
	"pkt.systems/pslog"
)

// engine bundles the wired decision engine for the dispatch and serve
// commands.
type engine struct {
	cfg          appconfig.Config
	orchestrator *core.Orchestrator
	network      *nmcli.Prober
	store        *decisionstore.Store
}

func buildEngine(cfg appconfig.Config, logger pslog.Logger) (*engine, error) {
	svc := cfg.ServiceConfig()
	mapping, err := cfg.BuildMapping()
	if err != nil {
		return nil, err
	}
	store, err := decisionstore.NewStoreWithLogger(svc.StateDir, logger)
	if err != nil {
		return nil, err
	}
	network := nmcli.NewProber(logger)
	sessions := logind.NewProber(svc.ShellProcesses, logger)
	gate := core.NewTriggerGate(svc.LockPath, svc.SettleDelay, logger)

	var targets []core.Target
	if cfg.Targets.UserSession {
		writer := gsettings.NewWriter(logger)
		targets = append(targets, core.NewUserSessionTarget(sessions, writer, svc.PrimarySeat, logger))
	}
	if cfg.Targets.Greeter {
		ctrl := greeterd.NewController(cfg.Greeter.ConfPath, cfg.Greeter.Unit, sessions, logger)
		targets = append(targets, core.NewGreeterTarget(ctrl, schema.ArtifactRef(cfg.Greeter.Badge), logger))
	}

	orchestrator := core.NewOrchestrator(gate, mapping, core.OrchestratorDeps{
		Network: network,
		Store:   store,
		Logger:  logger,
	}, targets...)

	return &engine{cfg: cfg, orchestrator: orchestrator, network: network, store: store}, nil
}
