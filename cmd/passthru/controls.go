package main

import (
	"context"
	"log/slog"

	"github.com/alkime/passthru/internal/audio"
	"github.com/alkime/passthru/internal/tui"
	"github.com/alkime/passthru/pkg/uictl"
)

func makeControls(
	ctx context.Context,
	mgr *audio.Manager,
	changes <-chan audio.Snapshot,
) tui.Controls {
	return tui.Controls{
		Audio: audioDevKnob{
			ctx: ctx,
			mgr: mgr,
		},
		CPU:     uictl.DialFunc[float64](mgr.CPUUsage),
		Changes: changes,
		Apply: func(setup audio.Setup) error {
			return mgr.Apply(ctx, setup)
		},
	}
}

type audioDevKnob struct {
	ctx context.Context
	mgr *audio.Manager
}

func (adk audioDevKnob) Read() bool {
	return adk.mgr.IsStarted()
}

func (adk audioDevKnob) On() {
	err := adk.mgr.Start(adk.ctx)
	if err != nil {
		slog.Error("audioDevKnob On error", "error", err)
	}
}

func (adk audioDevKnob) Off() {
	err := adk.mgr.Stop(adk.ctx)
	if err != nil {
		slog.Error("audioDevKnob Off error", "error", err)
	}
}

func (adk audioDevKnob) Toggle() {
	err := adk.mgr.Toggle(adk.ctx)
	if err != nil {
		slog.Error("audioDevKnob Toggle error", "error", err)
	}
}
