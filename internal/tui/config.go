package tui

import (
	"context"
	"time"

	"github.com/alkime/passthru/internal/audio"
	"github.com/alkime/passthru/internal/tui/components/selector"
	"github.com/alkime/passthru/pkg/uictl"
)

// Config holds the TUI configuration.
type Config struct {
	// Cancel stops the surrounding context when the user quits.
	Cancel context.CancelFunc

	// Setup is the configuration the device was opened with.
	Setup audio.Setup
	// Options lists the choices offered by the setup panel.
	Options selector.Options

	// PollInterval is the CPU meter refresh period.
	PollInterval time.Duration
}

// Controls are the audio surfaces the TUI drives.
type Controls struct {
	// Audio starts and stops the device.
	Audio uictl.Knob
	// CPU reads the smoothed callback load in [0, 1].
	CPU uictl.Dial[float64]
	// Changes delivers a snapshot each time the device changes.
	Changes <-chan audio.Snapshot
	// Apply reopens the device with a new setup.
	Apply func(audio.Setup) error
}
