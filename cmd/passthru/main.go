package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/alkime/passthru/internal/audio"
	"github.com/alkime/passthru/internal/config"
	"github.com/alkime/passthru/internal/diag"
	"github.com/alkime/passthru/internal/logger"
	"github.com/alkime/passthru/internal/server"
	"github.com/alkime/passthru/internal/tui"
	"github.com/alkime/passthru/internal/tui/components/selector"
	"github.com/alkime/passthru/pkg/collections"
	tea "github.com/charmbracelet/bubbletea"
)

// CLI defines the passthru command structure.
type CLI struct {
	// Default TUI command (runs when no subcommand given)
	TUI TUICmd `cmd:"" default:"withargs" help:"Run the noise passthrough with the terminal UI"`

	// Subcommands
	Devices DevicesCmd `cmd:"" help:"List available audio devices"`
	Info    InfoCmd    `cmd:"" help:"Open the audio device and print its diagnostics"`
	Serve   ServeCmd   `cmd:"" help:"Run the noise passthrough headless with an HTTP status API"`
}

// DeviceFlags select the endpoints to open.
type DeviceFlags struct {
	OutputDevice string `flag:"" optional:"" help:"Playback device name (default: system default)"`
	InputDevice  string `flag:"" optional:"" help:"Capture device name (default: system default)"`
}

func (f DeviceFlags) setup(cfg *config.Config) audio.Setup {
	return audio.Setup{
		OutputDevice:   f.OutputDevice,
		InputDevice:    f.InputDevice,
		SampleRate:     cfg.SampleRate,
		BufferSize:     cfg.BufferSize,
		InputChannels:  audio.FirstN(cfg.InputChannels),
		OutputChannels: audio.FirstN(cfg.OutputChannels),
	}
}

// TUICmd is the default command that runs the TUI.
type TUICmd struct {
	DeviceFlags
}

// Run executes the TUI command.
//
//nolint:funlen // CLI command with multiple setup steps
func (c *TUICmd) Run(cfg *config.Config) error {
	_, logFile, err := logger.SetupFileLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mgr := audio.NewManager(
		audio.DeviceConfig{Backend: cfg.AudioBackend},
		audio.NewPassthrough(audio.NewRandomSource(cfg.NoiseSeed)),
	)

	changes := make(chan audio.Snapshot, 8)
	if err := mgr.Subscribe(changes); err != nil {
		return err
	}

	if err := mgr.Run(ctx); err != nil {
		return fmt.Errorf("failed to start audio session: %w", err)
	}

	// always dealloc when we're done
	defer func() {
		mgr.Dealloc(ctx)
		slog.Debug("Audio session deallocated")
	}()

	playback, capture, err := mgr.EnumerateDevices(ctx)
	if err != nil {
		slog.Warn("failed to enumerate audio devices", "error", err)
	}

	// A failed open still leaves the TUI usable for picking another setup;
	// the change notification dumps "No audio device open" to the log.
	log := &diag.Log{}
	if err := mgr.Open(ctx, c.setup(cfg)); err != nil {
		slog.Error("failed to open audio device", "error", err)
		log.Append("Error: " + err.Error())
	}

	tuiConfig := tui.Config{
		Cancel: cancel,
		Setup:  mgr.Setup(),
		Options: selector.Options{
			Outputs:    deviceNames(playback),
			Inputs:     deviceNames(capture),
			MaxInputs:  config.MaxChannels,
			MaxOutputs: config.MaxChannels,
		},
		PollInterval: cfg.CPUPollInterval,
	}

	p := tea.NewProgram(
		tui.New(tuiConfig, makeControls(ctx, mgr, changes), log),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}

	return nil
}

// DevicesCmd lists available audio devices.
type DevicesCmd struct {
	Playback bool `flag:"" help:"Only list playback devices"`
	Capture  bool `flag:"" help:"Only list capture devices"`
	Defaults bool `flag:"" help:"Only list default devices"`
}

// Run executes the devices command.
func (dcmd *DevicesCmd) Run(cfg *config.Config) error {
	logger.SetupLogger(cfg, os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mgr := audio.NewManager(audio.DeviceConfig{Backend: cfg.AudioBackend}, nil)
	if err := mgr.Run(ctx); err != nil {
		return fmt.Errorf("failed to start audio session: %w", err)
	}
	defer mgr.Dealloc(ctx)

	slog.Info("Enumerating audio devices...", "type", cfg.AudioBackend)

	playback, capture, err := mgr.EnumerateDevices(ctx)
	if err != nil {
		return fmt.Errorf("failed to enumerate audio devices: %w", err)
	}

	if dcmd.Defaults {
		isDefault := func(d audio.Descriptor) bool { return d.IsDefault }
		playback = collections.Filter(playback, isDefault)
		capture = collections.Filter(capture, isDefault)
	}

	both := !dcmd.Playback && !dcmd.Capture
	if dcmd.Playback || both {
		logDevices("Playback Device", playback)
	}
	if dcmd.Capture || both {
		logDevices("Capture Device", capture)
	}

	return nil
}

func logDevices(kind string, devices []audio.Descriptor) {
	for _, dev := range devices {
		slog.Info(kind,
			"name", dev.Name,
			"isDefault", dev.IsDefault,
			"maxChannels", dev.MaxChannels,
			"formats", strings.Join(dev.Formats, ", "),
		)
	}
}

// InfoCmd opens the device once and prints the diagnostics dump.
type InfoCmd struct {
	DeviceFlags
}

// Run executes the info command.
func (icmd *InfoCmd) Run(cfg *config.Config) error {
	logger.SetupLogger(cfg, os.Stderr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mgr := audio.NewManager(
		audio.DeviceConfig{Backend: cfg.AudioBackend},
		audio.NewPassthrough(audio.NewRandomSource(cfg.NoiseSeed)),
	)
	if err := mgr.Run(ctx); err != nil {
		return fmt.Errorf("failed to start audio session: %w", err)
	}
	defer mgr.Dealloc(ctx)

	openErr := mgr.Open(ctx, icmd.setup(cfg))

	for _, line := range diag.DeviceLines(mgr.Snapshot()) {
		fmt.Println(line)
	}

	if openErr != nil {
		return fmt.Errorf("failed to open audio device: %w", openErr)
	}

	return nil
}

// changeTimeout bounds how long serve's log writer may hold up a device
// change notification.
const changeTimeout = time.Second

// ServeCmd runs the passthrough without a terminal UI and reports on it
// over HTTP until interrupted.
type ServeCmd struct {
	DeviceFlags
}

// Run executes the serve command.
func (scmd *ServeCmd) Run(cfg *config.Config) error {
	log := logger.SetupLogger(cfg, os.Stdout)

	wg := sync.WaitGroup{}
	defer wg.Wait()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	mgr := audio.NewManager(
		audio.DeviceConfig{Backend: cfg.AudioBackend},
		audio.NewPassthrough(audio.NewRandomSource(cfg.NoiseSeed)),
	)

	changes := make(chan audio.Snapshot, 8)
	if err := mgr.SubscribeWithTimeout(changes, changeTimeout); err != nil {
		return err
	}

	if err := mgr.Run(ctx); err != nil {
		return fmt.Errorf("failed to start audio session: %w", err)
	}
	defer mgr.Dealloc(ctx)

	dump := &diag.Log{}
	wg.Go(func() {
		for {
			select {
			case <-ctx.Done():
				return
			case snap := <-changes:
				lines := diag.DeviceLines(snap)
				dump.Append(lines...)
				log.Info("Audio device changed", "lines", lines)
			}
		}
	})

	if err := mgr.Open(ctx, scmd.setup(cfg)); err != nil {
		return fmt.Errorf("failed to open audio device: %w", err)
	}

	err := server.New(cfg, log, mgr, dump).Run(ctx)

	cancel()
	mgr.Wait()
	if dropped := mgr.DroppedNotifications(); len(dropped) > 0 && dropped[0] > 0 {
		log.Warn("Device change notifications were dropped", "count", dropped[0])
	}

	return err
}

func deviceNames(devices []audio.Descriptor) []string {
	return collections.Apply(devices, func(d audio.Descriptor) string { return d.Name })
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli,
		kong.Name("passthru"),
		kong.Description("Play live input back as attenuated white noise."),
		kong.Bind(cfg),
	)

	err = ctx.Run()
	if errors.Is(err, audio.ErrUnknownBackend) {
		ctx.Fatalf("%v (set AUDIO_BACKEND to one of: %s)", err, strings.Join(audio.BackendNames(), ", "))
	}
	ctx.FatalIfErrorf(err)
	os.Exit(0)
}
