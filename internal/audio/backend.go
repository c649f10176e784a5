package audio

import (
	"fmt"
	"log/slog"

	"github.com/gen2brain/malgo"
)

// device is the part of *malgo.Device the Manager drives.
type device interface {
	Start() error
	Stop() error
	Uninit()
	IsStarted() bool
	SampleRate() uint32
	CaptureChannels() uint32
	PlaybackChannels() uint32
}

// backend enumerates endpoints and opens devices on them.
type backend interface {
	Devices(devType malgo.DeviceType) ([]Descriptor, error)
	InitDevice(cnf malgo.DeviceConfig, callbacks malgo.DeviceCallbacks) (device, error)
	Close()
}

// malgoBackend is a backend on an initialized miniaudio context.
type malgoBackend struct {
	ctx *malgo.AllocatedContext
}

func newMalgoBackend(backends []malgo.Backend) (*malgoBackend, error) {
	mgCtx, err := malgo.InitContext(backends, malgo.ContextConfig{}, func(msg string) {
		slog.Debug("malgo audio device log", "msg", msg)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	return &malgoBackend{ctx: mgCtx}, nil
}

func (b *malgoBackend) Devices(devType malgo.DeviceType) ([]Descriptor, error) {
	infos, err := b.ctx.Devices(devType)
	if err != nil {
		return nil, err
	}

	return malgoDeviceInfosToDescriptors(infos), nil
}

func (b *malgoBackend) InitDevice(cnf malgo.DeviceConfig, callbacks malgo.DeviceCallbacks) (device, error) {
	dev, err := malgo.InitDevice(b.ctx.Context, cnf, callbacks)
	if err != nil {
		return nil, err
	}

	return dev, nil
}

func (b *malgoBackend) Close() {
	if err := b.ctx.Uninit(); err != nil {
		slog.Error("failed to uninitialize malgo context", "error", err)
	}
	b.ctx.Free()
}
