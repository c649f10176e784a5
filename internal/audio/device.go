package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alkime/passthru/pkg/channels"
	"github.com/gen2brain/malgo"
)

var errNotRunning = errors.New("audio session not running. have you called Run()?")

// scratchFrames caps how many frames are converted per processor call.
// Larger callbacks are processed in chunks.
const scratchFrames = 4096

// Manager owns the audio session: the malgo context, the open device, the
// processor it feeds and the listeners interested in device changes.
// One Manager lives for the whole application run and is handed to every
// subsystem that needs it.
type Manager struct {
	conf  DeviceConfig
	proc  BlockProcessor
	meter LoadMeter

	changes *channels.Broadcaster[Snapshot]
	notifyC chan<- Snapshot

	mu      sync.Mutex
	backend backend
	dev     device
	stream  *stream
	info    *Info
	setup   Setup
}

// stream is the state the audio callback touches. A fresh one is built for
// every opened device so the callback never observes a reconfiguration.
type stream struct {
	proc       BlockProcessor
	meter      *LoadMeter
	sampleRate int
	block      Block
	in         [][]float32
	out        [][]float32

	// stopping is set before the device is stopped on purpose so the stop
	// callback can tell a requested stop from a lost device.
	stopping atomic.Bool
}

// NewManager creates a session that feeds proc.
func NewManager(conf DeviceConfig, proc BlockProcessor) *Manager {
	return &Manager{
		conf:    conf,
		proc:    proc,
		changes: channels.NewBroadcaster[Snapshot](),
	}
}

// Subscribe registers ch to receive a Snapshot on every device change.
// Must be called before Run.
func (m *Manager) Subscribe(ch chan<- Snapshot) error {
	if err := m.changes.Subscribe(ch); err != nil {
		return fmt.Errorf("failed to subscribe to device changes: %w", err)
	}

	return nil
}

// SubscribeWithTimeout registers ch to receive every Snapshot, waiting up
// to timeout for ch to accept each one. Must be called before Run.
func (m *Manager) SubscribeWithTimeout(ch chan<- Snapshot, timeout time.Duration) error {
	if err := m.changes.SubscribeWithTimeout(ch, timeout); err != nil {
		return fmt.Errorf("failed to subscribe to device changes: %w", err)
	}

	return nil
}

// Wait blocks until the change notifications queued before the Run context
// was cancelled have been delivered.
func (m *Manager) Wait() {
	m.changes.Wait()
}

// DroppedNotifications returns, per subscriber in subscription order, how
// many snapshots could not be delivered.
func (m *Manager) DroppedNotifications() []int {
	stats := m.changes.Stats()
	dropped := make([]int, len(stats))
	for i, st := range stats {
		dropped[i] = st.Dropped
	}

	return dropped
}

// Run initializes the malgo context and starts delivering change
// notifications. Delivery stops when ctx is cancelled.
func (m *Manager) Run(ctx context.Context) error {
	if err := m.initBackend(); err != nil {
		return err
	}

	notifyC, err := m.changes.Run(ctx)
	if err != nil {
		slog.Debug("device change broadcaster not started", "error", err)
		return nil
	}

	m.notifyC = notifyC

	return nil
}

func (m *Manager) initBackend() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return nil
	}

	backends, err := ParseBackend(m.conf.Backend)
	if err != nil {
		return err
	}

	mb, err := newMalgoBackend(backends)
	if err != nil {
		return err
	}
	m.backend = mb

	return nil
}

// EnumerateDevices lists playback and capture endpoints.
func (m *Manager) EnumerateDevices(_ context.Context) (playback, capture []Descriptor, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.enumerateLocked()
}

func (m *Manager) enumerateLocked() (playback, capture []Descriptor, err error) {
	if m.backend == nil {
		return nil, nil, errNotRunning
	}

	playback, err = m.backend.Devices(malgo.Playback)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get playback devices: %w", err)
	}

	capture, err = m.backend.Devices(malgo.Capture)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get capture devices: %w", err)
	}

	return playback, capture, nil
}

// Open opens and starts a device for setup, closing any device already
// open. If capture cannot be opened the device falls back to playback only
// with no active inputs.
func (m *Manager) Open(ctx context.Context, setup Setup) error {
	m.mu.Lock()
	m.closeLocked()
	err := m.openLocked(setup)
	m.mu.Unlock()

	m.notify()

	return err
}

// Apply replaces the open device with one configured by setup.
func (m *Manager) Apply(ctx context.Context, setup Setup) error {
	m.mu.Lock()
	m.closeLocked()
	err := m.openLocked(setup)
	m.mu.Unlock()

	m.notify()

	return err
}

// Close stops and releases the open device. Closing with no device open is
// a no-op apart from the change notification.
func (m *Manager) Close(ctx context.Context) {
	m.mu.Lock()
	m.closeLocked()
	m.mu.Unlock()

	m.notify()
}

// Dealloc closes the device and frees the malgo context.
func (m *Manager) Dealloc(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeLocked()
	if m.backend != nil {
		m.backend.Close()
		m.backend = nil
	}
}

// Start resumes the open device.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dev == nil {
		return ErrNoDevice
	}

	if m.dev.IsStarted() {
		// noop
		return nil
	}

	m.stream.stopping.Store(false)
	if err := m.dev.Start(); err != nil {
		return fmt.Errorf("failed to start malgo device: %w", err)
	}

	return nil
}

// Stop pauses the open device without releasing it.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dev == nil {
		// noop
		return nil
	}

	m.stream.stopping.Store(true)
	if err := m.dev.Stop(); err != nil {
		return fmt.Errorf("failed to stop malgo device: %w", err)
	}

	return nil
}

// Toggle starts or stops the device depending on its current state.
func (m *Manager) Toggle(ctx context.Context) error {
	if m.IsStarted() {
		return m.Stop(ctx)
	}

	return m.Start(ctx)
}

// IsStarted reports whether the device is running.
func (m *Manager) IsStarted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dev == nil {
		return false
	}

	return m.dev.IsStarted()
}

// CPUUsage returns the fraction of each buffer period spent in the audio
// callback.
func (m *Manager) CPUUsage() float64 {
	return m.meter.Load()
}

// Snapshot describes the current device.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.snapshotLocked()
}

// Setup returns the setup the current device was opened with, adjusted for
// any capture fallback.
func (m *Manager) Setup() Setup {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.setup
}

func (m *Manager) snapshotLocked() Snapshot {
	snap := Snapshot{TypeName: m.conf.TypeName()}
	if m.info != nil {
		info := *m.info
		snap.Device = &info
	}

	return snap
}

func (m *Manager) notify() {
	if m.notifyC == nil {
		return
	}

	if err := channels.SendNonBlock(m.notifyC, m.Snapshot()); err != nil {
		slog.Debug("device change notification dropped", "error", err)
	}
}

func (m *Manager) openLocked(setup Setup) error {
	if m.backend == nil {
		return errNotRunning
	}

	if setup.OutputChannels == 0 {
		return fmt.Errorf("at least one output channel must be active")
	}

	playback, capture, err := m.enumerateLocked()
	if err != nil {
		return err
	}

	outDesc, outFound, err := findDescriptor(playback, setup.OutputDevice)
	if err != nil {
		return err
	}

	inDesc, inFound, err := findDescriptor(capture, setup.InputDevice)
	if err != nil && setup.InputChannels != 0 {
		return err
	}

	st := m.newStream(setup)

	var (
		dev     device
		devType = malgo.Playback
	)

	if setup.InputChannels != 0 {
		dev, err = m.initDevice(malgo.Duplex, setup, st, &outDesc, outFound, &inDesc, inFound)
		if err != nil {
			slog.Warn("unable to open audio input, continuing with outputs only",
				"error", err, "inputDevice", setup.InputDevice)
			setup.InputChannels = 0
			st = m.newStream(setup)
		} else {
			devType = malgo.Duplex
		}
	}

	if dev == nil {
		dev, err = m.initDevice(malgo.Playback, setup, st, &outDesc, outFound, nil, false)
		if err != nil {
			return fmt.Errorf("failed to initialize malgo device: %w", err)
		}
	}

	st.sampleRate = int(dev.SampleRate())
	m.meter.Reset()

	if err := dev.Start(); err != nil {
		st.stopping.Store(true)
		dev.Uninit()
		return fmt.Errorf("failed to start malgo device: %w", err)
	}

	m.dev = dev
	m.stream = st
	m.setup = setup
	m.info = m.buildInfo(dev, devType, setup, outDesc, inDesc)

	slog.Info("audio device opened",
		"name", m.info.Name,
		"sampleRate", m.info.SampleRate,
		"bufferSize", m.info.BufferSize,
		"inputs", setup.InputChannels.String(),
		"outputs", setup.OutputChannels.String())

	return nil
}

func (m *Manager) initDevice(
	devType malgo.DeviceType,
	setup Setup,
	st *stream,
	outDesc *Descriptor, outFound bool,
	inDesc *Descriptor, inFound bool,
) (device, error) {
	devCnf := malgo.DefaultDeviceConfig(devType)
	devCnf.SampleRate = uint32(setup.SampleRate)
	devCnf.PeriodSizeInFrames = uint32(setup.BufferSize)

	devCnf.Playback.Format = malgo.FormatF32
	devCnf.Playback.Channels = uint32(setup.playbackChannelCount())
	if outFound {
		devCnf.Playback.DeviceID = outDesc.id.Pointer()
	}

	if devType == malgo.Duplex {
		devCnf.Capture.Format = malgo.FormatF32
		devCnf.Capture.Channels = uint32(setup.captureChannelCount())
		if inFound {
			devCnf.Capture.DeviceID = inDesc.id.Pointer()
		}
	}

	callBacks := malgo.DeviceCallbacks{
		Data: st.process,
		Stop: func() {
			if !st.stopping.Load() {
				m.onDeviceLost(st)
			}
		},
	}

	dev, err := m.backend.InitDevice(devCnf, callBacks)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo device: %w", err)
	}

	return dev, nil
}

// onDeviceLost runs on a miniaudio thread when the device stops without
// being asked to, e.g. when it is unplugged. The device cannot be
// uninitialized from its own thread, so the teardown runs elsewhere.
func (m *Manager) onDeviceLost(st *stream) {
	slog.Warn("audio device stopped unexpectedly")
	go m.dropLostDevice(st)
}

// dropLostDevice releases the device that owned st, unless it has already
// been replaced, and reports that no device is open.
func (m *Manager) dropLostDevice(st *stream) {
	m.mu.Lock()
	if m.stream != st {
		m.mu.Unlock()
		return
	}
	m.closeLocked()
	m.mu.Unlock()

	m.notify()
}

func (m *Manager) closeLocked() {
	if m.dev == nil {
		return
	}

	m.stream.stopping.Store(true)
	m.dev.Uninit()
	m.dev = nil
	m.stream = nil
	m.info = nil
	m.meter.Reset()
}

func (m *Manager) newStream(setup Setup) *stream {
	st := &stream{
		proc:  m.proc,
		meter: &m.meter,
		in:    allocPlanes(setup.captureChannelCount(), scratchFrames),
		out:   allocPlanes(setup.playbackChannelCount(), scratchFrames),
	}

	st.block = Block{
		Input:         make([][]float32, len(st.in)),
		Output:        make([][]float32, len(st.out)),
		ActiveInputs:  setup.InputChannels,
		ActiveOutputs: setup.OutputChannels,
	}

	return st
}

func (m *Manager) buildInfo(
	dev device,
	devType malgo.DeviceType,
	setup Setup,
	outDesc, inDesc Descriptor,
) *Info {
	name := outDesc.Name
	if name == "" {
		name = "Default Output"
	}

	var inputNames []string
	if devType == malgo.Duplex {
		inputNames = ChannelNames("Input", max(inDesc.MaxChannels, int(dev.CaptureChannels())))
	}

	return &Info{
		TypeName:           m.conf.TypeName(),
		Name:               name,
		SampleRate:         float64(dev.SampleRate()),
		BufferSize:         setup.BufferSize,
		BitDepth:           BitDepth(malgo.FormatF32),
		InputChannelNames:  inputNames,
		OutputChannelNames: ChannelNames("Output", max(outDesc.MaxChannels, int(dev.PlaybackChannels()))),
		ActiveInputs:       setup.InputChannels,
		ActiveOutputs:      setup.OutputChannels,
	}
}

// process is the malgo data callback. It runs on the audio thread.
func (st *stream) process(output, input []byte, frameCount uint32) {
	begin := time.Now()
	total := int(frameCount)
	inChannels := len(st.in)
	outChannels := len(st.out)

	for done := 0; done < total; done += scratchFrames {
		n := min(scratchFrames, total-done)

		if inChannels > 0 {
			Deinterleave(tail(input, done*inChannels*bytesPerSample), st.in, n)
		}

		for c := range st.in {
			st.block.Input[c] = st.in[c][:n]
		}
		for c := range st.out {
			st.block.Output[c] = st.out[c][:n]
		}

		st.block.StartSample = 0
		st.block.NumSamples = n
		st.proc.ProcessBlock(&st.block)

		Interleave(st.out, tail(output, done*outChannels*bytesPerSample), n)
	}

	st.meter.Record(time.Since(begin), total, st.sampleRate)
}

func tail(b []byte, off int) []byte {
	if off >= len(b) {
		return nil
	}

	return b[off:]
}

func allocPlanes(channels, frames int) [][]float32 {
	planes := make([][]float32, channels)
	for i := range planes {
		planes[i] = make([]float32, frames)
	}

	return planes
}
