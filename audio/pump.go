// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"log/slog"
)

// BitsPerSample is the only PCM depth the pump produces.
const BitsPerSample = 16

// DefaultWindowSize holds one SBR frame (2048 samples per channel) of up to
// eight channels.
const DefaultWindowSize = 2048 * 8

// State of a Pump.
type State int

const (
	StateStopped State = iota
	StateIdle
	StateDraining
	StateDecoding
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateIdle:
		return "idle"
	case StateDraining:
		return "draining"
	case StateDecoding:
		return "decoding"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Stats are cumulative counters since the last Start.
type Stats struct {
	Frames       int64 // successful decodes
	DecodeErrors int64
	Delivered    int64 // samples accepted by the sink
	Declined     int64 // offers the sink refused
	BytesRead    int64
}

// Option configures a Pump.
type Option func(*Pump)

// WithLogger sets the logger for decode and source events.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pump) {
		if l != nil {
			p.log = l
		}
	}
}

// WithBufferSize sets the compressed byte buffer capacity.
func WithBufferSize(n int) Option {
	return func(p *Pump) { p.bufferSize = n }
}

// WithWindowSize sets the decoded sample window capacity in int16 values.
func WithWindowSize(n int) Option {
	return func(p *Pump) { p.windowSize = n }
}

// WithSyncFunc replaces FindSyncWord as the frame boundary matcher.
func WithSyncFunc(f SyncFunc) Option {
	return func(p *Pump) { p.find = f }
}

// Pump moves compressed frames from a ByteSource through an Engine and
// hands decoded samples to a Sink, one unit of work per Advance call.
//
// A Pump is driven from a single goroutine.
type Pump struct {
	engine Engine
	framer *FrameSynchronizer
	src    ByteSource
	sink   Sink
	log    *slog.Logger

	bufferSize int
	windowSize int
	find       SyncFunc

	window   []int16
	pending  int
	next     int
	channels int // layout of window

	lastRate     int
	lastChannels int

	state State
	stats Stats
}

// NewPump takes ownership of engine.
func NewPump(engine Engine, opts ...Option) (*Pump, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}

	p := &Pump{
		engine:     engine,
		log:        slog.Default(),
		bufferSize: DefaultBufferSize,
		windowSize: DefaultWindowSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.windowSize < 2 {
		p.windowSize = DefaultWindowSize
	}

	p.framer = NewFrameSynchronizer(p.bufferSize, p.find, p.log)
	p.window = make([]int16, p.windowSize)

	return p, nil
}

// Start attaches src and sink and makes the pump runnable. A pump that is
// already running returns ErrAlreadyRunning; Stop it first to switch
// sources. On error nothing is changed.
func (p *Pump) Start(src ByteSource, sink Sink) error {
	if src == nil {
		return ErrNilSource
	}
	if sink == nil {
		return ErrNilSink
	}
	if p.state != StateStopped {
		return ErrAlreadyRunning
	}
	if !src.IsOpen() {
		return ErrSourceNotOpen
	}

	if err := sink.Begin(); err != nil {
		return fmt.Errorf("sink begin: %w", err)
	}
	if err := sink.SetBitsPerSample(BitsPerSample); err != nil {
		return fmt.Errorf("sink bits per sample: %w", err)
	}

	p.src = src
	p.sink = sink
	p.framer.Attach(src)
	clear(p.window)
	p.pending = 0
	p.next = 0
	p.channels = 0
	p.lastRate = 0
	p.lastChannels = 0
	p.stats = Stats{}
	p.state = StateIdle

	return nil
}

// Advance performs one unit of work: it offers one pending sample to the
// sink, or, when nothing is pending, decodes the next frame and offers its
// first sample. It returns false when the pump is stopped or the source is
// exhausted.
func (p *Pump) Advance() bool {
	if p.state == StateStopped {
		return false
	}

	if p.pending == 0 {
		if !p.decode() {
			return false
		}
		if p.pending == 0 {
			return true
		}
	}

	if !p.sink.ConsumeSample(p.sampleAt(p.next)) {
		p.stats.Declined++
		return true
	}
	p.pending--
	p.next++
	p.stats.Delivered++
	if p.pending == 0 {
		p.state = StateIdle
	}

	return true
}

// decode makes one decode attempt. It returns false once the source is
// exhausted.
func (p *Pump) decode() bool {
	p.state = StateDecoding
	if !p.framer.EnsureFrameAtStart() {
		p.stats.BytesRead = p.framer.BytesRead()
		p.state = StateStopped
		p.log.Debug("source exhausted", "frames", p.stats.Frames, "bytes", p.stats.BytesRead)
		return false
	}
	p.stats.BytesRead = p.framer.BytesRead()

	in := p.framer.Bytes()
	frame, err := p.engine.Decode(in, p.window)
	consumed := len(in) - min(max(frame.Remaining, 0), len(in))

	// Never resume at offset zero, or the same sync word is found again.
	p.framer.Consume(max(consumed, 1))

	p.next = 0
	p.pending = 0

	if err != nil {
		p.stats.DecodeErrors++
		p.state = StateIdle
		p.log.Warn("frame decode failed", "err", err, "frame", p.stats.Frames+p.stats.DecodeErrors, "bytes", len(in))
		return true
	}

	p.stats.Frames++
	p.announce(frame)

	if frame.Channels > 0 {
		samples := min(max(frame.Samples, 0), len(p.window))
		p.channels = frame.Channels
		p.pending = samples / frame.Channels
	}

	if p.pending > 0 {
		p.state = StateDraining
	} else {
		p.state = StateIdle
	}

	return true
}

func (p *Pump) announce(f Frame) {
	if f.SampleRate != p.lastRate {
		if err := p.sink.SetRate(f.SampleRate); err != nil {
			p.log.Warn("sink rejected sample rate", "rate", f.SampleRate, "err", err)
		}
		p.log.Debug("sample rate changed", "from", p.lastRate, "to", f.SampleRate)
		p.lastRate = f.SampleRate
	}

	if f.Channels > 0 && f.Channels != p.lastChannels {
		if err := p.sink.SetChannels(f.Channels); err != nil {
			p.log.Warn("sink rejected channel count", "channels", f.Channels, "err", err)
		}
		p.log.Debug("channel count changed", "from", p.lastChannels, "to", f.Channels)
		p.lastChannels = f.Channels
	}
}

// sampleAt reads pair i of the window. Mono is duplicated to both sides;
// wider layouts contribute their first two channels.
func (p *Pump) sampleAt(i int) Sample {
	base := i * p.channels
	if p.channels == 1 {
		return Sample{p.window[base], p.window[base]}
	}
	return Sample{p.window[base], p.window[base+1]}
}

// Stop halts delivery immediately and closes the source. Pending samples
// are dropped. Stopping an idle or finished pump is a no-op.
func (p *Pump) Stop() error {
	if p.state == StateStopped {
		return nil
	}

	p.state = StateStopped
	p.pending = 0
	p.next = 0

	if err := p.src.Close(); err != nil {
		return fmt.Errorf("close source: %w", err)
	}
	return nil
}

func (p *Pump) IsRunning() bool { return p.state != StateStopped }

func (p *Pump) State() State { return p.state }

func (p *Pump) Stats() Stats { return p.stats }

// Pending is the number of decoded samples not yet delivered.
func (p *Pump) Pending() int { return p.pending }

// Sink returns the sink attached by the last Start.
func (p *Pump) Sink() Sink { return p.sink }

// Close releases the engine. The pump is unusable afterwards.
func (p *Pump) Close() error {
	if p.state != StateStopped {
		p.state = StateStopped
		p.pending = 0
	}

	if err := p.engine.Close(); err != nil {
		return fmt.Errorf("close engine: %w", err)
	}
	return nil
}
