// SPDX-License-Identifier: EPL-2.0

package output

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/ik5/aacpump/audio"
)

// DefaultRingSize holds about half a second of 44.1 kHz stereo.
const DefaultRingSize = 88200

// player is the part of *oto.Player the sink drives.
type player interface {
	Play()
	BufferedSize() int
	Close() error
}

type openFunc func(rate, channels int, r io.Reader) (player, error)

type Option func(*Oto)

func WithLogger(l *slog.Logger) Option {
	return func(o *Oto) {
		if l != nil {
			o.log = l
		}
	}
}

// WithRingSize sets the capacity in bytes of the queue between the pump and
// the device. ConsumeSample declines once it is full.
func WithRingSize(n int) Option {
	return func(o *Oto) {
		if n >= 4 {
			o.ringSize = n
		}
	}
}

// WithDeviceBuffer sets the device buffer length. Zero keeps the driver
// default.
func WithDeviceBuffer(d time.Duration) Option {
	return func(o *Oto) { o.device = d }
}

// Oto plays delivered samples on the default audio device.
//
// Samples go into a ring that an oto player drains from its own goroutine.
// A full ring declines samples, which is what paces a pump to real time.
// oto allows one context per process, so a rate or channel change after
// playback started is logged and ignored.
type Oto struct {
	log      *slog.Logger
	ringSize int
	device   time.Duration
	open     openFunc

	mu       sync.Mutex
	ring     *ring
	player   player
	rate     int
	channels int
	playing  struct{ rate, channels int }
	err      error
	closed   bool
	scratch  [4]byte
}

var (
	_ audio.Sink    = (*Oto)(nil)
	_ audio.Flusher = (*Oto)(nil)
)

func NewOto(opts ...Option) *Oto {
	o := &Oto{
		log:      slog.Default(),
		ringSize: DefaultRingSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.open == nil {
		o.open = o.openDevice
	}
	return o
}

func (o *Oto) openDevice(rate, channels int, r io.Reader) (player, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   o.device,
	})
	if err != nil {
		return nil, fmt.Errorf("create oto context: %w", err)
	}
	<-ready

	return ctx.NewPlayer(r), nil
}

func (o *Oto) Begin() error { return nil }

func (o *Oto) SetBitsPerSample(bits int) error {
	if bits != 16 {
		return fmt.Errorf("%w: got %d bits", ErrOnly16Bit, bits)
	}
	return nil
}

func (o *Oto) SetRate(hz int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.rate = hz
	o.warnFormat()
	return nil
}

func (o *Oto) SetChannels(n int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.channels = min(max(n, 1), 2)
	o.warnFormat()
	return nil
}

func (o *Oto) warnFormat() {
	if o.player == nil {
		return
	}
	if o.rate != o.playing.rate || o.channels != o.playing.channels {
		o.log.Warn("format change ignored during playback",
			"rate", o.playing.rate, "channels", o.playing.channels,
			"new_rate", o.rate, "new_channels", o.channels,
		)
	}
}

// ConsumeSample queues one sample. It declines while the ring is full. If
// the device cannot be opened the error is kept and samples are dropped.
func (o *Oto) ConsumeSample(v audio.Sample) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.err != nil || o.closed {
		return true
	}
	if o.player == nil {
		if o.err = o.start(); o.err != nil {
			o.log.Error("audio output unavailable", "err", o.err)
			return true
		}
	}

	b := o.scratch[:2*o.playing.channels]
	binary.LittleEndian.PutUint16(b[0:], uint16(v[0]))
	if o.playing.channels == 2 {
		binary.LittleEndian.PutUint16(b[2:], uint16(v[1]))
	}
	return o.ring.tryWrite(b)
}

func (o *Oto) start() error {
	if o.rate <= 0 {
		return ErrRateUnknown
	}
	channels := o.channels
	if channels == 0 {
		channels = 2
	}

	r := newRing(o.ringSize)
	p, err := o.open(o.rate, channels, r)
	if err != nil {
		return err
	}
	p.Play()

	o.ring = r
	o.player = p
	o.playing.rate = o.rate
	o.playing.channels = channels
	o.log.Debug("audio output started", "rate", o.rate, "channels", channels)
	return nil
}

// Flush returns audio.ErrSinkBusy until every queued byte has been played.
func (o *Oto) Flush() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.err != nil {
		return o.err
	}
	if o.player == nil {
		return nil
	}
	if o.ring.buffered() > 0 || o.player.BufferedSize() > 0 {
		return audio.ErrSinkBusy
	}
	return nil
}

// Close stops playback. Queued audio that has not been played is lost; call
// Flush until it succeeds first to hear the end of a stream.
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil
	}
	o.closed = true

	if o.player == nil {
		return nil
	}
	o.ring.close()
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("close player: %w", err)
	}
	return nil
}

// Err reports why the device could not be opened.
func (o *Oto) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}
