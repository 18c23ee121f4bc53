// SPDX-License-Identifier: EPL-2.0

package aac

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bluenviron/mediacommon/v2/pkg/codecs/mpeg4audio"
	faad2 "github.com/llehouerou/go-faad2"

	"github.com/ik5/aacpump/audio"
)

// streamConfig is the part of the header that selects the decoder setup.
type streamConfig struct {
	profile       int
	rateIndex     int
	channelConfig int
}

// Option configures an Engine.
type Option func(*Engine)

// WithContext sets the context used for calls into the decoder runtime.
func WithContext(ctx context.Context) Option {
	return func(e *Engine) {
		if ctx != nil {
			e.ctx = ctx
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// Engine decodes ADTS frames with FAAD2. The decoder is set up from the
// first frame's header and set up again whenever profile, sampling rate or
// channel configuration change.
type Engine struct {
	ctx context.Context
	log *slog.Logger

	dec    *faad2.Decoder
	cur    streamConfig
	closed bool
}

var _ audio.Engine = (*Engine)(nil)

func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		ctx: context.Background(),
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Decode decodes the frame at in[0]. A frame that is not complete in in
// consumes nothing and returns ErrTruncatedFrame; any other failure after
// the header was read consumes the whole frame.
func (e *Engine) Decode(in []byte, out []int16) (audio.Frame, error) {
	none := audio.Frame{Remaining: len(in)}

	if e.closed {
		return none, ErrEngineClosed
	}

	h, err := ParseHeader(in)
	if err != nil {
		return none, err
	}
	if h.FrameLength > len(in) {
		return none, fmt.Errorf("%w: have %d of %d bytes", ErrTruncatedFrame, len(in), h.FrameLength)
	}

	skip := audio.Frame{Remaining: len(in) - h.FrameLength}

	if h.Channels() == 0 {
		return skip, ErrUnsupportedChannels
	}
	if err := e.configure(h); err != nil {
		return skip, err
	}

	pcm, err := e.dec.Decode(e.ctx, h.Payload(in))
	if err != nil {
		return skip, fmt.Errorf("aac: decode: %w", err)
	}
	if len(pcm) > len(out) {
		return skip, fmt.Errorf("%w: %d samples, window holds %d", ErrWindowTooSmall, len(pcm), len(out))
	}

	rate := int(e.dec.SampleRate())
	if rate == 0 {
		rate = h.SampleRate
	}
	channels := int(e.dec.Channels())
	if channels == 0 {
		channels = h.Channels()
	}

	return audio.Frame{
		Samples:    copy(out, pcm),
		Remaining:  skip.Remaining,
		SampleRate: rate,
		Channels:   channels,
	}, nil
}

func (e *Engine) configure(h Header) error {
	want := streamConfig{
		profile:       h.Profile,
		rateIndex:     h.SampleRateIndex,
		channelConfig: h.ChannelConfig,
	}
	if e.dec != nil && want == e.cur {
		return nil
	}

	asc, err := AudioSpecificConfig(h)
	if err != nil {
		return err
	}

	if e.dec != nil {
		// faad2 decoders are initialised once, so a new stream setup needs
		// a new decoder.
		if err := e.dec.Close(e.ctx); err != nil {
			e.log.Warn("closing previous decoder", "err", err)
		}
		e.dec = nil
	}

	dec, err := faad2.NewDecoder(e.ctx)
	if err != nil {
		return fmt.Errorf("aac: new decoder: %w", err)
	}
	if err := dec.Init(e.ctx, asc); err != nil {
		_ = dec.Close(e.ctx)
		return fmt.Errorf("aac: init decoder: %w", err)
	}

	e.dec = dec
	e.cur = want
	e.log.Debug("aac decoder configured",
		"object_type", int(h.ObjectType()),
		"rate", h.SampleRate,
		"channels", h.Channels(),
	)

	return nil
}

// AudioSpecificConfig builds the decoder configuration equivalent to an
// ADTS header.
func AudioSpecificConfig(h Header) ([]byte, error) {
	asc := mpeg4audio.AudioSpecificConfig{
		Type:         h.ObjectType(),
		SampleRate:   h.SampleRate,
		ChannelCount: h.Channels(),
	}

	b, err := asc.Marshal()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedChannels, err)
	}
	return b, nil
}

// Close releases the decoder. It is safe to call more than once.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	if e.dec == nil {
		return nil
	}
	err := e.dec.Close(e.ctx)
	e.dec = nil
	if err != nil {
		return fmt.Errorf("aac: close decoder: %w", err)
	}
	return nil
}
