// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"sync"
)

// ByteSource is a sequential source of compressed bytes.
//
// A Read that returns zero bytes, with or without an error, marks the source
// as exhausted. Reads may return fewer bytes than requested without being
// exhausted.
type ByteSource interface {
	io.ReadCloser

	// IsOpen reports whether the source can be read.
	IsOpen() bool
}

// Sample is one interleaved stereo PCM sample: left, right.
type Sample [2]int16

// Sink consumes decoded PCM one sample at a time.
type Sink interface {
	Begin() error
	SetBitsPerSample(bits int) error
	SetRate(hz int) error
	SetChannels(n int) error

	// ConsumeSample offers one sample. Returning false means the sink cannot
	// take it right now; the same sample is offered again later.
	ConsumeSample(s Sample) bool
}

// Flusher is implemented by sinks that hold samples back (resampling
// history, playback buffers). Flush returns ErrSinkBusy while data is still
// in flight.
type Flusher interface {
	Flush() error
}

// Frame describes the outcome of one Engine.Decode call.
type Frame struct {
	// Samples is the number of interleaved int16 values written to out.
	Samples int
	// Remaining is the number of input bytes left unconsumed. On error an
	// engine that consumed nothing reports len(in).
	Remaining int

	SampleRate int
	Channels   int
}

// Engine decodes one compressed frame that starts at in[0].
//
// An Engine holds decoder state across calls and is never shared between
// pumps.
type Engine interface {
	Decode(in []byte, out []int16) (Frame, error)
	Close() error
}

// EngineFactory constructs a fresh Engine.
type EngineFactory func() (Engine, error)

// Registry for engines by format key (e.g., "aac", "probe").
type Registry struct {
	engines map[string]EngineFactory

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		engines: make(map[string]EngineFactory),
		mtx:     &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, f EngineFactory) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.engines[format] = f
}

func (r *Registry) Get(format string) (EngineFactory, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	f, ok := r.engines[format]
	return f, ok
}

// New builds an engine for format.
func (r *Registry) New(format string) (Engine, error) {
	f, ok := r.Get(format)
	if !ok {
		return nil, &UnknownEngineError{Format: format}
	}

	return f()
}

// Formats lists the registered keys in no particular order.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	out := make([]string, 0, len(r.engines))
	for k := range r.engines {
		out = append(out, k)
	}
	return out
}
