// SPDX-License-Identifier: EPL-2.0

// Package pcmenc adapts go-audio style encoders to audio.Sink.
package pcmenc

import (
	"errors"
	"fmt"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/aacpump/audio"
)

var (
	ErrFormatLocked  = errors.New("output format cannot change once samples are written")
	ErrFormatUnknown = errors.New("sample arrived before rate and channels were set")
)

// BitDepth is the only depth the encoders are driven with.
const BitDepth = 16

// DefaultBatch is the number of sample frames buffered per encoder write.
const DefaultBatch = 4096

// Encoder is satisfied by the go-audio wav and aiff encoders.
type Encoder interface {
	Write(buf *goaudio.IntBuffer) error
	Close() error
}

// NewEncoderFunc opens an encoder once the stream format is known.
type NewEncoderFunc func(rate, channels int) (Encoder, error)

// Sink buffers delivered samples and writes them through an Encoder. The
// encoder is opened on the first sample.
//
// Encoding errors are sticky: later samples are accepted and dropped, and
// the error is reported by Flush, Close and Err.
type Sink struct {
	open     NewEncoderFunc
	depthErr error
	batch    int

	enc      Encoder
	rate     int
	channels int // as stored: 1 or 2
	buf      *goaudio.IntBuffer
	frames   int64
	err      error
	closed   bool
}

// New returns a sink that rejects any bit depth but 16 with depthErr.
func New(open NewEncoderFunc, depthErr error) *Sink {
	return &Sink{
		open:     open,
		depthErr: depthErr,
		batch:    DefaultBatch,
	}
}

// SetBatch sets how many sample frames are buffered per encoder write.
// It has no effect once the encoder is open.
func (s *Sink) SetBatch(n int) {
	if n > 0 && s.enc == nil {
		s.batch = n
	}
}

func (s *Sink) Begin() error { return nil }

func (s *Sink) SetBitsPerSample(bits int) error {
	if bits != BitDepth {
		return fmt.Errorf("%w: got %d bits", s.depthErr, bits)
	}
	return nil
}

func (s *Sink) SetRate(hz int) error {
	if s.enc != nil && hz != s.rate {
		return fmt.Errorf("%w: rate %d -> %d", ErrFormatLocked, s.rate, hz)
	}
	s.rate = hz
	return nil
}

func (s *Sink) SetChannels(n int) error {
	stored := min(max(n, 1), 2)
	if s.enc != nil && stored != s.channels {
		return fmt.Errorf("%w: channels %d -> %d", ErrFormatLocked, s.channels, stored)
	}
	s.channels = stored
	return nil
}

func (s *Sink) ConsumeSample(v audio.Sample) bool {
	if s.err != nil || s.closed {
		return true
	}
	if s.enc == nil {
		if s.err = s.start(); s.err != nil {
			return true
		}
	}

	if s.channels == 1 {
		s.buf.Data = append(s.buf.Data, int(v[0]))
	} else {
		s.buf.Data = append(s.buf.Data, int(v[0]), int(v[1]))
	}
	s.frames++

	if len(s.buf.Data) >= s.batch*s.channels {
		s.err = s.write()
	}
	return true
}

func (s *Sink) start() error {
	if s.rate <= 0 || s.channels == 0 {
		return ErrFormatUnknown
	}

	enc, err := s.open(s.rate, s.channels)
	if err != nil {
		return fmt.Errorf("open encoder: %w", err)
	}

	s.enc = enc
	s.buf = &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: s.channels, SampleRate: s.rate},
		Data:           make([]int, 0, s.batch*s.channels),
		SourceBitDepth: BitDepth,
	}
	return nil
}

func (s *Sink) write() error {
	if len(s.buf.Data) == 0 {
		return nil
	}
	if err := s.enc.Write(s.buf); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	s.buf.Data = s.buf.Data[:0]
	return nil
}

// Flush writes buffered samples to the encoder.
func (s *Sink) Flush() error {
	if s.err != nil || s.enc == nil {
		return s.err
	}
	s.err = s.write()
	return s.err
}

// Close flushes and finalises the output. A sink that never received a
// sample but knows its format still writes an empty, valid file. The
// underlying writer is not closed.
func (s *Sink) Close() error {
	if s.closed {
		return s.err
	}
	s.closed = true

	if s.enc == nil && s.err == nil {
		if s.rate <= 0 || s.channels == 0 {
			return nil
		}
		if s.err = s.start(); s.err != nil {
			return s.err
		}
		// An empty write makes the encoder emit its headers.
		if err := s.enc.Write(s.buf); err != nil {
			s.err = fmt.Errorf("encode: %w", err)
		}
	}
	if s.enc == nil {
		return s.err
	}

	if s.err == nil {
		s.err = s.write()
	}
	if err := s.enc.Close(); err != nil && s.err == nil {
		s.err = fmt.Errorf("close encoder: %w", err)
	}
	return s.err
}

// Err reports the first encoding error.
func (s *Sink) Err() error { return s.err }

// Frames is the number of samples accepted for encoding.
func (s *Sink) Frames() int64 { return s.frames }

func (s *Sink) SampleRate() int { return s.rate }
func (s *Sink) Channels() int   { return s.channels }
