// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	"github.com/ik5/aacpump/audio"
)

// StreamSink keeps samples in memory and writes the whole WAV on Close, so
// w can be a pipe or stdout.
type StreamSink struct {
	w        io.Writer
	rate     int
	channels int
	samples  []int16
	closed   bool
}

func NewStreamSink(w io.Writer) *StreamSink {
	return &StreamSink{w: w}
}

func (s *StreamSink) Begin() error {
	s.samples = s.samples[:0]
	s.closed = false
	return nil
}

func (s *StreamSink) SetBitsPerSample(bits int) error {
	if bits != 16 {
		return fmt.Errorf("%w: got %d bits", ErrOnlyPCM16bitSupported, bits)
	}
	return nil
}

func (s *StreamSink) SetRate(hz int) error {
	if len(s.samples) > 0 && hz != s.rate {
		return fmt.Errorf("%w: rate %d -> %d", ErrFormatLocked, s.rate, hz)
	}
	s.rate = hz
	return nil
}

func (s *StreamSink) SetChannels(n int) error {
	stored := min(max(n, 1), 2)
	if len(s.samples) > 0 && stored != s.channels {
		return fmt.Errorf("%w: channels %d -> %d", ErrFormatLocked, s.channels, stored)
	}
	s.channels = stored
	return nil
}

func (s *StreamSink) ConsumeSample(v audio.Sample) bool {
	if s.channels == 1 {
		s.samples = append(s.samples, v[0])
	} else {
		s.samples = append(s.samples, v[0], v[1])
	}
	return true
}

// Close writes the file. Calling it again is a no-op.
func (s *StreamSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	channels := s.channels
	if channels == 0 {
		channels = 2
	}
	return WriteWAV16(s.w, s.rate, channels, s.samples)
}
