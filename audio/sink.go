// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// BufferSink collects delivered samples in memory, interleaved by the
// announced channel count (one value per sample for mono, two otherwise).
//
// With Limit > 0 the sink declines samples once it holds Limit values,
// until Reset is called.
type BufferSink struct {
	Limit int

	samples  []int16
	rate     int
	channels int
	bits     int
	began    bool
}

func (b *BufferSink) Begin() error {
	b.began = true
	return nil
}

func (b *BufferSink) SetBitsPerSample(bits int) error {
	if bits != BitsPerSample {
		return fmt.Errorf("unsupported bit depth %d", bits)
	}
	b.bits = bits
	return nil
}

func (b *BufferSink) SetRate(hz int) error {
	b.rate = hz
	return nil
}

func (b *BufferSink) SetChannels(n int) error {
	b.channels = n
	return nil
}

func (b *BufferSink) ConsumeSample(s Sample) bool {
	if b.Limit > 0 && len(b.samples) >= b.Limit {
		return false
	}

	if b.channels == 1 {
		b.samples = append(b.samples, s[0])
	} else {
		b.samples = append(b.samples, s[0], s[1])
	}
	return true
}

// Samples returns the collected values. The slice is owned by the sink.
func (b *BufferSink) Samples() []int16 { return b.samples }

// Reset drops collected samples so a limited sink accepts again.
func (b *BufferSink) Reset() { b.samples = b.samples[:0] }

func (b *BufferSink) SampleRate() int { return b.rate }
func (b *BufferSink) Channels() int   { return b.channels }

// OutputChannels is the number of values stored per sample.
func (b *BufferSink) OutputChannels() int {
	if b.channels == 1 {
		return 1
	}
	return 2
}

func (b *BufferSink) Began() bool { return b.began }
