// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// MonoMixer is a Sink that averages the two sides of each sample and
// forwards the result to next as a single channel.
type MonoMixer struct {
	next Sink
}

func MonoSink(next Sink) *MonoMixer {
	return &MonoMixer{next: next}
}

func (m *MonoMixer) Begin() error { return m.next.Begin() }

func (m *MonoMixer) SetBitsPerSample(bits int) error { return m.next.SetBitsPerSample(bits) }

func (m *MonoMixer) SetRate(hz int) error { return m.next.SetRate(hz) }

// SetChannels announces one channel downstream whatever n is.
func (m *MonoMixer) SetChannels(n int) error {
	if n < 1 {
		return fmt.Errorf("invalid channel count %d", n)
	}
	return m.next.SetChannels(1)
}

func (m *MonoMixer) ConsumeSample(s Sample) bool {
	v := int16((int32(s[0]) + int32(s[1])) / 2)
	return m.next.ConsumeSample(Sample{v, v})
}

func (m *MonoMixer) Flush() error {
	if f, ok := m.next.(Flusher); ok {
		return f.Flush()
	}
	return nil
}
