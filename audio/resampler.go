// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"github.com/ik5/aacpump/utils"
)

// Resampler is a Sink that converts the announced sample rate to a fixed
// target rate using cubic interpolation before forwarding to next.
// Includes basic anti-aliasing filtering when downsampling.
//
// Output that next declines is queued, and further input is declined until
// the queue drains, so backpressure passes through unchanged.
type Resampler struct {
	next    Sink
	dstRate int
	srcRate int
	ratio   float64 // source samples per output sample

	// frames[0] = t-1, frames[1] = t0, frames[2] = t+1, frames[3] = t+2
	frames [4][2]float32
	have   int

	// position between frames[1] and frames[2], in source samples
	pos float64

	useFilter   bool
	filterAlpha float32
	filterState [2]float32

	out  []Sample
	head int

	flushed bool
}

// ResampleSink forwards to next at rate hz. A non-positive rate disables
// conversion.
func ResampleSink(next Sink, hz int) *Resampler {
	return &Resampler{
		next:    next,
		dstRate: hz,
		out:     make([]Sample, 0, 16),
	}
}

func (r *Resampler) Begin() error {
	r.srcRate = 0
	r.have = 0
	r.pos = 0
	r.out = r.out[:0]
	r.head = 0
	r.flushed = false
	return r.next.Begin()
}

func (r *Resampler) SetBitsPerSample(bits int) error { return r.next.SetBitsPerSample(bits) }

func (r *Resampler) SetChannels(n int) error { return r.next.SetChannels(n) }

// SetRate records the source rate. The target rate is announced downstream
// the first time only.
func (r *Resampler) SetRate(hz int) error {
	first := r.srcRate == 0
	r.srcRate = hz

	if r.dstRate <= 0 {
		return r.next.SetRate(hz)
	}

	r.ratio = float64(hz) / float64(r.dstRate)
	r.useFilter = r.ratio > 1.0
	if r.useFilter {
		// one-pole low-pass, roughly at the destination Nyquist
		r.filterAlpha = 0.5
	}

	if first {
		return r.next.SetRate(r.dstRate)
	}
	return nil
}

func (r *Resampler) passthrough() bool {
	return r.dstRate <= 0 || r.srcRate <= 0 || r.srcRate == r.dstRate
}

func (r *Resampler) ConsumeSample(s Sample) bool {
	if !r.drain() {
		return false
	}
	if r.passthrough() {
		return r.next.ConsumeSample(s)
	}

	r.push([2]float32{utils.Int16ToFloat32(s[0]), utils.Int16ToFloat32(s[1])})
	r.drain()

	return true
}

func (r *Resampler) push(f [2]float32) {
	if r.useFilter {
		if r.have == 0 {
			// start from the first sample to avoid warm-up transients
			r.filterState = f
		}
		for c := range f {
			f[c] = utils.LowPass(r.filterAlpha, f[c], r.filterState[c])
			r.filterState[c] = f[c]
		}
	}

	if r.have == 0 {
		// duplicate the leading edge so the first input is also emitted first
		r.frames[0] = f
		r.frames[1] = f
		r.have = 2
		return
	}

	r.frames[r.have] = f
	r.have++
	if r.have < 4 {
		return
	}

	r.emitSegment()
	r.frames[0] = r.frames[1]
	r.frames[1] = r.frames[2]
	r.frames[2] = r.frames[3]
	r.have = 3
}

// emitSegment queues every output position that falls between frames[1]
// and frames[2].
func (r *Resampler) emitSegment() {
	for r.pos < 1.0 {
		v := utils.CubicInterpolateStereo(&r.frames, float32(r.pos))
		r.out = append(r.out, Sample{utils.Float32ToInt16(v[0]), utils.Float32ToInt16(v[1])})
		r.pos += r.ratio
	}
	r.pos -= 1.0
}

// drain forwards queued output. It reports whether the queue is empty.
func (r *Resampler) drain() bool {
	for r.head < len(r.out) {
		if !r.next.ConsumeSample(r.out[r.head]) {
			return false
		}
		r.head++
	}
	r.out = r.out[:0]
	r.head = 0
	return true
}

// Flush interpolates the buffered tail, duplicating the trailing edge, and
// forwards it. It returns ErrSinkBusy while next declines.
func (r *Resampler) Flush() error {
	if !r.flushed {
		r.flushed = true

		switch r.have {
		case 2:
			// a single input sample
			r.frames[2] = r.frames[1]
			r.frames[3] = r.frames[1]
			r.emitSegment()
		case 3:
			r.frames[3] = r.frames[2]
			r.emitSegment()
		}
		r.have = 0
	}

	if !r.drain() {
		return ErrSinkBusy
	}

	if f, ok := r.next.(Flusher); ok {
		return f.Flush()
	}
	return nil
}
