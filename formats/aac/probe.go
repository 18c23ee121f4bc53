// SPDX-License-Identifier: EPL-2.0

package aac

import (
	"fmt"
	"time"

	"github.com/ik5/aacpump/audio"
)

// Info summarises the frames a ProbeEngine has seen.
type Info struct {
	Frames     int64
	Bytes      int64
	Samples    int64 // per channel
	SampleRate int   // of the last frame
	Channels   int   // of the last frame
	Profile    int
	Duration   time.Duration
}

func (i Info) String() string {
	return fmt.Sprintf("%d frames, %d Hz, %d channels, %s", i.Frames, i.SampleRate, i.Channels, i.Duration)
}

// ProbeEngine reads ADTS headers without decoding. Every frame yields zero
// samples, so a pump driven by it announces the stream format and walks
// the whole stream without delivering audio.
type ProbeEngine struct {
	info Info
}

var _ audio.Engine = (*ProbeEngine)(nil)

func NewProbeEngine() *ProbeEngine { return &ProbeEngine{} }

func (p *ProbeEngine) Decode(in []byte, _ []int16) (audio.Frame, error) {
	h, err := ParseHeader(in)
	if err != nil {
		return audio.Frame{Remaining: len(in)}, err
	}
	if h.FrameLength > len(in) {
		return audio.Frame{Remaining: len(in)}, ErrTruncatedFrame
	}

	p.info.Frames++
	p.info.Bytes += int64(h.FrameLength)
	p.info.Samples += int64(h.Samples())
	p.info.SampleRate = h.SampleRate
	p.info.Channels = h.Channels()
	p.info.Profile = h.Profile
	p.info.Duration += time.Duration(h.Samples()) * time.Second / time.Duration(h.SampleRate)

	return audio.Frame{
		Remaining:  len(in) - h.FrameLength,
		SampleRate: h.SampleRate,
		Channels:   h.Channels(),
	}, nil
}

func (p *ProbeEngine) Info() Info { return p.info }

func (p *ProbeEngine) Close() error { return nil }
