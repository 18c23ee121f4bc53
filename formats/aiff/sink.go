// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"io"

	"github.com/go-audio/aiff"

	"github.com/ik5/aacpump/internal/pcmenc"
)

// Sink writes delivered samples as big-endian 16-bit AIFF. Like the WAV
// sink it patches chunk sizes on Close, so w must seek.
type Sink struct {
	*pcmenc.Sink
}

func NewSink(w io.WriteSeeker) *Sink {
	open := func(rate, channels int) (pcmenc.Encoder, error) {
		return aiff.NewEncoder(w, rate, pcmenc.BitDepth, channels), nil
	}
	return &Sink{Sink: pcmenc.New(open, ErrOnlyPCM16bitSupported)}
}
