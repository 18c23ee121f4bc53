// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"io"

	"github.com/go-audio/wav"

	"github.com/ik5/aacpump/internal/pcmenc"
)

const pcmFormat = 1

// Sink writes delivered samples to a WAV file through the go-audio encoder.
// The header is finalised by Close, which needs w to seek.
type Sink struct {
	*pcmenc.Sink
}

func NewSink(w io.WriteSeeker) *Sink {
	open := func(rate, channels int) (pcmenc.Encoder, error) {
		return wav.NewEncoder(w, rate, pcmenc.BitDepth, channels, pcmFormat), nil
	}
	return &Sink{Sink: pcmenc.New(open, ErrOnlyPCM16bitSupported)}
}
