// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"fmt"

	"github.com/bluenviron/mediacommon/v2/pkg/codecs/mpeg4audio"

	"github.com/ik5/aacpump/audio"
)

var (
	ErrShortFrame     = errors.New("audiotest: frame truncated")
	ErrNoSync         = errors.New("audiotest: no sync word at offset 0")
	ErrBadFrame       = errors.New("audiotest: malformed frame")
	ErrScriptedFail   = errors.New("audiotest: scripted decode failure")
	ErrWindowOverflow = errors.New("audiotest: output window too small")
)

const adtsHeaderLen = 7

// Engine decodes frames built by Frame. Failing frames consume nothing,
// like an engine that rejects the input outright.
type Engine struct {
	// Inputs records len(in) of every Decode call.
	Inputs []int
	Closed bool

	// ConsumeOnError makes failing frames report their own length as
	// consumed instead of nothing.
	ConsumeOnError bool
}

func (e *Engine) Decode(in []byte, out []int16) (audio.Frame, error) {
	e.Inputs = append(e.Inputs, len(in))
	none := audio.Frame{Remaining: len(in)}

	if len(in) < adtsHeaderLen {
		return none, ErrShortFrame
	}
	if in[0] != 0xFF || in[1]&0xF0 != 0xF0 {
		return none, ErrNoSync
	}

	frameLen := int(in[3]&0x03)<<11 | int(in[4])<<3 | int(in[5])>>5
	if frameLen < adtsHeaderLen+auHeaderLen {
		return none, ErrBadFrame
	}
	if frameLen > len(in) {
		return none, ErrShortFrame
	}

	var pkts mpeg4audio.ADTSPackets
	if err := pkts.Unmarshal(in[:frameLen]); err != nil {
		return none, fmt.Errorf("%w: %w", ErrBadFrame, err)
	}
	pkt := pkts[0]
	au := pkt.AU

	if au[0] == KindError {
		if e.ConsumeOnError {
			none.Remaining = len(in) - frameLen
		}
		return none, ErrScriptedFail
	}

	pairs := int(au[1])<<7 | int(au[2])
	seed := au[3]
	if pairs*pkt.ChannelCount > len(out) {
		return none, ErrWindowOverflow
	}

	for i := range pairs {
		for c := range pkt.ChannelCount {
			out[i*pkt.ChannelCount+c] = SampleValue(seed, i, c)
		}
	}

	return audio.Frame{
		Samples:    pairs * pkt.ChannelCount,
		Remaining:  len(in) - frameLen,
		SampleRate: pkt.SampleRate,
		Channels:   pkt.ChannelCount,
	}, nil
}

func (e *Engine) Close() error {
	e.Closed = true
	return nil
}

// Calls is the number of Decode calls.
func (e *Engine) Calls() int { return len(e.Inputs) }
