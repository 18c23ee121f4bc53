// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"fmt"

	"github.com/bluenviron/mediacommon/v2/pkg/codecs/mpeg4audio"

	"github.com/ik5/aacpump/audio"
)

// Access unit layout of a synthetic frame:
//
//	[0]    kind
//	[1..2] pairs per channel, 7 bits each, big endian
//	[3]    seed
//	[4..]  padding
//
// No access unit byte is ever 0xFF, so a frame body never contains a sync
// word.
const (
	KindOK    byte = 0x01
	KindError byte = 0xEE

	auHeaderLen = 4
	maxPairs    = 1<<14 - 1
)

// FrameSpec describes one synthetic ADTS frame.
type FrameSpec struct {
	SampleRate int
	Channels   int
	Pairs      int  // samples per channel
	Seed       byte // masked to 7 bits
	Fail       bool // engine reports a decode error
	Padding    int  // extra body bytes
}

// Frame returns the ADTS bytes for spec.
func Frame(spec FrameSpec) ([]byte, error) {
	if spec.Pairs < 0 || spec.Pairs > maxPairs {
		return nil, fmt.Errorf("audiotest: pairs out of range: %d", spec.Pairs)
	}

	kind := KindOK
	if spec.Fail {
		kind = KindError
	}

	au := make([]byte, auHeaderLen+spec.Padding)
	au[0] = kind
	au[1] = byte(spec.Pairs>>7) & 0x7F
	au[2] = byte(spec.Pairs) & 0x7F
	au[3] = spec.Seed & 0x7F
	for i := auHeaderLen; i < len(au); i++ {
		au[i] = byte(i) & 0x7F
	}

	// A frame length of 7 mod 8 puts 0xFF 0xFC into the header's fullness
	// field, which would read as a sync word.
	if (len(au)+7)%8 == 7 {
		au = append(au, 0)
	}

	pkts := mpeg4audio.ADTSPackets{{
		Type:         mpeg4audio.ObjectTypeAACLC,
		SampleRate:   spec.SampleRate,
		ChannelCount: spec.Channels,
		AU:           au,
	}}

	buf, err := pkts.Marshal()
	if err != nil {
		return nil, fmt.Errorf("audiotest: %w", err)
	}
	return buf, nil
}

// Stream concatenates the frames for specs.
func Stream(specs ...FrameSpec) ([]byte, error) {
	var out []byte
	for _, s := range specs {
		f, err := Frame(s)
		if err != nil {
			return nil, err
		}
		out = append(out, f...)
	}
	return out, nil
}

// SampleValue is the PCM value the fake engine writes for pair i of
// channel c.
func SampleValue(seed byte, i, c int) int16 {
	v := int16((int(seed&0x7F)*1000 + i) % 30000)
	switch c {
	case 0:
		return v
	case 1:
		return -v
	default:
		return int16(20000 + c)
	}
}

// Expected returns the stereo pairs the pump delivers for specs: failing
// frames contribute nothing, mono is duplicated, extra channels are
// dropped.
func Expected(specs ...FrameSpec) []audio.Sample {
	var out []audio.Sample
	for _, s := range specs {
		if s.Fail || s.Channels == 0 {
			continue
		}
		for i := range s.Pairs {
			l := SampleValue(s.Seed, i, 0)
			r := SampleValue(s.Seed, i, 1)
			if s.Channels == 1 {
				r = l
			}
			out = append(out, audio.Sample{l, r})
		}
	}
	return out
}
