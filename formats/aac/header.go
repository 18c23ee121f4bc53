// SPDX-License-Identifier: EPL-2.0

package aac

import (
	"github.com/bluenviron/mediacommon/v2/pkg/codecs/mpeg4audio"

	"github.com/ik5/aacpump/audio"
)

const (
	// HeaderLen is the size of an ADTS header without CRC.
	HeaderLen = 7
	// HeaderLenCRC is the size of an ADTS header followed by its CRC.
	HeaderLenCRC = 9

	// MaxFrameLength is the largest value the 13-bit length field holds.
	MaxFrameLength = 1<<13 - 1
)

var sampleRates = [...]int{
	96000, 88200, 64000, 48000, 44100, 32000, 24000,
	22050, 16000, 12000, 11025, 8000, 7350,
}

// Header is a parsed ADTS fixed and variable header.
type Header struct {
	MPEG2            bool // ID bit
	ProtectionAbsent bool
	Profile          int // audio object type minus one
	SampleRateIndex  int
	SampleRate       int
	ChannelConfig    int
	FrameLength      int // header included
	BufferFullness   int
	RawBlocks        int // raw data blocks in the frame, at least one
}

// Len is the header size, CRC included.
func (h Header) Len() int {
	if h.ProtectionAbsent {
		return HeaderLen
	}
	return HeaderLenCRC
}

func (h Header) ObjectType() mpeg4audio.ObjectType {
	return mpeg4audio.ObjectType(h.Profile + 1)
}

// Channels maps the channel configuration to a channel count. Configuration
// zero (defined in-band) reports 0.
func (h Header) Channels() int {
	if h.ChannelConfig == 7 {
		return 8
	}
	return h.ChannelConfig
}

// Samples is the number of PCM samples per channel the frame decodes to.
func (h Header) Samples() int {
	return h.RawBlocks * mpeg4audio.SamplesPerAccessUnit
}

// Payload returns the raw data blocks of the frame that starts at b[0].
func (h Header) Payload(b []byte) []byte {
	return b[h.Len():h.FrameLength]
}

// ParseHeader parses the ADTS header at the start of b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderLen {
		return Header{}, ErrTruncatedHeader
	}
	if b[0] != audio.SyncByte || b[1]&0xF0 != 0xF0 {
		return Header{}, ErrNoSyncWord
	}
	if b[1]&0x06 != 0 {
		return Header{}, ErrInvalidLayer
	}

	h := Header{
		MPEG2:            b[1]&0x08 != 0,
		ProtectionAbsent: b[1]&0x01 != 0,
		Profile:          int(b[2] >> 6),
		SampleRateIndex:  int(b[2]>>2) & 0x0F,
		ChannelConfig:    int(b[2]&0x01)<<2 | int(b[3]>>6),
		FrameLength:      int(b[3]&0x03)<<11 | int(b[4])<<3 | int(b[5]>>5),
		BufferFullness:   int(b[5]&0x1F)<<6 | int(b[6]>>2),
		RawBlocks:        int(b[6]&0x03) + 1,
	}

	if h.SampleRateIndex >= len(sampleRates) {
		return Header{}, ErrInvalidSampleRate
	}
	h.SampleRate = sampleRates[h.SampleRateIndex]

	if h.FrameLength <= h.Len() {
		return Header{}, ErrInvalidFrameLength
	}

	return h, nil
}

// FindFrame is an audio.SyncFunc that only accepts sync words followed by a
// plausible ADTS header. A candidate too close to the end of buf to be
// checked is reported so that the caller keeps it and reads more.
func FindFrame(buf []byte) int {
	off := 0
	for off < len(buf) {
		r := audio.FindSyncWord(buf[off:])
		if r < 0 {
			return -1
		}
		pos := off + r
		if len(buf)-pos < HeaderLen {
			return pos
		}
		if _, err := ParseHeader(buf[pos:]); err == nil {
			return pos
		}
		off = pos + 1
	}
	return -1
}
