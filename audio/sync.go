// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"log/slog"
)

const (
	// SyncByte is the first byte of an ADTS sync word.
	SyncByte = 0xFF
	// syncMaskLow selects the top nibble of the second sync byte.
	syncMaskLow = 0xF0

	// DefaultBufferSize exceeds the largest frame an AAC-LC stereo stream
	// normally produces (768 bytes per channel).
	DefaultBufferSize = 1600
)

// SyncFunc returns the offset of the first frame boundary in buf, or -1.
type SyncFunc func(buf []byte) int

// FindSyncWord locates the 12-bit 0xFFF ADTS sync word. It needs both bytes
// to be present, so a trailing 0xFF is never reported.
func FindSyncWord(buf []byte) int {
	for i := 0; i+1 < len(buf); i++ {
		if buf[i] == SyncByte && buf[i+1]&syncMaskLow == syncMaskLow {
			return i
		}
	}
	return -1
}

// FrameSynchronizer keeps a fixed-size window over a ByteSource and moves
// the next frame boundary to offset zero.
type FrameSynchronizer struct {
	src  ByteSource
	find SyncFunc
	log  *slog.Logger

	buf          []byte
	valid        int
	lastFrameEnd int

	bytesRead int64
}

// NewFrameSynchronizer allocates a buffer of size bytes. The source is
// attached later with Attach.
func NewFrameSynchronizer(size int, find SyncFunc, logger *slog.Logger) *FrameSynchronizer {
	if size < 2 {
		size = DefaultBufferSize
	}
	if find == nil {
		find = FindSyncWord
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FrameSynchronizer{
		find: find,
		log:  logger,
		buf:  make([]byte, size),
	}
}

// Attach binds src and discards any buffered bytes.
func (fs *FrameSynchronizer) Attach(src ByteSource) {
	fs.src = src
	fs.Reset()
}

// Reset empties the buffer. Capacity is kept.
func (fs *FrameSynchronizer) Reset() {
	clear(fs.buf)
	fs.valid = 0
	fs.lastFrameEnd = 0
	fs.bytesRead = 0
}

// Bytes returns the buffered bytes. The slice aliases the internal buffer
// and is only valid until the next call to EnsureFrameAtStart.
func (fs *FrameSynchronizer) Bytes() []byte { return fs.buf[:fs.valid] }

// Len is the number of buffered bytes.
func (fs *FrameSynchronizer) Len() int { return fs.valid }

// Cap is the fixed buffer capacity.
func (fs *FrameSynchronizer) Cap() int { return len(fs.buf) }

// BytesRead is the total number of bytes taken from the source since the
// last Reset.
func (fs *FrameSynchronizer) BytesRead() int64 { return fs.bytesRead }

// Consume records that the first n buffered bytes were used by the decoder.
// The next search resumes at n.
func (fs *FrameSynchronizer) Consume(n int) {
	fs.lastFrameEnd = min(max(n, 0), fs.valid)
}

// EnsureFrameAtStart leaves the buffer with a frame boundary at offset zero
// followed by as much source data as is currently available. It returns
// false once the source is exhausted.
func (fs *FrameSynchronizer) EnsureFrameAtStart() bool {
	if fs.src == nil {
		return false
	}

	// A sync word left at 0 by the previous frame must not match again.
	fs.buf[0] = 0

	found := -1
	for found < 0 {
		start := fs.lastFrameEnd
		fs.lastFrameEnd = 0

		if r := fs.find(fs.buf[start:fs.valid]); r >= 0 {
			found = start + r
			break
		}

		if fs.valid > 0 && fs.buf[fs.valid-1] == SyncByte {
			// Possibly the first half of a sync word split across reads.
			fs.buf[0] = SyncByte
			n := fs.read(fs.buf[1:])
			if n == 0 {
				return false
			}
			fs.valid = 1 + n
			continue
		}

		n := fs.read(fs.buf)
		if n == 0 {
			return false
		}
		fs.valid = n
	}

	fs.valid = copy(fs.buf, fs.buf[found:fs.valid])

	// A single short read can leave the frame incomplete. Work stays
	// bounded by the buffer capacity.
	for fs.valid < len(fs.buf) {
		n := fs.read(fs.buf[fs.valid:])
		if n == 0 {
			break
		}
		fs.valid += n
	}

	return true
}

func (fs *FrameSynchronizer) read(p []byte) int {
	n, err := fs.src.Read(p)
	if n < 0 || n > len(p) {
		n = 0
	}
	fs.bytesRead += int64(n)

	if err != nil && !errors.Is(err, io.EOF) {
		fs.log.Warn("source read failed", "err", err, "read", n)
	}

	return n
}
