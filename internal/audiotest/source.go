// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides fakes for exercising the pump: byte sources
// with scripted read sizes, a recording sink and an engine that decodes
// synthetic ADTS frames.
package audiotest

import (
	"errors"
	"io"
)

var ErrClosed = errors.New("audiotest: source closed")

// ChunkSource serves data in reads no longer than the scheduled chunk
// sizes. The last chunk size repeats; no schedule means unlimited reads.
type ChunkSource struct {
	data   []byte
	pos    int
	chunks []int
	reads  int
	closed bool

	// Closes counts Close calls.
	Closes int
	// CloseErr is returned by Close.
	CloseErr error
	// EndErr is returned with the zero-length read at the end of data.
	// It defaults to io.EOF.
	EndErr error
	// NotOpen makes IsOpen report false before any Close.
	NotOpen bool
}

func NewChunkSource(data []byte, chunks ...int) *ChunkSource {
	return &ChunkSource{data: data, chunks: chunks}
}

func (s *ChunkSource) IsOpen() bool { return !s.NotOpen && !s.closed }

func (s *ChunkSource) Read(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}

	limit := len(p)
	if len(s.chunks) > 0 {
		c := s.chunks[min(s.reads, len(s.chunks)-1)]
		limit = min(limit, c)
	}
	s.reads++

	if s.pos >= len(s.data) {
		if s.EndErr != nil {
			return 0, s.EndErr
		}
		return 0, io.EOF
	}

	n := copy(p[:limit], s.data[s.pos:])
	s.pos += n
	return n, nil
}

func (s *ChunkSource) Close() error {
	s.closed = true
	s.Closes++
	return s.CloseErr
}

// Reads is the number of Read calls so far.
func (s *ChunkSource) Reads() int { return s.reads }

// Offset is the number of bytes served so far.
func (s *ChunkSource) Offset() int { return s.pos }
