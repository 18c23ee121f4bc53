// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"os"
)

// ReaderSource adapts an io.Reader to ByteSource. If the reader is also an
// io.Closer it is closed by Close.
type ReaderSource struct {
	r      io.Reader
	closed bool
}

func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r, closed: r == nil}
}

func (s *ReaderSource) IsOpen() bool { return !s.closed }

func (s *ReaderSource) Read(p []byte) (int, error) {
	if s.closed {
		return 0, os.ErrClosed
	}
	return s.r.Read(p)
}

func (s *ReaderSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if c, ok := s.r.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("%w", err)
		}
	}
	return nil
}

// OpenFile opens path as a ByteSource.
func OpenFile(path string) (*ReaderSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return NewReaderSource(f), nil
}
