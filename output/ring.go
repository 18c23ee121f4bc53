// SPDX-License-Identifier: EPL-2.0

package output

import (
	"io"
	"sync"
)

// ring is a fixed-size byte queue. Writes never block and take all of p or
// nothing; Read blocks until bytes arrive or the ring is closed.
type ring struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    []byte
	head   int
	size   int
	closed bool
}

func newRing(capacity int) *ring {
	r := &ring{buf: make([]byte, capacity)}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// tryWrite appends p if it fits whole.
func (r *ring) tryWrite(p []byte) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || len(r.buf)-r.size < len(p) {
		return false
	}
	tail := (r.head + r.size) % len(r.buf)
	n := copy(r.buf[tail:], p)
	copy(r.buf, p[n:])
	r.size += len(p)
	r.cond.Broadcast()
	return true
}

func (r *ring) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for r.size == 0 && !r.closed {
		r.cond.Wait()
	}
	if r.size == 0 {
		return 0, io.EOF
	}

	n := min(len(p), r.size)
	first := min(n, len(r.buf)-r.head)
	copy(p, r.buf[r.head:r.head+first])
	copy(p[first:n], r.buf)
	r.head = (r.head + n) % len(r.buf)
	r.size -= n
	return n, nil
}

func (r *ring) buffered() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// close wakes readers. Bytes already queued can still be read.
func (r *ring) close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.cond.Broadcast()
}
