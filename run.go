// SPDX-License-Identifier: EPL-2.0

package aacpump

import (
	"context"
	"errors"
	"time"

	"github.com/ik5/aacpump/audio"
)

// DefaultIdle is how long Run waits after a declined sample.
const DefaultIdle = time.Millisecond

type runConfig struct {
	idle time.Duration
}

type RunOption func(*runConfig)

// WithIdle sets the back-off after a declined sample or a busy flush.
func WithIdle(d time.Duration) RunOption {
	return func(c *runConfig) {
		if d > 0 {
			c.idle = d
		}
	}
}

// Run drives a started pump to the end of its source, then flushes the
// sink if it implements audio.Flusher. If ctx ends first the pump is
// stopped and ctx.Err() is returned.
func Run(ctx context.Context, p *audio.Pump, opts ...RunOption) error {
	cfg := runConfig{idle: DefaultIdle}
	for _, opt := range opts {
		opt(&cfg)
	}

	cancel := func() error {
		_ = p.Stop()
		return ctx.Err()
	}

	for {
		if ctx.Err() != nil {
			return cancel()
		}

		declined := p.Stats().Declined
		if !p.Advance() {
			break
		}
		if p.Stats().Declined > declined && !wait(ctx, cfg.idle) {
			return cancel()
		}
	}

	f, ok := p.Sink().(audio.Flusher)
	if !ok {
		return nil
	}
	for {
		err := f.Flush()
		if !errors.Is(err, audio.ErrSinkBusy) {
			return err
		}
		if !wait(ctx, cfg.idle) {
			return ctx.Err()
		}
	}
}

// wait sleeps for d and reports false if ctx ended first.
func wait(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
