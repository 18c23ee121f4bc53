// SPDX-License-Identifier: EPL-2.0

package aacpump_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/ik5/aacpump"
	"github.com/ik5/aacpump/audio"
	"github.com/ik5/aacpump/internal/audiotest"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func started(t *testing.T, sink audio.Sink, specs ...audiotest.FrameSpec) (*audio.Pump, *audiotest.ChunkSource) {
	t.Helper()

	data, err := audiotest.Stream(specs...)
	if err != nil {
		t.Fatal(err)
	}
	p, err := audio.NewPump(&audiotest.Engine{}, audio.WithLogger(quiet))
	if err != nil {
		t.Fatal(err)
	}
	src := audiotest.NewChunkSource(data, 97)
	if err := p.Start(src, sink); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return p, src
}

var twoFrames = []audiotest.FrameSpec{
	{SampleRate: 44100, Channels: 2, Pairs: 40, Seed: 1},
	{SampleRate: 44100, Channels: 2, Pairs: 25, Seed: 2},
}

func TestRun(t *testing.T) {
	t.Parallel()

	sink := &audiotest.RecordingSink{}
	p, src := started(t, sink, twoFrames...)

	if err := aacpump.Run(context.Background(), p); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if want := audiotest.Expected(twoFrames...); !slices.Equal(sink.Samples, want) {
		t.Errorf("delivered %d samples, want %d", len(sink.Samples), len(want))
	}
	if p.IsRunning() {
		t.Error("pump still running")
	}
	if src.Closes != 0 {
		t.Errorf("source closed %d times on natural finish", src.Closes)
	}
}

func TestRun_BacksOffOnDecline(t *testing.T) {
	t.Parallel()

	sink := &audiotest.RecordingSink{Decline: audiotest.DeclineFirst(3)}
	p, _ := started(t, sink, twoFrames...)

	begin := time.Now()
	if err := aacpump.Run(context.Background(), p, aacpump.WithIdle(5*time.Millisecond)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if elapsed := time.Since(begin); elapsed < 15*time.Millisecond {
		t.Errorf("Run() took %v, want at least three back-offs", elapsed)
	}
	if st := p.Stats(); st.Declined != 3 || st.Delivered != 65 {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestRun_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &audiotest.RecordingSink{}
	p, src := started(t, sink, twoFrames...)

	if err := aacpump.Run(ctx, p); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want %v", err, context.Canceled)
	}
	if p.IsRunning() || src.Closes != 1 {
		t.Errorf("running = %v, source closed %d times", p.IsRunning(), src.Closes)
	}
	if len(sink.Samples) != 0 {
		t.Errorf("delivered %d samples after cancel", len(sink.Samples))
	}
}

func TestRun_DeadlineWhileDeclined(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	sink := &audiotest.RecordingSink{Decline: func(int, audio.Sample) bool { return true }}
	p, _ := started(t, sink, twoFrames...)

	if err := aacpump.Run(ctx, p, aacpump.WithIdle(2*time.Millisecond)); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() error = %v, want %v", err, context.DeadlineExceeded)
	}
	if p.IsRunning() {
		t.Error("pump still running after deadline")
	}
}

// busySink reports busy on the first Flush calls.
type busySink struct {
	audiotest.RecordingSink
	busy    int
	flushes int
	err     error
}

func (b *busySink) Flush() error {
	b.flushes++
	if b.flushes <= b.busy {
		return audio.ErrSinkBusy
	}
	return b.err
}

func TestRun_Flush(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		busy        int
		err         error
		wantFlushes int
	}{
		{"ready", 0, nil, 1},
		{"busy twice", 2, nil, 3},
		{"error", 1, io.ErrShortWrite, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sink := &busySink{busy: tt.busy, err: tt.err}
			p, _ := started(t, sink, twoFrames[0])

			err := aacpump.Run(context.Background(), p)
			if !errors.Is(err, tt.err) {
				t.Errorf("Run() error = %v, want %v", err, tt.err)
			}
			if sink.flushes != tt.wantFlushes {
				t.Errorf("Flush() called %d times, want %d", sink.flushes, tt.wantFlushes)
			}
		})
	}
}
