// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

type nopEngine struct{ closed bool }

func (e *nopEngine) Decode(in []byte, out []int16) (Frame, error) {
	return Frame{Remaining: len(in)}, errors.New("nop")
}

func (e *nopEngine) Close() error {
	e.closed = true
	return nil
}

func TestRegistry_RegisterAndNew(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	eng := &nopEngine{}
	registry.Register("aac", func() (Engine, error) { return eng, nil })

	got, err := registry.New("aac")
	if err != nil {
		t.Fatalf("Registry.New() error = %v", err)
	}
	if got != eng {
		t.Error("Registry.New() returned a different engine")
	}
}

func TestRegistry_Unknown(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()

	if _, ok := registry.Get("flac"); ok {
		t.Error("Registry.Get() returned ok=true for unregistered format")
	}

	_, err := registry.New("flac")
	if !errors.Is(err, ErrUnknownEngine) {
		t.Fatalf("Registry.New() error = %v, want %v", err, ErrUnknownEngine)
	}

	var uerr *UnknownEngineError
	if !errors.As(err, &uerr) || uerr.Format != "flac" {
		t.Errorf("Registry.New() error = %#v, want UnknownEngineError for flac", err)
	}
	if !strings.Contains(err.Error(), `"flac"`) {
		t.Errorf("error message %q does not name the format", err.Error())
	}
}

func TestRegistry_FactoryError(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	boom := errors.New("no runtime")
	registry.Register("aac", func() (Engine, error) { return nil, boom })

	if _, err := registry.New("aac"); !errors.Is(err, boom) {
		t.Errorf("Registry.New() error = %v, want %v", err, boom)
	}
}

func TestRegistry_Formats(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	for _, f := range []string{"probe", "aac"} {
		registry.Register(f, func() (Engine, error) { return &nopEngine{}, nil })
	}

	got := registry.Formats()
	slices.Sort(got)
	if !slices.Equal(got, []string{"aac", "probe"}) {
		t.Errorf("Registry.Formats() = %v", got)
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	done := make(chan struct{})

	for i := range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			name := string(rune('a' + i))
			registry.Register(name, func() (Engine, error) { return &nopEngine{}, nil })
			registry.Get(name)
			registry.Formats()
		}()
	}
	for range 8 {
		<-done
	}

	if n := len(registry.Formats()); n != 8 {
		t.Errorf("Registry.Formats() has %d entries, want 8", n)
	}
}

func TestBufferSink(t *testing.T) {
	t.Parallel()

	b := &BufferSink{}
	if err := b.Begin(); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if err := b.SetBitsPerSample(24); err == nil {
		t.Error("SetBitsPerSample(24) error = nil")
	}
	if err := b.SetBitsPerSample(16); err != nil {
		t.Errorf("SetBitsPerSample(16) error = %v", err)
	}
	_ = b.SetRate(44100)
	_ = b.SetChannels(2)

	b.ConsumeSample(Sample{1, -1})
	b.ConsumeSample(Sample{2, -2})

	if want := []int16{1, -1, 2, -2}; !slices.Equal(b.Samples(), want) {
		t.Errorf("Samples() = %v, want %v", b.Samples(), want)
	}
	if b.SampleRate() != 44100 || b.OutputChannels() != 2 || !b.Began() {
		t.Errorf("rate %d, channels %d, began %v", b.SampleRate(), b.OutputChannels(), b.Began())
	}

	_ = b.SetChannels(1)
	b.ConsumeSample(Sample{3, 3})
	if want := []int16{1, -1, 2, -2, 3}; !slices.Equal(b.Samples(), want) {
		t.Errorf("Samples() after mono = %v, want %v", b.Samples(), want)
	}
}

func TestBufferSink_Limit(t *testing.T) {
	t.Parallel()

	b := &BufferSink{Limit: 4}
	_ = b.SetChannels(2)

	if !b.ConsumeSample(Sample{1, 1}) || !b.ConsumeSample(Sample{2, 2}) {
		t.Fatal("ConsumeSample() declined below limit")
	}
	if b.ConsumeSample(Sample{3, 3}) {
		t.Error("ConsumeSample() accepted past limit")
	}

	b.Reset()
	if !b.ConsumeSample(Sample{3, 3}) {
		t.Error("ConsumeSample() declined after Reset")
	}
}

func TestMonoSink(t *testing.T) {
	t.Parallel()

	buf := &BufferSink{}
	mono := MonoSink(buf)

	if err := mono.SetChannels(2); err != nil {
		t.Fatalf("SetChannels() error = %v", err)
	}
	if buf.Channels() != 1 {
		t.Errorf("downstream channels = %d, want 1", buf.Channels())
	}
	if err := mono.SetChannels(0); err == nil {
		t.Error("SetChannels(0) error = nil")
	}

	mono.ConsumeSample(Sample{1000, 3000})
	mono.ConsumeSample(Sample{-32768, -32768})
	mono.ConsumeSample(Sample{32767, -32768})

	if want := []int16{2000, -32768, 0}; !slices.Equal(buf.Samples(), want) {
		t.Errorf("Samples() = %v, want %v", buf.Samples(), want)
	}
	if err := mono.Flush(); err != nil {
		t.Errorf("Flush() error = %v", err)
	}
}

func feed(t *testing.T, s Sink, n int, v Sample) {
	t.Helper()

	for i := range n {
		if !s.ConsumeSample(v) {
			t.Fatalf("ConsumeSample() %d declined", i)
		}
	}
}

func TestResampleSink_Passthrough(t *testing.T) {
	t.Parallel()

	buf := &BufferSink{}
	r := ResampleSink(buf, 16000)
	_ = r.SetChannels(2)
	_ = r.SetRate(16000)

	r.ConsumeSample(Sample{5, -5})
	r.ConsumeSample(Sample{6, -6})
	if err := r.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if want := []int16{5, -5, 6, -6}; !slices.Equal(buf.Samples(), want) {
		t.Errorf("Samples() = %v, want %v", buf.Samples(), want)
	}
}

func TestResampleSink_Rates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src, dst int
		in       int
	}{
		{"upsample 8k to 16k", 8000, 16000, 800},
		{"downsample 48k to 16k", 48000, 16000, 4800},
		{"downsample 44.1k to 8k", 44100, 8000, 4410},
		{"upsample 44.1k to 48k", 44100, 48000, 4410},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := &BufferSink{}
			r := ResampleSink(buf, tt.dst)
			_ = r.Begin()
			_ = r.SetChannels(2)
			_ = r.SetRate(tt.src)

			if buf.SampleRate() != tt.dst {
				t.Errorf("downstream rate = %d, want %d", buf.SampleRate(), tt.dst)
			}

			feed(t, r, tt.in, Sample{8000, -8000})
			if err := r.Flush(); err != nil {
				t.Fatalf("Flush() error = %v", err)
			}

			got := len(buf.Samples()) / 2
			want := tt.in * tt.dst / tt.src
			if math.Abs(float64(got-want)) > 4 {
				t.Errorf("resampled %d samples, want about %d", got, want)
			}

			// A constant signal stays constant through interpolation and filtering.
			for i, v := range buf.Samples() {
				target := int16(8000)
				if i%2 == 1 {
					target = -8000
				}
				if d := int(v) - int(target); d < -2 || d > 2 {
					t.Fatalf("sample %d = %d, want about %d", i, v, target)
				}
			}
		})
	}
}

func TestResampleSink_AnnouncesTargetOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	rec := &countingSink{BufferSink: &BufferSink{}, rates: &calls}
	r := ResampleSink(rec, 22050)

	_ = r.SetRate(44100)
	_ = r.SetRate(48000)

	if calls != 1 || rec.SampleRate() != 22050 {
		t.Errorf("SetRate forwarded %d times with %d", calls, rec.SampleRate())
	}
}

func TestResampleSink_AnnouncesAgainAfterBegin(t *testing.T) {
	t.Parallel()

	calls := 0
	rec := &countingSink{BufferSink: &BufferSink{}, rates: &calls}
	r := ResampleSink(rec, 22050)

	for session := range 2 {
		if err := r.Begin(); err != nil {
			t.Fatalf("Begin() error = %v", err)
		}
		_ = r.SetRate(44100)

		if calls != session+1 || rec.SampleRate() != 22050 {
			t.Errorf("session %d: SetRate forwarded %d times with %d", session, calls, rec.SampleRate())
		}
	}
}

type countingSink struct {
	*BufferSink
	rates *int
}

func (c *countingSink) SetRate(hz int) error {
	*c.rates++
	return c.BufferSink.SetRate(hz)
}

func TestResampleSink_Backpressure(t *testing.T) {
	t.Parallel()

	buf := &BufferSink{Limit: 4}
	r := ResampleSink(buf, 16000)
	_ = r.SetChannels(2)
	_ = r.SetRate(8000)

	feed(t, r, 4, Sample{100, 100})
	if r.ConsumeSample(Sample{100, 100}) {
		t.Fatal("ConsumeSample() accepted while downstream is full")
	}
	if err := r.Flush(); !errors.Is(err, ErrSinkBusy) {
		t.Errorf("Flush() error = %v, want %v", err, ErrSinkBusy)
	}

	buf.Limit = 0
	if !r.ConsumeSample(Sample{100, 100}) {
		t.Error("ConsumeSample() declined after downstream drained")
	}
	if err := r.Flush(); err != nil {
		t.Errorf("Flush() error = %v", err)
	}
}

func TestResampleSink_SingleSample(t *testing.T) {
	t.Parallel()

	buf := &BufferSink{}
	r := ResampleSink(buf, 16000)
	_ = r.SetChannels(1)
	_ = r.SetRate(8000)

	r.ConsumeSample(Sample{1000, 1000})
	if err := r.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if n := len(buf.Samples()); n != 2 {
		t.Errorf("got %d samples from one input at 2x, want 2", n)
	}
}

func TestReaderSource(t *testing.T) {
	t.Parallel()

	rc := &closeRecorder{Reader: strings.NewReader("abc")}
	src := NewReaderSource(rc)

	if !src.IsOpen() {
		t.Fatal("IsOpen() = false for new source")
	}

	data, err := io.ReadAll(src)
	if err != nil || string(data) != "abc" {
		t.Fatalf("ReadAll() = %q, %v", data, err)
	}

	if err := src.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if rc.closes != 1 {
		t.Errorf("underlying reader closed %d times, want 1", rc.closes)
	}
	if src.IsOpen() {
		t.Error("IsOpen() = true after Close")
	}
	if _, err := src.Read(make([]byte, 1)); !errors.Is(err, os.ErrClosed) {
		t.Errorf("Read() after Close error = %v, want %v", err, os.ErrClosed)
	}
}

func TestReaderSource_Nil(t *testing.T) {
	t.Parallel()

	if NewReaderSource(nil).IsOpen() {
		t.Error("IsOpen() = true for nil reader")
	}
}

type closeRecorder struct {
	io.Reader
	closes int
}

func (c *closeRecorder) Close() error {
	c.closes++
	return nil
}

func TestOpenFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "in.aac")
	if err := os.WriteFile(path, []byte{0xFF, 0xF1}, 0o600); err != nil {
		t.Fatal(err)
	}

	src, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer src.Close()

	data, _ := io.ReadAll(src)
	if len(data) != 2 {
		t.Errorf("read %d bytes, want 2", len(data))
	}

	if _, err := OpenFile(filepath.Join(t.TempDir(), "missing.aac")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("OpenFile(missing) error = %v, want %v", err, os.ErrNotExist)
	}
}
