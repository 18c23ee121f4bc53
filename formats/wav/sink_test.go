// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"

	"github.com/ik5/aacpump/audio"
)

func decodeFile(t *testing.T, path string) (rate, channels int, data []int) {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	pcm, err := wav.NewDecoder(f).FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer() error = %v", err)
	}
	return pcm.Format.SampleRate, pcm.Format.NumChannels, pcm.Data
}

func TestSink_WritesStereo(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	s := NewSink(f)
	s.SetBatch(3)
	if err := s.SetBitsPerSample(16); err != nil {
		t.Fatal(err)
	}
	_ = s.SetRate(22050)
	_ = s.SetChannels(2)

	in := []audio.Sample{{1, -1}, {2, -2}, {3, -3}, {4, -4}, {5, -5}}
	for _, v := range in {
		if !s.ConsumeSample(v) {
			t.Fatalf("ConsumeSample(%v) declined", v)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	rate, channels, data := decodeFile(t, path)
	if rate != 22050 || channels != 2 {
		t.Errorf("format = %d Hz, %d channels, want 22050 Hz, 2 channels", rate, channels)
	}
	want := []int{1, -1, 2, -2, 3, -3, 4, -4, 5, -5}
	if len(data) != len(want) {
		t.Fatalf("decoded %d values, want %d", len(data), len(want))
	}
	for i := range want {
		if data[i] != want[i] {
			t.Errorf("data[%d] = %d, want %d", i, data[i], want[i])
		}
	}
}

func TestSink_Mono(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mono.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	s := NewSink(f)
	_ = s.SetRate(8000)
	_ = s.SetChannels(1)
	s.ConsumeSample(audio.Sample{7, 7})
	s.ConsumeSample(audio.Sample{-7, -7})
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	_, channels, data := decodeFile(t, path)
	if channels != 1 || len(data) != 2 || data[0] != 7 || data[1] != -7 {
		t.Errorf("decoded %d channels %v, want 1 channel [7 -7]", channels, data)
	}
}

func TestSink_RejectsOtherDepths(t *testing.T) {
	t.Parallel()

	f, err := os.Create(filepath.Join(t.TempDir(), "x.wav"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := NewSink(f).SetBitsPerSample(24); !errors.Is(err, ErrOnlyPCM16bitSupported) {
		t.Errorf("SetBitsPerSample(24) error = %v, want %v", err, ErrOnlyPCM16bitSupported)
	}
}

func TestSink_FormatLocked(t *testing.T) {
	t.Parallel()

	f, err := os.Create(filepath.Join(t.TempDir(), "x.wav"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	s := NewSink(f)
	_ = s.SetRate(44100)
	_ = s.SetChannels(2)
	s.ConsumeSample(audio.Sample{1, 1})

	if err := s.SetRate(48000); !errors.Is(err, ErrFormatLocked) {
		t.Errorf("SetRate() after samples error = %v, want %v", err, ErrFormatLocked)
	}
	if err := s.SetRate(44100); err != nil {
		t.Errorf("SetRate(same) error = %v", err)
	}
	_ = s.Close()
}

func TestSink_EmptyStillValid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	s := NewSink(f)
	_ = s.SetRate(16000)
	_ = s.SetChannels(1)
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	_ = f.Close()

	rate, _, data := decodeFile(t, path)
	if rate != 16000 || len(data) != 0 {
		t.Errorf("decoded %d Hz with %d values, want 16000 Hz and none", rate, len(data))
	}
}
