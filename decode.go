// SPDX-License-Identifier: EPL-2.0

package aacpump

import (
	"context"
	"fmt"
	"io"

	"github.com/ik5/aacpump/audio"
)

// Format describes PCM returned by DecodeToPCM16.
type Format struct {
	SampleRate int
	Channels   int // 1 or 2
}

// DecodeToPCM16 decodes all of r with eng and returns interleaved 16-bit
// samples. eng is closed before returning.
//
// Streams with more than two channels come back as stereo. If the stream
// changes format midway the samples are still concatenated and Format
// reports the last one.
func DecodeToPCM16(ctx context.Context, eng audio.Engine, r io.Reader, opts ...audio.Option) ([]int16, Format, error) {
	sink := &audio.BufferSink{}
	if err := pumpAll(ctx, eng, r, sink, opts); err != nil {
		return nil, Format{}, err
	}

	return sink.Samples(), Format{
		SampleRate: sink.SampleRate(),
		Channels:   sink.OutputChannels(),
	}, nil
}

// ResampleToMono16 decodes all of r, resamples it to rate and mixes it
// down to mono. A rate of zero keeps the source rate. It returns the
// samples and their rate. eng is closed before returning.
func ResampleToMono16(ctx context.Context, eng audio.Engine, r io.Reader, rate int, opts ...audio.Option) ([]int16, int, error) {
	sink := &audio.BufferSink{}
	chain := audio.ResampleSink(audio.MonoSink(sink), rate)

	if err := pumpAll(ctx, eng, r, chain, opts); err != nil {
		return nil, 0, err
	}
	return sink.Samples(), sink.SampleRate(), nil
}

func pumpAll(ctx context.Context, eng audio.Engine, r io.Reader, sink audio.Sink, opts []audio.Option) (err error) {
	p, err := audio.NewPump(eng, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := p.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := p.Start(audio.NewReaderSource(r), sink); err != nil {
		return fmt.Errorf("start pump: %w", err)
	}
	return Run(ctx, p)
}
