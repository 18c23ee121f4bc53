// SPDX-License-Identifier: EPL-2.0

// Package wav writes 16-bit PCM WAV output for decoded streams.
//
// Two sinks are provided. Sink encodes through github.com/go-audio/wav and
// needs an io.WriteSeeker, because the RIFF sizes are patched in on Close:
//
//	f, _ := os.Create("out.wav")
//	sink := wav.NewSink(f)
//	p.Start(src, sink)
//	for p.Advance() {
//	}
//	sink.Close()
//	f.Close()
//
// StreamSink holds the samples in memory and writes the file in one go on
// Close, so it also works for pipes and stdout.
//
// WriteWAV16 writes a complete file from interleaved samples.
//
// # Format
//
// Output is always PCM 16-bit, mono or stereo. Streams with more than two
// channels arrive as stereo because the pump only hands over the first
// two. The rate and channel count are fixed by the first sample; later
// changes fail with ErrFormatLocked.
package wav
