// SPDX-License-Identifier: EPL-2.0

// Package aiff writes decoded streams as AIFF (Audio Interchange File
// Format) using github.com/go-audio/aiff.
//
// AIFF is the big-endian sibling of WAV and is the usual uncompressed
// format on macOS. The Sink accepts samples from a pump and encodes them as
// 16-bit PCM, mono or stereo:
//
//	f, _ := os.Create("out.aiff")
//	sink := aiff.NewSink(f)
//	...
//	sink.Close() // writes the final chunk sizes; f stays open
//
// The sample rate and channel count are taken from the stream and cannot
// change once the first sample is written.
package aiff
