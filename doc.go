// SPDX-License-Identifier: EPL-2.0

// Package aacpump streams ADTS AAC through a decoder and into PCM sinks.
//
// The work is done by audio.Pump, which moves one sample per call so it can
// be driven from any loop. This package adds a reference driver and a pair
// of convenience functions on top.
//
// # Quick Start
//
// Decode a file to 16-bit PCM in memory:
//
//	eng, _ := aac.NewEngine()
//	f, _ := os.Open("song.aac")
//	pcm, format, err := aacpump.DecodeToPCM16(ctx, eng, f, audio.WithSyncFunc(aac.FindFrame))
//
// Or resample to 8 kHz mono on the way:
//
//	pcm, rate, err := aacpump.ResampleToMono16(ctx, eng, f, 8000)
//
// # Driving a Pump
//
// Run calls Advance until the stream ends, backs off while the sink
// declines samples, and flushes sinks that buffer:
//
//	p, _ := audio.NewPump(eng)
//	p.Start(src, sink)
//	err := aacpump.Run(ctx, p, aacpump.WithIdle(5*time.Millisecond))
//
// # Packages
//
//   - audio: pump, frame synchronizer, sink chain building blocks
//   - formats/aac: FAAD2 engine, ADTS header parsing, probe engine
//   - formats/wav, formats/aiff: file sinks
//   - output: sound card playback via oto
package aacpump
