// SPDX-License-Identifier: EPL-2.0

// Package audio moves compressed AAC frames from a byte stream into a
// decoding engine and hands the decoded PCM to a sink one sample at a time.
//
// The package contains:
//   - FrameSynchronizer, a fixed-size byte window that keeps a frame boundary at offset zero
//   - Pump, the cooperative decode and delivery loop
//   - Sink, Engine and ByteSource interfaces the pump is wired with
//   - Resampler and MonoMixer, sinks that transform samples on their way to another sink
//   - Registry for engine factories
//
// # Driving a Pump
//
// Every call to Advance does at most one unit of work and never blocks:
//
//	p, _ := audio.NewPump(engine)
//	defer p.Close()
//
//	if err := p.Start(src, sink); err != nil {
//	    return err
//	}
//	for p.Advance() {
//	}
//
// When the sink declines a sample, Advance returns true and the same sample
// is offered again on the next call. A driver that wants to avoid spinning
// can watch Stats().Declined and sleep between calls.
//
// # Frame Synchronization
//
// Frames start at the 12-bit ADTS sync word 0xFFF. A 0xFF byte at the end of
// the buffer is kept across refills so a sync word split by a read boundary
// is still found. The matcher can be replaced with WithSyncFunc.
//
// # Format Changes
//
// The sink is told the bit depth once on Start, and the sample rate and
// channel count whenever they differ from the values last announced.
// Samples are always delivered as 16-bit stereo pairs: mono is duplicated to
// both sides, wider layouts contribute their first two channels.
//
// # Sink Chains
//
//	sink := audio.ResampleSink(audio.MonoSink(&audio.BufferSink{}), 16000)
//
// Sinks that buffer internally implement Flusher, which the driver calls once
// the pump finishes.
package audio
