// SPDX-License-Identifier: EPL-2.0

// Package aac provides ADTS framing and decoding engines for audio.Pump.
//
// Engine decodes AAC with FAAD2 (github.com/llehouerou/go-faad2, running in
// wazero, no cgo). The decoder is configured from each frame's ADTS header
// through an AudioSpecificConfig built with mediacommon:
//
//	eng, _ := aac.NewEngine(aac.WithContext(ctx))
//	p, _ := audio.NewPump(eng, audio.WithSyncFunc(aac.FindFrame))
//
// ProbeEngine only parses headers. It is used to report stream format and
// duration without decoding.
//
// FindFrame is a stricter replacement for audio.FindSyncWord that also
// validates the header following the sync word, which avoids most false
// syncs inside frame payloads.
//
// The first frame FAAD2 decodes may produce no samples while the decoder
// primes; the pump treats that as an empty frame.
package aac
