// SPDX-License-Identifier: EPL-2.0

// Package output plays decoded audio on the local sound device through
// github.com/ebitengine/oto/v3.
//
// Oto is an audio.Sink. It declines samples while its queue is full, so a
// driver loop that retries declined samples runs at playback speed. When
// the pump is done, call Flush until it stops returning audio.ErrSinkBusy
// and then Close.
package output
