// SPDX-License-Identifier: EPL-2.0

package aac

import "errors"

var (
	ErrNoSyncWord          = errors.New("aac: no ADTS sync word")
	ErrTruncatedHeader     = errors.New("aac: truncated ADTS header")
	ErrInvalidLayer        = errors.New("aac: invalid ADTS layer")
	ErrInvalidSampleRate   = errors.New("aac: invalid sampling frequency index")
	ErrInvalidFrameLength  = errors.New("aac: invalid frame length")
	ErrTruncatedFrame      = errors.New("aac: truncated frame")
	ErrUnsupportedChannels = errors.New("aac: unsupported channel configuration")
	ErrWindowTooSmall      = errors.New("aac: output window too small")
	ErrEngineClosed        = errors.New("aac: engine closed")
)
