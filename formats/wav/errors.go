// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"

	"github.com/ik5/aacpump/internal/pcmenc"
)

var (
	ErrUnsupportedWavLayout  = errors.New("unsupported WAV layout")
	ErrOnlyPCM16bitSupported = errors.New("only PCM 16-bit supported")

	// ErrFormatLocked is returned when the rate or channel count changes
	// after samples were written.
	ErrFormatLocked = pcmenc.ErrFormatLocked
)
