// SPDX-License-Identifier: EPL-2.0

package output

import "errors"

var (
	ErrOnly16Bit   = errors.New("only 16-bit playback is supported")
	ErrRateUnknown = errors.New("sample arrived before the rate was set")
)
