// SPDX-License-Identifier: EPL-2.0

package aac

import "github.com/ik5/aacpump/audio"

const (
	FormatAAC   = "aac"
	FormatProbe = "probe"
)

// Register adds the FAAD2 engine and the probe engine to reg.
func Register(reg *audio.Registry, opts ...Option) {
	reg.Register(FormatAAC, func() (audio.Engine, error) {
		return NewEngine(opts...)
	})
	reg.Register(FormatProbe, func() (audio.Engine, error) {
		return NewProbeEngine(), nil
	})
}
