// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"github.com/ik5/aacpump/audio"
)

// Call is one configuration call received by a RecordingSink.
type Call struct {
	Name  string // "begin", "bits", "rate" or "channels"
	Value int
}

// RecordingSink keeps every accepted sample and configuration call.
type RecordingSink struct {
	Samples []audio.Sample
	Calls   []Call

	// Offers counts ConsumeSample calls, accepted or not.
	Offers int

	// Decline, when set, is asked for every offer (numbered from zero);
	// returning true declines it.
	Decline func(offer int, s audio.Sample) bool

	BeginErr error
	BitsErr  error
}

func (r *RecordingSink) Begin() error {
	r.Calls = append(r.Calls, Call{Name: "begin"})
	return r.BeginErr
}

func (r *RecordingSink) SetBitsPerSample(bits int) error {
	r.Calls = append(r.Calls, Call{Name: "bits", Value: bits})
	return r.BitsErr
}

func (r *RecordingSink) SetRate(hz int) error {
	r.Calls = append(r.Calls, Call{Name: "rate", Value: hz})
	return nil
}

func (r *RecordingSink) SetChannels(n int) error {
	r.Calls = append(r.Calls, Call{Name: "channels", Value: n})
	return nil
}

func (r *RecordingSink) ConsumeSample(s audio.Sample) bool {
	offer := r.Offers
	r.Offers++

	if r.Decline != nil && r.Decline(offer, s) {
		return false
	}
	r.Samples = append(r.Samples, s)
	return true
}

// Values returns the arguments of every call named name, in order.
func (r *RecordingSink) Values(name string) []int {
	var out []int
	for _, c := range r.Calls {
		if c.Name == name {
			out = append(out, c.Value)
		}
	}
	return out
}

// DeclineFirst declines the first n offers.
func DeclineFirst(n int) func(int, audio.Sample) bool {
	return func(offer int, _ audio.Sample) bool { return offer < n }
}
