// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	ErrNilSource      = errors.New("source is nil")
	ErrNilSink        = errors.New("sink is nil")
	ErrNilEngine      = errors.New("engine is nil")
	ErrSourceNotOpen  = errors.New("source is not open")
	ErrAlreadyRunning = errors.New("pump is already running")
	ErrSinkBusy       = errors.New("sink is busy")
	ErrUnknownEngine  = errors.New("unknown engine")
)

// UnknownEngineError is returned by Registry.New for an unregistered key.
type UnknownEngineError struct {
	Format string
}

func (e *UnknownEngineError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownEngine, e.Format)
}

func (e *UnknownEngineError) Unwrap() error { return ErrUnknownEngine }
