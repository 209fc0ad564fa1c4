/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package engine

import (
	"errors"
	"fmt"

	"github.com/GaaraJWH/jstorm/pkg/window"
)

var (
	// ErrClosed is returned by every operation on a closed engine.
	ErrClosed = errors.New("window engine is closed")
	// ErrNotOpen is returned when events or ticks are handed to an engine which has not been opened.
	ErrNotOpen = errors.New("window engine is not open")
)

// FoldError is returned when the fold function fails for a (window, key) pair. The accumulator of that pair keeps
// its previous value, every other accumulator is untouched.
type FoldError struct {
	Window window.ID
	Key    string
	Err    error
}

func (e *FoldError) Error() string {
	return fmt.Sprintf("failed to fold event into window %s key %q, %s", window.FormatRange(e.Window), e.Key, e.Err)
}

func (e *FoldError) Unwrap() error {
	return e.Err
}

// EmissionError is returned when the emit callback fails. The window is still considered fired, retrying is up to
// the caller.
type EmissionError struct {
	Window window.ID
	Err    error
}

func (e *EmissionError) Error() string {
	return fmt.Sprintf("failed to emit window %s, %s", window.FormatRange(e.Window), e.Err)
}

func (e *EmissionError) Unwrap() error {
	return e.Err
}
