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

package trigger

// Result is the outcome of a trigger evaluation. It determines what happens with the window, for example whether the
// window state should be emitted, or the window should be discarded. The four values are exactly the combinations of
// the two facets fire and purge.
type Result int

const (
	// Continue takes no action on the window.
	Continue Result = iota
	// Fire emits the window state, all accumulators are retained.
	Fire
	// Purge clears the window state and discards the window without emitting it.
	Purge
	// FireAndPurge emits the window state and then discards the window.
	FireAndPurge
)

// resultOf maps the two facets back to the named result.
func resultOf(fire, purge bool) Result {
	switch {
	case fire && purge:
		return FireAndPurge
	case fire:
		return Fire
	case purge:
		return Purge
	default:
		return Continue
	}
}

// IsFire returns true if the window state has to be emitted.
func (r Result) IsFire() bool {
	return r == Fire || r == FireAndPurge
}

// IsPurge returns true if the window state has to be cleared.
func (r Result) IsPurge() bool {
	return r == Purge || r == FireAndPurge
}

func (r Result) String() string {
	switch r {
	case Continue:
		return "Continue"
	case Fire:
		return "Fire"
	case Purge:
		return "Purge"
	case FireAndPurge:
		return "FireAndPurge"
	default:
		return "Unknown"
	}
}

// Merge combines two results, e.g. the result of an element evaluation and a time evaluation. The merged result fires
// if either fires and purges if either purges, Continue is the identity.
func Merge(a, b Result) Result {
	return resultOf(a.IsFire() || b.IsFire(), a.IsPurge() || b.IsPurge())
}
