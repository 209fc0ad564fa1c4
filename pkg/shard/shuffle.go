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

package shard

import (
	"github.com/spaolacci/murmur3"
)

// Shuffle maps grouping keys onto processing units, a key is always mapped onto the same unit. It is safe for
// concurrent use.
type Shuffle struct {
	units uint64
}

// NewShuffle returns a shuffle over the given number of units.
func NewShuffle(units int) *Shuffle {
	return &Shuffle{
		units: uint64(units),
	}
}

// Unit returns the index of the unit owning the key.
func (s *Shuffle) Unit(key string) int {
	// hash of the key mod the number of units decides which unit it belongs to
	return int(s.generateHash(key) % s.units)
}

func (s *Shuffle) generateHash(key string) uint64 {
	return murmur3.Sum64([]byte(key))
}
