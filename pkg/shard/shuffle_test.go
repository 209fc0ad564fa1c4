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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShuffle_Unit(t *testing.T) {
	tests := []struct {
		name  string
		units int
		keys  int
	}{
		{name: "KeyCountGreaterThanUnitCount", units: 4, keys: 10000},
		{name: "UnitCountGreaterThanKeyCount", units: 100, keys: 10},
		{name: "SingleUnit", units: 1, keys: 100},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := NewShuffle(test.units)
			hits := make(map[int]int)
			for i := 0; i < test.keys; i++ {
				key := fmt.Sprintf("key_%d", i)
				u := s.Unit(key)
				assert.GreaterOrEqual(t, u, 0)
				assert.Less(t, u, test.units)
				assert.Equal(t, u, s.Unit(key))
				hits[u]++
			}
			if test.keys > test.units*100 {
				assert.Len(t, hits, test.units)
			}
		})
	}
}
