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

package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAlignDown(t *testing.T) {
	assert.True(t, time.Unix(0, 0).Equal(AlignDown(time.Unix(7, 0), 10*time.Second)))
	assert.True(t, time.Unix(10, 0).Equal(AlignDown(time.Unix(10, 0), 10*time.Second)))
	// 7 seconds does not divide the offset between year one and the epoch
	assert.True(t, time.Unix(14, 0).Equal(AlignDown(time.Unix(20, 0), 7*time.Second)))
	assert.True(t, time.Unix(-10, 0).Equal(AlignDown(time.Unix(-3, 0), 10*time.Second)))
}

func TestID(t *testing.T) {
	id := ID{Start: time.Unix(60, 0), End: time.Unix(120, 0)}
	assert.Equal(t, "60000000000-120000000000-", id.String())
	assert.True(t, id.Bounded())
	assert.False(t, ID{Start: time.Unix(60, 0), End: MaxTime, Slot: "slot-0"}.Bounded())
}

func TestFormatRange(t *testing.T) {
	id := ID{Start: time.Unix(60, 0).UTC(), End: time.Unix(120, 0).UTC()}
	assert.Equal(t, "[1970-01-01 00:01:00~1970-01-01 00:02:00]", FormatRange(id))

	open := ID{Start: time.Unix(60, 0).UTC(), End: MaxTime}
	assert.Equal(t, "[1970-01-01 00:01:00~∞]", FormatRange(open))
}

func TestStrategy_String(t *testing.T) {
	assert.Equal(t, "Fixed", Fixed.String())
	assert.Equal(t, "Sliding", Sliding.String())
	assert.Equal(t, "Accumulate", Accumulate.String())
	assert.Equal(t, "Unknown", Strategy(42).String())
}
