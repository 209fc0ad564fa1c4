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

package expr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_compile_expression(t *testing.T) {
	t.Run("test a simple compile case", func(t *testing.T) {
		p, err := Compile(`json(payload).a`)
		require.NoError(t, err)
		b, err := p.EvalString(NewEnv("", []byte(`{"a": "b"}`), time.Time{}))
		assert.NoError(t, err)
		assert.Equal(t, "b", b)
	})

	t.Run("test nested json compile case", func(t *testing.T) {
		p, err := Compile(`json(payload).a.b`)
		require.NoError(t, err)
		c, err := p.EvalString(NewEnv("", `{"a": {"b": "c"}}`, time.Time{}))
		assert.NoError(t, err)
		assert.Equal(t, "c", c)
	})

	t.Run("test nested json compile case, list of items", func(t *testing.T) {
		p, err := Compile(`json(payload).item[1].id`)
		require.NoError(t, err)
		id, err := p.EvalString(NewEnv("", []byte(`{"test": 21, "item": [{"id": 1, "name": "bala"},{"id": 2, "name": "bala"}]}`), time.Time{}))
		assert.NoError(t, err)
		assert.Equal(t, "2", id)
	})

	t.Run("test map payload with dotted keys", func(t *testing.T) {
		p, err := Compile(`payload.user.region`)
		require.NoError(t, err)
		r, err := p.EvalString(NewEnv("", map[string]interface{}{"user.region": "eu", "user.id": 1}, time.Time{}))
		assert.NoError(t, err)
		assert.Equal(t, "eu", r)
	})

	t.Run("test key and sprig", func(t *testing.T) {
		p, err := Compile(`sprig.upper(key)`)
		require.NoError(t, err)
		k, err := p.EvalString(NewEnv("word", nil, time.Time{}))
		assert.NoError(t, err)
		assert.Equal(t, "WORD", k)
	})

	t.Run("test invalid expression", func(t *testing.T) {
		_, err := Compile(`ab\na`)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unable to compile expression")
	})

	t.Run("test runtime failure", func(t *testing.T) {
		p, err := Compile(`json(payload).a`)
		require.NoError(t, err)
		_, err = p.EvalString(NewEnv("", "abc", time.Time{}))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unable to evaluate expression")
	})
}

func Test_eval_EvalBool(t *testing.T) {
	good, err := Compile(`json(payload).a == "b"`)
	require.NoError(t, err)
	a, err := good.EvalBool(NewEnv("", []byte(`{"a": "b"}`), time.Time{}))
	assert.NoError(t, err)
	assert.True(t, a)
	a, err = good.EvalBool(NewEnv("", []byte(`{"a": "c"}`), time.Time{}))
	assert.NoError(t, err)
	assert.False(t, a)

	notBool, err := Compile(`json(payload).a`)
	require.NoError(t, err)
	_, err = notBool.EvalBool(NewEnv("", []byte(`{"a": "b"}`), time.Time{}))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unable to cast expression result")
}

func Test_eval_json(t *testing.T) {
	t.Run("test nil", func(t *testing.T) {
		m := _json(nil)
		assert.Nil(t, m)
	})

	t.Run("test invalid json bytes", func(t *testing.T) {
		assert.Panics(t, func() { _json([]byte("abc")) })
	})

	t.Run("test valid string", func(t *testing.T) {
		m := _json(`{"a": "b"}`)
		assert.Equal(t, 1, len(m))
		assert.Equal(t, "b", m["a"])
	})

	t.Run("test default panic", func(t *testing.T) {
		assert.Panics(t, func() { _json(222) })
	})
}

func Test_eval_int(t *testing.T) {
	assert.Equal(t, 1, _int([]byte("1")))
	assert.Equal(t, 1, _int("1"))
	assert.Equal(t, 1, _int(float64(1.2)))
	assert.Equal(t, 1, _int(1))
	assert.Panics(t, func() { _int("") })
	assert.Panics(t, func() { _int(time.Second) })
}

func Test_eval_string(t *testing.T) {
	assert.Equal(t, "a", _string("a"))
	assert.Equal(t, "a", _string([]byte("a")))
	assert.Equal(t, "444", _string(444))
	assert.Equal(t, "", _string(nil))
}

func Test_getFuncMap(t *testing.T) {
	a := getFuncMap(map[string]interface{}{"a": "b"})
	assert.Contains(t, a, "a")
	assert.NotContains(t, a, "b")
	assert.Contains(t, a, "string")
	assert.Contains(t, a, "int")
	assert.Contains(t, a, "json")
	assert.Contains(t, a, "sprig")
}

func TestExpand(t *testing.T) {
	m := map[string]interface{}{
		"name": "test",
		"a":    "2",
		"a.b":  "3",
		"a.c":  "4",
	}
	m1 := Expand(m)
	assert.IsType(t, m1["a"], m1)
	assert.Len(t, m1["a"], 2)
	assert.Equal(t, "test", m1["name"])
	c1 := m1["a"].(map[string]interface{})
	assert.Equal(t, "3", c1["b"])
	assert.Equal(t, "4", c1["c"])
}
