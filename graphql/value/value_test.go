package value

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedMap_PreservesInsertionOrder(t *testing.T) {
	m := NewOrderedMap()
	m.Set("z", NewInt(1))
	m.Set("a", NewInt(2))
	m.Set("m", NewInt(3))
	assert.Equal(t, []string{"z", "a", "m"}, m.Keys())

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":2,"m":3}`, string(b))
}

func TestOrderedMap_DuplicateKeyPanics(t *testing.T) {
	m := NewOrderedMap()
	m.Set("a", NewInt(1))
	assert.Panics(t, func() {
		m.Set("a", NewInt(2))
	})
}

func TestValue_Equal(t *testing.T) {
	a := NewList([]Value{NewInt(1), NewString("x")})
	b := NewList([]Value{NewInt(1), NewString("x")})
	c := NewList([]Value{NewInt(1), NewString("y")})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestValue_FromInterfaceRoundTrip(t *testing.T) {
	in := map[string]interface{}{
		"name":  "a",
		"count": 3,
		"tags":  []interface{}{"x", "y"},
	}
	v := FromInterface(in)
	m, ok := v.Map()
	require.True(t, ok)
	name, ok := m.Get("name")
	require.True(t, ok)
	s, ok := name.String()
	require.True(t, ok)
	assert.Equal(t, "a", s)
}
