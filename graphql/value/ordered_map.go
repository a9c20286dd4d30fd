package value

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// OrderedMap is the Map variant's backing store: an insertion-ordered string-keyed map, mirroring
// the ordering guarantee of the executor's own result maps. Unlike the executor's internal map,
// Set rejects a second write to an already-populated key, since the Response Value Map variant is
// built once, at construction time, and duplicate keys there indicate a resolver bug rather than
// a legitimate overwrite.
type OrderedMap struct {
	m     map[string]Value
	order []string
}

func NewOrderedMap() *OrderedMap {
	return &OrderedMap{m: map[string]Value{}}
}

// NewOrderedMapWithCapacity preallocates storage for n entries.
func NewOrderedMapWithCapacity(n int) *OrderedMap {
	return &OrderedMap{
		m:     make(map[string]Value, n),
		order: make([]string, 0, n),
	}
}

// Set inserts key=value. It panics if key has already been set; use Has to check first if an
// overwrite might legitimately occur.
func (m *OrderedMap) Set(key string, v Value) {
	if _, ok := m.m[key]; ok {
		panic(fmt.Sprintf("value: duplicate key %q in response map", key))
	}
	m.order = append(m.order, key)
	m.m[key] = v
}

func (m *OrderedMap) Has(key string) bool {
	_, ok := m.m[key]
	return ok
}

func (m *OrderedMap) Get(key string) (Value, bool) {
	v, ok := m.m[key]
	return v, ok
}

func (m *OrderedMap) Len() int {
	return len(m.order)
}

// Keys returns the keys in insertion order.
func (m *OrderedMap) Keys() []string {
	return m.order
}

// Interface converts the map to a map[string]interface{}, discarding order. Callers that need to
// preserve order for JSON encoding should use MarshalJSON instead.
func (m *OrderedMap) Interface() map[string]interface{} {
	out := make(map[string]interface{}, len(m.order))
	for _, k := range m.order {
		out[k] = m.m[k].Interface()
	}
	return out
}

// Equal performs a structural, order-insensitive comparison.
func (m *OrderedMap) Equal(other *OrderedMap) bool {
	if m == nil || other == nil {
		return m == other
	}
	if len(m.order) != len(other.order) {
		return false
	}
	for k, v := range m.m {
		ov, ok := other.m[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

func (m *OrderedMap) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, k := range m.order {
		if i > 0 {
			buf = append(buf, ',')
		}
		keyJSON, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		valueJSON, err := json.Marshal(m.m[k])
		if err != nil {
			return nil, err
		}
		buf = append(buf, keyJSON...)
		buf = append(buf, ':')
		buf = append(buf, valueJSON...)
	}
	return append(buf, '}'), nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case Null:
		return []byte("null"), nil
	case Bool:
		return json.Marshal(v.boolValue)
	case Int:
		return json.Marshal(v.intValue)
	case Float:
		return json.Marshal(v.floatValue)
	case String, Enum:
		return json.Marshal(v.stringValue)
	case Scalar:
		return json.Marshal(v.scalarValue)
	case List:
		return json.Marshal(v.listValue)
	case Map:
		return json.Marshal(v.mapValue)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = FromInterface(raw)
	return nil
}
