package executor

import (
	"bytes"
	"encoding/json"
)

type OrderedMapItem struct {
	Key   string
	Value interface{}
}

type OrderedMap struct {
	items []OrderedMapItem
	index map[string]int
}

func NewOrderedMap() *OrderedMap {
	return &OrderedMap{
		index: map[string]int{},
	}
}

// NewOrderedMapWithLength preallocates n slots. Callers populate them by index via Set, which
// lets concurrently completing fields land in their original response-key order regardless of
// completion order.
func NewOrderedMapWithLength(n int) *OrderedMap {
	return &OrderedMap{
		items: make([]OrderedMapItem, n),
		index: make(map[string]int, n),
	}
}

func (m *OrderedMap) Append(key string, value interface{}) {
	m.index[key] = len(m.items)
	m.items = append(m.items, OrderedMapItem{Key: key, Value: value})
}

func (m *OrderedMap) Set(i int, key string, value interface{}) {
	m.items[i] = OrderedMapItem{Key: key, Value: value}
	m.index[key] = i
}

func (m *OrderedMap) Get(key string) (interface{}, bool) {
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.items[i].Value, true
}

func (m *OrderedMap) Len() int {
	return len(m.items)
}

func (m *OrderedMap) Keys() []string {
	keys := make([]string, len(m.items))
	for i, item := range m.items {
		keys[i] = item.Key
	}
	return keys
}

func (m *OrderedMap) Items() []OrderedMapItem {
	return m.items
}

func (m *OrderedMap) MarshalJSON() ([]byte, error) {
	pairs := make([][]byte, len(m.items))
	for i, item := range m.items {
		keyJSON, err := json.Marshal(item.Key)
		if err != nil {
			return nil, err
		}
		valueJSON, err := json.Marshal(item.Value)
		if err != nil {
			return nil, err
		}
		pairs[i] = bytes.Join([][]byte{keyJSON, valueJSON}, []byte{':'})
	}
	return append(append([]byte{'{'}, bytes.Join(pairs, []byte{','})...), '}'), nil
}
