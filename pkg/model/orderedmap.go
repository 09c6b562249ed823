package model

// OrderedMap is a string-keyed map that preserves insertion order.
// Setting an existing key updates its value in place without moving it.
// The zero value is not usable; create instances with NewOrderedMap.
type OrderedMap[V any] struct {
	keys  []string
	index map[string]V
}

// NewOrderedMap creates an empty ordered map.
func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{index: make(map[string]V)}
}

// Set stores a value under key, appending the key if it is new.
func (m *OrderedMap[V]) Set(key string, value V) {
	if _, exists := m.index[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.index[key] = value
}

// Get returns the value for key and whether it exists.
func (m *OrderedMap[V]) Get(key string) (V, bool) {
	v, ok := m.index[key]
	return v, ok
}

// Has reports whether key is present.
func (m *OrderedMap[V]) Has(key string) bool {
	_, ok := m.index[key]
	return ok
}

// Delete removes key and returns its value and whether it was present.
func (m *OrderedMap[V]) Delete(key string) (V, bool) {
	v, ok := m.index[key]
	if !ok {
		return v, false
	}
	delete(m.index, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return v, true
}

// Len returns the number of entries.
func (m *OrderedMap[V]) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order. The slice is a copy.
func (m *OrderedMap[V]) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Values returns the values in insertion order.
func (m *OrderedMap[V]) Values() []V {
	values := make([]V, 0, len(m.keys))
	for _, k := range m.keys {
		values = append(values, m.index[k])
	}
	return values
}
