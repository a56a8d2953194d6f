// Package memory provides agent memories usable as the memory type of any
// decision maker: Blackboard, an untyped key/value store, and DataTable, a
// table of typed rows.
package memory

import (
	"maps"
	"slices"
)

// Blackboard is a key/value store for agent state.
//
// Usage: Create with new(Blackboard). The internal map is lazily initialized
// on the first write. A Blackboard has a single writer at a time, the same
// as any other decision maker memory, and is not safe for concurrent use.
type Blackboard struct {
	data map[string]any
}

func (b *Blackboard) init() {
	if b.data == nil {
		b.data = make(map[string]any)
	}
}

// Get retrieves a value from the blackboard.
// Returns nil if the key doesn't exist.
func (b *Blackboard) Get(key string) any {
	return b.data[key]
}

// Set stores a value in the blackboard.
func (b *Blackboard) Set(key string, value any) {
	b.init()
	b.data[key] = value
}

// Has returns true if the key exists in the blackboard.
func (b *Blackboard) Has(key string) bool {
	_, ok := b.data[key]
	return ok
}

// Delete removes a key from the blackboard.
func (b *Blackboard) Delete(key string) {
	delete(b.data, key)
}

// Keys returns all keys in sorted order.
func (b *Blackboard) Keys() []string {
	if len(b.data) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(b.data))
}

// Clear removes all entries from the blackboard.
func (b *Blackboard) Clear() {
	clear(b.data)
}

// Len returns the number of keys in the blackboard.
func (b *Blackboard) Len() int {
	return len(b.data)
}

// Snapshot returns a shallow copy of the blackboard data. It is never nil,
// so it can be handed to expression environments directly.
//
// Mutable values (slices, maps, pointers) are shared with the blackboard.
func (b *Blackboard) Snapshot() map[string]any {
	result := make(map[string]any, len(b.data))
	maps.Copy(result, b.data)
	return result
}

// Value returns the value under key when it holds a T.
func Value[T any](b *Blackboard, key string) (T, bool) {
	v, ok := b.Get(key).(T)
	return v, ok
}

// Float returns the value under key as a float64, converting any Go
// integer or float type. Missing or non-numeric values yield 0, false.
func (b *Blackboard) Float(key string) (float64, bool) {
	return ToFloat(b.Get(key))
}

// Bool returns the value under key when it is a bool. Missing keys and
// other types yield false.
func (b *Blackboard) Bool(key string) bool {
	v, _ := b.Get(key).(bool)
	return v
}

// String returns the value under key when it is a string.
func (b *Blackboard) String(key string) string {
	v, _ := b.Get(key).(string)
	return v
}

// ToFloat converts Go numeric values to float64. Bools convert to 1 or 0.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
