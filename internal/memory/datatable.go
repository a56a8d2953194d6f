package memory

import (
	"iter"
	"maps"
	"slices"
)

// DataTable holds rows of a single type under string names. The zero value
// is ready to use and, like Blackboard, it is not safe for concurrent use.
type DataTable[T any] struct {
	rows map[string]T
}

// Len returns the number of rows.
func (d *DataTable[T]) Len() int {
	return len(d.rows)
}

// Has reports whether a row named name exists.
func (d *DataTable[T]) Has(name string) bool {
	_, ok := d.rows[name]
	return ok
}

// Get returns the row named name.
func (d *DataTable[T]) Get(name string) (T, bool) {
	v, ok := d.rows[name]
	return v, ok
}

// Set stores value under name, replacing any existing row.
func (d *DataTable[T]) Set(name string, value T) {
	if d.rows == nil {
		d.rows = make(map[string]T)
	}
	d.rows[name] = value
}

// With mutates the row named name in place. It reports false, without
// calling fn, when there is no such row.
func (d *DataTable[T]) With(name string, fn func(row *T)) bool {
	v, ok := d.rows[name]
	if !ok {
		return false
	}
	fn(&v)
	d.rows[name] = v
	return true
}

// Remove deletes the row named name and reports whether it existed.
func (d *DataTable[T]) Remove(name string) bool {
	if _, ok := d.rows[name]; !ok {
		return false
	}
	delete(d.rows, name)
	return true
}

// Clear removes every row.
func (d *DataTable[T]) Clear() {
	clear(d.rows)
}

// Keys returns the row names in sorted order.
func (d *DataTable[T]) Keys() []string {
	if len(d.rows) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(d.rows))
}

// All iterates over the rows in name order.
func (d *DataTable[T]) All() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for _, name := range d.Keys() {
			if !yield(name, d.rows[name]) {
				return
			}
		}
	}
}
