// Package compare manages the client-persisted list of apartments selected
// for side-by-side comparison. The list is the only client-owned state on the
// whole site and never holds more than two ids.
package compare

// MaxEntries is the comparison capacity. Adding a third id evicts the oldest.
const MaxEntries = 2

// Store reads and writes the persisted compare list. The production store is
// cookie-backed; tests inject an in-memory one.
type Store interface {
	Get() []int64
	Set(ids []int64)
}

// Toggle removes id when present, otherwise appends it and keeps the last
// MaxEntries entries (oldest dropped first).
func Toggle(ids []int64, id int64) []int64 {
	if Contains(ids, id) {
		return remove(ids, id)
	}
	ids = append(append([]int64{}, ids...), id)
	if len(ids) > MaxEntries {
		ids = ids[len(ids)-MaxEntries:]
	}
	return ids
}

// Remove deletes id from the list, returning the list unchanged when absent.
func Remove(ids []int64, id int64) []int64 {
	return remove(ids, id)
}

// Contains reports whether id is in the list.
func Contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []int64, id int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// MemoryStore is a map-free in-memory Store for tests.
type MemoryStore struct {
	ids []int64
}

func (m *MemoryStore) Get() []int64 {
	return append([]int64{}, m.ids...)
}

func (m *MemoryStore) Set(ids []int64) {
	m.ids = append([]int64{}, ids...)
}
