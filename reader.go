package geostore

import (
	"bytes"
	"iter"
	"sort"
)

// SortedIndexReader is the capability this package consumes from the
// physical index files. Implementations map keys to at most one value,
// support ordered forward scans from a seek key, and expose the string
// metadata written at build time. Implementations must be safe for
// concurrent reads; this package adds no locking of its own.
type SortedIndexReader interface {
	// Get returns the value stored under key, or ok=false when absent.
	Get(key []byte) (value []byte, ok bool, err error)

	// ScanFrom yields (key, value) pairs in key order, starting at the
	// first key >= seek.
	ScanFrom(seek []byte) iter.Seq2[[]byte, []byte]

	// Metadata returns a build-time metadata value by name.
	Metadata(name string) (string, bool)
}

// MemIndex is an immutable, sorted in-memory SortedIndexReader. It backs
// tests and small tooling; production snapshots come from real index files.
type MemIndex struct {
	entries []memEntry
	meta    map[string]string
}

type memEntry struct {
	key []byte
	val []byte
}

// NewMemIndex builds an index from a key->value map and optional metadata.
// The input maps are copied; the result never changes afterwards.
func NewMemIndex(kv map[string][]byte, meta map[string]string) *MemIndex {
	idx := &MemIndex{
		entries: make([]memEntry, 0, len(kv)),
		meta:    make(map[string]string, len(meta)),
	}
	for k, v := range kv {
		idx.entries = append(idx.entries, memEntry{key: []byte(k), val: bytes.Clone(v)})
	}
	sort.Slice(idx.entries, func(i, j int) bool {
		return bytes.Compare(idx.entries[i].key, idx.entries[j].key) < 0
	})
	for k, v := range meta {
		idx.meta[k] = v
	}
	return idx
}

// Len returns the number of entries.
func (m *MemIndex) Len() int { return len(m.entries) }

func (m *MemIndex) Get(key []byte) ([]byte, bool, error) {
	i := sort.Search(len(m.entries), func(i int) bool {
		return bytes.Compare(m.entries[i].key, key) >= 0
	})
	if i < len(m.entries) && bytes.Equal(m.entries[i].key, key) {
		return m.entries[i].val, true, nil
	}
	return nil, false, nil
}

func (m *MemIndex) ScanFrom(seek []byte) iter.Seq2[[]byte, []byte] {
	start := sort.Search(len(m.entries), func(i int) bool {
		return bytes.Compare(m.entries[i].key, seek) >= 0
	})
	return func(yield func([]byte, []byte) bool) {
		for i := start; i < len(m.entries); i++ {
			if !yield(m.entries[i].key, m.entries[i].val) {
				return
			}
		}
	}
}

func (m *MemIndex) Metadata(name string) (string, bool) {
	v, ok := m.meta[name]
	return v, ok
}
