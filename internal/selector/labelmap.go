package selector

import (
	"unicode/utf16"
)

const (
	hamtBits = 5
	hamtSize = 1 << hamtBits // 32
	hamtMask = hamtSize - 1
	maxShift = 30 // Max depth ~6 levels for 32-bit hash
)

// labelMap is a hash array mapped trie from label to case index.
// Lookups compare the full string, so labels whose hashes collide still
// resolve to their own index.
type labelMap struct {
	root  hamtNode
	count int
}

// hamtNode is a node in the HAMT
type hamtNode struct {
	bitmap   uint32 // which indices are populated
	contents []any  // *hamtEntry, *hamtNode or []*hamtEntry
}

type hamtEntry struct {
	hash  uint32
	label string
	index int
}

// Len returns the number of distinct labels.
func (m *labelMap) Len() int {
	return m.count
}

// Get returns the stored index for label.
func (m *labelMap) Get(label string) (int, bool) {
	return m.root.get(labelHash(label), label, 0)
}

// PutIfAbsent stores index for label unless the label is already present.
// It reports whether the label was added.
func (m *labelMap) PutIfAbsent(label string, index int) bool {
	added := m.root.putIfAbsent(&hamtEntry{hash: labelHash(label), label: label, index: index}, 0)
	if added {
		m.count++
	}
	return added
}

func (n *hamtNode) get(hash uint32, label string, shift uint) (int, bool) {
	idx := (hash >> shift) & hamtMask
	bit := uint32(1) << idx

	if n.bitmap&bit == 0 {
		return 0, false
	}

	pos := popcount(n.bitmap & (bit - 1))
	switch v := n.contents[pos].(type) {
	case *hamtEntry:
		if v.hash == hash && v.label == label {
			return v.index, true
		}
		return 0, false
	case *hamtNode:
		return v.get(hash, label, shift+hamtBits)
	case []*hamtEntry: // Collision bucket
		for _, e := range v {
			if e.hash == hash && e.label == label {
				return e.index, true
			}
		}
	}
	return 0, false
}

func (n *hamtNode) putIfAbsent(e *hamtEntry, shift uint) bool {
	idx := (e.hash >> shift) & hamtMask
	bit := uint32(1) << idx
	pos := popcount(n.bitmap & (bit - 1))

	if n.bitmap&bit == 0 {
		n.bitmap |= bit
		n.contents = append(n.contents, nil)
		copy(n.contents[pos+1:], n.contents[pos:])
		n.contents[pos] = e
		return true
	}

	switch v := n.contents[pos].(type) {
	case *hamtEntry:
		if v.hash == e.hash && v.label == e.label {
			return false // first occurrence wins
		}
		if shift >= maxShift {
			n.contents[pos] = []*hamtEntry{v, e}
			return true
		}
		child := &hamtNode{}
		child.putIfAbsent(v, shift+hamtBits)
		added := child.putIfAbsent(e, shift+hamtBits)
		n.contents[pos] = child
		return added

	case *hamtNode:
		return v.putIfAbsent(e, shift+hamtBits)

	case []*hamtEntry:
		for _, old := range v {
			if old.hash == e.hash && old.label == e.label {
				return false
			}
		}
		n.contents[pos] = append(v, e)
		return true
	}
	return false
}

// labelHash is the platform string hash: h = 31*h + c over UTF-16 code units.
// It is kept bit-compatible so that hash-colliding label pairs produced by
// compilers for that platform collide here too.
func labelHash(s string) uint32 {
	var h uint32
	for _, r := range s {
		if r >= 0x10000 {
			hi, lo := utf16.EncodeRune(r)
			h = 31*h + uint32(hi)
			h = 31*h + uint32(lo)
			continue
		}
		h = 31*h + uint32(r)
	}
	return h
}

func popcount(x uint32) int {
	x = x - ((x >> 1) & 0x55555555)
	x = (x & 0x33333333) + ((x >> 2) & 0x33333333)
	x = (x + (x >> 4)) & 0x0f0f0f0f
	x = x + (x >> 8)
	x = x + (x >> 16)
	return int(x & 0x3f)
}
