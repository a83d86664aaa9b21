package world

import (
	"bytes"
	"cmp"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/0x5844/collision-2d/collision"
)

// Pair is an unordered body pair, stored with the lower id first.
type Pair struct {
	A, B uuid.UUID
}

func NewPair(a, b uuid.UUID) Pair {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Key hashes the pair; equal for both argument orders. It orders pairs whose
// map iteration order is otherwise random. Sets are keyed by Pair itself.
func (p Pair) Key() uint64 {
	var buf [32]byte
	copy(buf[:16], p.A[:])
	copy(buf[16:], p.B[:])
	return xxhash.Sum64(buf[:])
}

// Contact is one overlapping pair found during a step, in scan order.
type Contact struct {
	A, B uuid.UUID
	MTV  collision.MTV
}

type contactTracker struct {
	active      map[Pair]struct{}
	unsupported map[Pair]struct{}
}

func newContactTracker() *contactTracker {
	return &contactTracker{
		active:      make(map[Pair]struct{}),
		unsupported: make(map[Pair]struct{}),
	}
}

// update replaces the active set and reports which pairs started or stopped
// touching. Began follows scan order; ended is sorted by Key.
func (t *contactTracker) update(contacts []Contact) (began, ended []Pair) {
	next := make(map[Pair]struct{}, len(contacts))
	for _, c := range contacts {
		p := NewPair(c.A, c.B)
		next[p] = struct{}{}
		if _, ok := t.active[p]; !ok {
			began = append(began, p)
		}
	}
	for p := range t.active {
		if _, ok := next[p]; !ok {
			ended = append(ended, p)
		}
	}
	slices.SortFunc(ended, func(a, b Pair) int { return cmp.Compare(a.Key(), b.Key()) })
	t.active = next
	return began, ended
}

// firstUnsupported reports true the first time a pair is seen unsupported.
func (t *contactTracker) firstUnsupported(p Pair) bool {
	if _, seen := t.unsupported[p]; seen {
		return false
	}
	t.unsupported[p] = struct{}{}
	return true
}

func (t *contactTracker) forget(id uuid.UUID) {
	for p := range t.active {
		if p.A == id || p.B == id {
			delete(t.active, p)
		}
	}
	for p := range t.unsupported {
		if p.A == id || p.B == id {
			delete(t.unsupported, p)
		}
	}
}
