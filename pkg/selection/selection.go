// Package selection holds the bounded, ordered selection state behind each
// chart: which categories or entities are active and which palette color
// each one gets.
//
// A Set never grows past Capacity. Adding to a full set is rejected with a
// *CapacityError; no existing member is evicted. Colors are not stored: a
// key's color is the palette entry at its current position.
package selection

import (
	"errors"
	"fmt"
)

// Capacity is the maximum number of members of any selection.
const Capacity = 5

// Palette is the fixed color order assigned by insertion position.
var Palette = [Capacity]string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd"}

// ErrCapacityExceeded is wrapped by every *CapacityError.
var ErrCapacityExceeded = errors.New("selection capacity exceeded")

// CapacityError is returned when an addition would exceed Capacity. Its
// message is the user-facing warning.
type CapacityError struct {
	Noun  string // "types", "Pokémon"
	Limit int
	Key   string // the rejected key
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("Please select at most %d %s.", e.Limit, e.Noun)
}

func (e *CapacityError) Unwrap() error { return ErrCapacityExceeded }

// Outcome describes what a Toggle did.
type Outcome int

const (
	Added Outcome = iota
	Removed
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "rejected"
	}
}

// Set is an insertion-ordered set of keys bounded by Capacity. The zero
// value is an empty set with the noun "items".
type Set struct {
	noun string
	keys []string
}

// NewSet returns an empty set; noun names the members in capacity warnings.
func NewSet(noun string) *Set {
	return &Set{noun: noun}
}

func (s *Set) nounOrDefault() string {
	if s.noun == "" {
		return "items"
	}
	return s.noun
}

// Toggle removes key when present, otherwise adds it. A full set rejects the
// addition, returns a *CapacityError and stays unchanged.
func (s *Set) Toggle(key string) (Outcome, error) {
	if s.Remove(key) {
		return Removed, nil
	}
	if err := s.Add(key); err != nil {
		return Rejected, err
	}
	return Added, nil
}

// Add appends key. Adding a present key is a no-op.
func (s *Set) Add(key string) error {
	if s.Has(key) {
		return nil
	}
	if len(s.keys) >= Capacity {
		return &CapacityError{Noun: s.nounOrDefault(), Limit: Capacity, Key: key}
	}
	s.keys = append(s.keys, key)
	return nil
}

// Remove deletes key and reports whether it was present.
func (s *Set) Remove(key string) bool {
	i := s.Index(key)
	if i < 0 {
		return false
	}
	s.keys = append(s.keys[:i], s.keys[i+1:]...)
	return true
}

// Replace clears the set and adds keys in order. Keys past Capacity are
// rejected with a *CapacityError; the ones that fit are kept.
func (s *Set) Replace(keys ...string) error {
	s.Clear()
	for _, k := range keys {
		if err := s.Add(k); err != nil {
			return err
		}
	}
	return nil
}

// Clear empties the set.
func (s *Set) Clear() {
	s.keys = s.keys[:0]
}

// Has reports membership. A control bound to key should show Has(key) after
// every toggle, which is how a rejected addition gets unchecked again.
func (s *Set) Has(key string) bool {
	return s.Index(key) >= 0
}

// Index returns the insertion position of key, or -1.
func (s *Set) Index(key string) int {
	for i, k := range s.keys {
		if k == key {
			return i
		}
	}
	return -1
}

// Len returns the member count.
func (s *Set) Len() int { return len(s.keys) }

// Full reports whether another addition would be rejected.
func (s *Set) Full() bool { return len(s.keys) >= Capacity }

// Keys returns the members in insertion order.
func (s *Set) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// ColorOf returns the palette color at key's position.
func (s *Set) ColorOf(key string) (string, bool) {
	i := s.Index(key)
	if i < 0 {
		return "", false
	}
	return Palette[i], true
}

// Colors returns key → color for every member.
func (s *Set) Colors() map[string]string {
	out := make(map[string]string, len(s.keys))
	for i, k := range s.keys {
		out[k] = Palette[i]
	}
	return out
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	return &Set{noun: s.noun, keys: s.Keys()}
}
