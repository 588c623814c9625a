package util

import (
	"sort"
	"strings"
)

// StringSet is a map[string]bool with set operations added. The zero value is
// a nil map and must not be added to; use NewStringSet or StringSetOf.
type StringSet map[string]bool

// NewStringSet creates a StringSet containing the keys of every given map.
func NewStringSet(of ...map[string]bool) StringSet {
	s := StringSet{}
	for _, m := range of {
		for k := range m {
			s.Add(k)
		}
	}
	return s
}

// StringSetOf creates a StringSet from the items in a slice.
func StringSetOf(sl []string) StringSet {
	s := StringSet{}

	for i := range sl {
		s.Add(sl[i])
	}

	return s
}

func (s StringSet) Copy() StringSet {
	newS := make(StringSet, len(s))

	for k := range s {
		newS[k] = true
	}

	return newS
}

// Intersection returns a new set that contains the elements that are in both
// s and o.
func (s StringSet) Intersection(o StringSet) StringSet {
	newSet := NewStringSet()

	for k := range s {
		if o.Has(k) {
			newSet.Add(k)
		}
	}

	return newSet
}

// Difference returns a new set that contains the elements that are in s but not
// in o.
func (s StringSet) Difference(o StringSet) StringSet {
	newSet := NewStringSet()

	for k := range s {
		if !o.Has(k) {
			newSet.Add(k)
		}
	}

	return newSet
}

func (s StringSet) DisjointWith(o StringSet) bool {
	for k := range s {
		if o.Has(k) {
			return false
		}
	}
	return true
}

func (s StringSet) Empty() bool {
	return s.Len() == 0
}

func (s StringSet) Has(value string) bool {
	_, has := s[value]
	return has
}

func (s StringSet) Add(value string) {
	s[value] = true
}

func (s StringSet) Remove(value string) {
	delete(s, value)
}

func (s StringSet) Len() int {
	return len(s)
}

// All returns whether every element in sl is in the set. An empty slice gives
// true.
func (s StringSet) All(sl []string) bool {
	for i := range sl {
		if !s.Has(sl[i]) {
			return false
		}
	}
	return true
}

// Equal returns whether two sets have the same items.
func (s StringSet) Equal(o any) bool {
	other, ok := o.(StringSet)
	if !ok {
		otherPtr, ok := o.(*StringSet)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if s.Len() != other.Len() {
		return false
	}

	for k := range s {
		if !other.Has(k) {
			return false
		}
	}

	return true
}

// Elements returns the elements of s as a slice, sorted alphabetically.
func (s StringSet) Elements() []string {
	sl := make([]string, 0, len(s))

	for item := range s {
		sl = append(sl, item)
	}

	sort.Strings(sl)
	return sl
}

// String shows the contents of the set. Items are alphabetized.
func (s StringSet) String() string {
	return "{" + strings.Join(s.Elements(), ", ") + "}"
}
