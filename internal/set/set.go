// Package set provides a minimal generic set.
package set

type Set[T comparable] map[T]struct{}

// Add inserts v, reporting whether it was absent before.
func (s Set[T]) Add(v T) bool {
	if s.Has(v) {
		return false
	}
	s[v] = struct{}{}
	return true
}

func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

func (s Set[T]) Delete(v T) {
	delete(s, v)
}
