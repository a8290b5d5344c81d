package ds

import "container/list"

// Set is a generic set. Implementations are not safe for concurrent use.
type Set[T comparable] interface {
	Add(e T) Set[T]
	Remove(e T) Set[T]
	RemoveBatch(elements []T) Set[T]
	Has(e T) bool
	Size() int
	Keys() []T
	Clear()
}

// OrderedSet iterates in first-insertion order; re-adding a member keeps its position
type OrderedSet[T comparable] struct {
	index map[T]*list.Element
	order *list.List
}

func NewOrderedSet[T comparable]() Set[T] {
	return &OrderedSet[T]{index: make(map[T]*list.Element), order: list.New()}
}

func (s *OrderedSet[T]) Add(e T) Set[T] {
	if _, ok := s.index[e]; !ok {
		s.index[e] = s.order.PushBack(e)
	}
	return s
}

func (s *OrderedSet[T]) Remove(e T) Set[T] {
	if el, ok := s.index[e]; ok {
		s.order.Remove(el)
		delete(s.index, e)
	}
	return s
}

// RemoveBatch removes every listed element; elements not in the set are ignored
func (s *OrderedSet[T]) RemoveBatch(elements []T) Set[T] {
	for _, e := range elements {
		s.Remove(e)
	}
	return s
}

func (s *OrderedSet[T]) Has(e T) bool {
	_, ok := s.index[e]
	return ok
}

func (s *OrderedSet[T]) Size() int {
	return len(s.index)
}

// Keys returns a copy of the members in insertion order
func (s *OrderedSet[T]) Keys() []T {
	keys := make([]T, 0, len(s.index))
	for el := s.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(T))
	}
	return keys
}

func (s *OrderedSet[T]) Clear() {
	clear(s.index)
	s.order.Init()
}
