// ABOUTME: Generic reordering of a sorted sequence around a drop target
// ABOUTME: Computes the new order and the minimal old-to-new index mapping

package reorder

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidArgument is returned when a precondition of New is violated.
// It is always returned before any work is done.
var ErrInvalidArgument = errors.New("invalid argument")

// Mover holds the result of dropping a selection next to a target.
//
// When the target precedes every selected element the selection lands
// immediately before the target; otherwise it lands immediately after it.
type Mover[T any] struct {
	collection []T
	result     []T
	mapping    map[int]int
	compare    func(a, b T) int
}

// New computes the new order of collection after moving selection next to
// target. collection and selection must be strictly ascending and non-empty,
// selection must be a subset of collection, and target must be a member of
// collection that is not selected.
func New[T cmp.Ordered](collection, selection []T, target T) (*Mover[T], error) {
	return NewFunc(collection, selection, target, cmp.Compare[T])
}

// NewFunc is like New for keys ordered by compare, which must be a strict
// total order returning a negative, zero, or positive result.
func NewFunc[T any](collection, selection []T, target T, compare func(a, b T) int) (*Mover[T], error) {
	if compare == nil {
		return nil, fmt.Errorf("%w: compare is nil", ErrInvalidArgument)
	}
	if err := validate(collection, selection, target, compare); err != nil {
		return nil, err
	}

	stripped := make([]T, 0, len(collection)-len(selection))
	for _, v := range collection {
		if _, selected := slices.BinarySearchFunc(selection, v, compare); !selected {
			stripped = append(stripped, v)
		}
	}

	insertAt, _ := slices.BinarySearchFunc(stripped, target, compare)
	if !precedesAll(target, selection, compare) {
		insertAt++
	}

	result := make([]T, 0, len(collection))
	result = append(result, stripped[:insertAt]...)
	result = append(result, selection...)
	result = append(result, stripped[insertAt:]...)

	if len(result) != len(collection) {
		panic(fmt.Sprintf("reorder: result has %d elements, want %d", len(result), len(collection)))
	}

	m := &Mover[T]{
		collection: slices.Clone(collection),
		result:     result,
		compare:    compare,
	}
	m.mapping = m.computeMapping()
	return m, nil
}

func validate[T any](collection, selection []T, target T, compare func(a, b T) int) error {
	if len(collection) == 0 {
		return fmt.Errorf("%w: collection is empty", ErrInvalidArgument)
	}
	if len(selection) == 0 {
		return fmt.Errorf("%w: selection is empty", ErrInvalidArgument)
	}
	if !strictlyAscending(collection, compare) {
		return fmt.Errorf("%w: collection must be sorted with unique elements", ErrInvalidArgument)
	}
	if !strictlyAscending(selection, compare) {
		return fmt.Errorf("%w: selection must be sorted with unique elements", ErrInvalidArgument)
	}
	for _, v := range selection {
		if _, ok := slices.BinarySearchFunc(collection, v, compare); !ok {
			return fmt.Errorf("%w: selected element %v is not in the collection", ErrInvalidArgument, v)
		}
	}
	if _, ok := slices.BinarySearchFunc(collection, target, compare); !ok {
		return fmt.Errorf("%w: target %v is not in the collection", ErrInvalidArgument, target)
	}
	if _, ok := slices.BinarySearchFunc(selection, target, compare); ok {
		return fmt.Errorf("%w: target %v is part of the selection", ErrInvalidArgument, target)
	}
	return nil
}

func strictlyAscending[T any](s []T, compare func(a, b T) int) bool {
	for i := 1; i < len(s); i++ {
		if compare(s[i-1], s[i]) >= 0 {
			return false
		}
	}
	return true
}

// precedesAll compares against every selected element, not just the nearest.
func precedesAll[T any](target T, selection []T, compare func(a, b T) int) bool {
	for _, v := range selection {
		if compare(target, v) >= 0 {
			return false
		}
	}
	return true
}

func (m *Mover[T]) computeMapping() map[int]int {
	mapping := make(map[int]int)
	for newIndex, v := range m.result {
		oldIndex, _ := slices.BinarySearchFunc(m.collection, v, m.compare)
		if oldIndex != newIndex {
			mapping[oldIndex] = newIndex
		}
	}
	return mapping
}

// Result returns the collection in its new order.
func (m *Mover[T]) Result() []T {
	return slices.Clone(m.result)
}

// Mapping returns old index -> new index for every element that moved.
// Elements that keep their index are omitted.
func (m *Mover[T]) Mapping() map[int]int {
	out := make(map[int]int, len(m.mapping))
	for k, v := range m.mapping {
		out[k] = v
	}
	return out
}

// Move is one entry of the mapping.
type Move struct {
	From int
	To   int
}

// Moves returns the mapping ordered by source index.
func (m *Mover[T]) Moves() []Move {
	moves := make([]Move, 0, len(m.mapping))
	for from, to := range m.mapping {
		moves = append(moves, Move{From: from, To: to})
	}
	slices.SortFunc(moves, func(a, b Move) int {
		return cmp.Compare(a.From, b.From)
	})
	return moves
}

// DirtyRange returns the lowest and highest index touched by the move.
// ok is false when nothing moved.
func (m *Mover[T]) DirtyRange() (lo, hi int, ok bool) {
	if len(m.mapping) == 0 {
		return 0, 0, false
	}
	lo, hi = len(m.result), -1
	for from, to := range m.mapping {
		lo = min(lo, from, to)
		hi = max(hi, from, to)
	}
	return lo, hi, true
}
