// Package util provides a collection of domain-agnostic utility functions and cross-platform helpers.
package util

// Stack is a parameterized Last-In-First-Out container. The TUI keeps its
// screen history on one, so "back" can always return to the previous state.
type Stack[T any] struct {
	items []T
}

// Push appends a new element to the top of the stack.
func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

// Pop removes and returns the topmost element; the zero value when empty.
func (s *Stack[T]) Pop() (item T) {
	if len(s.items) == 0 {
		return
	}
	idx := len(s.items) - 1
	item = s.items[idx]
	s.items = s.items[:idx]
	return
}

// Peek returns the topmost element without removing it; the zero value when empty.
func (s *Stack[T]) Peek() (item T) {
	if len(s.items) == 0 {
		return
	}
	return s.items[len(s.items)-1]
}

// Len returns the number of elements currently on the stack.
func (s *Stack[T]) Len() int {
	return len(s.items)
}

// Clear removes all elements, resetting the stack to an empty state.
func (s *Stack[T]) Clear() {
	s.items = nil
}
