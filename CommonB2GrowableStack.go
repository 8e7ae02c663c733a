package box2d

// Slice backed stack used by tree traversal, island splitting and rebuilds.
type B2GrowableStack[T any] struct {
	items []T
}

func MakeB2GrowableStack[T any](capacity int) B2GrowableStack[T] {
	return B2GrowableStack[T]{
		items: make([]T, 0, capacity),
	}
}

// Return the stack's length
func (s B2GrowableStack[T]) GetCount() int {
	return len(s.items)
}

// Push a new element onto the stack
func (s *B2GrowableStack[T]) Push(value T) {
	s.items = append(s.items, value)
}

// Remove the top element from the stack and return it's value.
// The stack must not be empty.
func (s *B2GrowableStack[T]) Pop() T {
	B2Assert(len(s.items) > 0)
	n := len(s.items) - 1
	value := s.items[n]
	s.items = s.items[:n]
	return value
}

// Empty the stack while keeping its storage.
func (s *B2GrowableStack[T]) Reset() {
	s.items = s.items[:0]
}
