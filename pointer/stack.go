package pointer

import "github.com/flintwinters/jisp/jisperr"

// DefaultCapacity is the fixed pointer-handle stack capacity spec.md §3
// and §9 default to.
const DefaultCapacity = 64

// Stack is the fixed-capacity, process-external handle stack ptr_new,
// ptr_release, ptr_get, and ptr_set operate on. Design notes §9 prefer it
// owned by the interpreter rather than the process, so that multiple
// interpreters can coexist; callers construct one per evaluator instance.
type Stack struct {
	capacity int
	items    []Ptr
}

// NewStack builds a Stack with the given capacity, defaulting to
// DefaultCapacity when capacity <= 0.
func NewStack(capacity int) *Stack {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Stack{capacity: capacity}
}

// Depth reports how many handles are currently held.
func (s *Stack) Depth() int { return len(s.items) }

// Push places p on top of the stack, failing with HandleOverflow at
// capacity.
func (s *Stack) Push(p Ptr) error {
	if len(s.items) >= s.capacity {
		return jisperr.New(jisperr.KindHandleOverflow, "pointer stack at capacity %d", s.capacity)
	}
	s.items = append(s.items, p)
	return nil
}

// Pop removes and returns the top handle, failing with HandleUnderflow if
// the stack is empty.
func (s *Stack) Pop() (Ptr, error) {
	if len(s.items) == 0 {
		return Ptr{}, jisperr.New(jisperr.KindHandleUnderflow, "pointer stack is empty")
	}
	p := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return p, nil
}

// Peek returns the top handle without removing it.
func (s *Stack) Peek() (Ptr, error) {
	if len(s.items) == 0 {
		return Ptr{}, jisperr.New(jisperr.KindHandleUnderflow, "pointer stack is empty")
	}
	return s.items[len(s.items)-1], nil
}
