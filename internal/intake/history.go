package intake

import (
	"github.com/google/go-cmp/cmp"

	"github.com/alexanderramin/intake/internal/domain"
)

// history is the in-memory undo stack of whole-document snapshots.
type history struct {
	stack []*domain.State
}

// push records a deep copy of s. The first push always succeeds; later
// pushes are skipped when s equals the top of the stack, unless forced.
func (h *history) push(s *domain.State, force bool) bool {
	if len(h.stack) > 0 && !force && cmp.Equal(s, h.stack[len(h.stack)-1]) {
		return false
	}
	h.stack = append(h.stack, s.Clone())
	return true
}

func (h *history) pop() (*domain.State, bool) {
	if len(h.stack) == 0 {
		return nil, false
	}
	top := h.stack[len(h.stack)-1]
	h.stack = h.stack[:len(h.stack)-1]
	return top, true
}

func (h *history) depth() int { return len(h.stack) }
