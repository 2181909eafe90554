package chart

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRenderer keeps drawn charts in memory. The CLI and tests use it.
type MemoryRenderer struct {
	mu   sync.Mutex
	live map[string]BarChart
}

func NewMemoryRenderer() *MemoryRenderer {
	return &MemoryRenderer{live: make(map[string]BarChart)}
}

func (r *MemoryRenderer) Draw(ctx context.Context, c BarChart) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	r.mu.Lock()
	r.live[id] = c
	r.mu.Unlock()

	return &memoryHandle{id: id, surface: c.Surface, owner: r}, nil
}

// Live returns the number of charts drawn and not yet destroyed.
func (r *MemoryRenderer) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

// Chart returns the chart drawn under id.
func (r *MemoryRenderer) Chart(id string) (BarChart, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.live[id]
	return c, ok
}

type memoryHandle struct {
	id      string
	surface string
	owner   *MemoryRenderer
}

func (h *memoryHandle) ID() string      { return h.id }
func (h *memoryHandle) Surface() string { return h.surface }

func (h *memoryHandle) Destroy() error {
	h.owner.mu.Lock()
	delete(h.owner.live, h.id)
	h.owner.mu.Unlock()
	return nil
}
