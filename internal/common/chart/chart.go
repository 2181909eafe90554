// Package chart draws bar charts onto named display surfaces and owns the
// lifecycle of what it drew.
package chart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"productlab-workers/internal/common/metrics"
)

// Series is one dataset of a bar chart, aligned with BarChart.Labels.
type Series struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// Style carries the visual options of a bar chart. Colours are hex strings.
type Style struct {
	ShowLegend   bool    `json:"showLegend"`
	ShowXGrid    bool    `json:"showXGrid"`
	ShowYGrid    bool    `json:"showYGrid"`
	TickColor    string  `json:"tickColor"`
	GridColor    string  `json:"gridColor"`
	BarColor     string  `json:"barColor"`
	BorderRadius float64 `json:"borderRadius"`
}

// BarChart is a single-series bar chart bound to a display surface.
type BarChart struct {
	Surface string   `json:"surface"`
	Labels  []string `json:"labels"`
	Series  Series   `json:"series"`
	Style   Style    `json:"style"`
}

// Validate checks the chart is drawable.
func (c BarChart) Validate() error {
	if c.Surface == "" {
		return errors.New("chart surface is required")
	}
	if len(c.Labels) != len(c.Series.Values) {
		return fmt.Errorf("chart has %d labels but %d values", len(c.Labels), len(c.Series.Values))
	}
	return nil
}

// Handle refers to a live chart. Destroy releases it; calling it twice is a no-op.
type Handle interface {
	ID() string
	Surface() string
	Destroy() error
}

// Renderer draws charts.
type Renderer interface {
	Draw(ctx context.Context, c BarChart) (Handle, error)
}

// Slot owns at most one live chart for a surface.
type Slot struct {
	mu       sync.Mutex
	surface  string
	renderer Renderer
	current  Handle
}

// NewSlot returns an empty slot for surface.
func NewSlot(surface string, renderer Renderer) *Slot {
	return &Slot{surface: surface, renderer: renderer}
}

// Replace destroys the live chart, if any, and then draws c. The lock is held
// across both steps so concurrent callers never leave two charts alive.
// If the old chart cannot be destroyed it stays current and nothing is drawn.
func (s *Slot) Replace(ctx context.Context, c BarChart) (Handle, error) {
	if c.Surface == "" {
		c.Surface = s.surface
	}
	if c.Surface != s.surface {
		return nil, fmt.Errorf("chart for surface %q drawn into slot %q", c.Surface, s.surface)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.releaseLocked(); err != nil {
		return nil, err
	}

	h, err := s.renderer.Draw(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("draw %s: %w", s.surface, err)
	}
	s.current = h
	metrics.ChartsDrawn.WithLabelValues(s.surface).Inc()
	metrics.ChartsLive.WithLabelValues(s.surface).Set(1)
	return h, nil
}

// Current returns the live chart or nil.
func (s *Slot) Current() Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Release destroys the live chart, if any.
func (s *Slot) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releaseLocked()
}

func (s *Slot) releaseLocked() error {
	if s.current == nil {
		return nil
	}
	if err := s.current.Destroy(); err != nil {
		return fmt.Errorf("destroy chart %s on %s: %w", s.current.ID(), s.surface, err)
	}
	s.current = nil
	metrics.ChartsDestroyed.WithLabelValues(s.surface).Inc()
	metrics.ChartsLive.WithLabelValues(s.surface).Set(0)
	return nil
}

// Surfaces hands out one Slot per surface name.
type Surfaces struct {
	mu       sync.Mutex
	renderer Renderer
	slots    map[string]*Slot
}

func NewSurfaces(renderer Renderer) *Surfaces {
	return &Surfaces{renderer: renderer, slots: make(map[string]*Slot)}
}

// Slot returns the slot for name, creating it on first use.
func (s *Surfaces) Slot(name string) *Slot {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[name]
	if !ok {
		slot = NewSlot(name, s.renderer)
		s.slots[name] = slot
	}
	return slot
}

// Live counts the surfaces that currently show a chart.
func (s *Surfaces) Live() int {
	s.mu.Lock()
	slots := make([]*Slot, 0, len(s.slots))
	for _, slot := range s.slots {
		slots = append(slots, slot)
	}
	s.mu.Unlock()

	live := 0
	for _, slot := range slots {
		if slot.Current() != nil {
			live++
		}
	}
	return live
}

// Close destroys every live chart.
func (s *Surfaces) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, slot := range s.slots {
		if err := slot.Release(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
