package session

import (
	"sort"

	"github.com/milk9111/keyhold/ecs"
)

// HealthBars maps player numbers to a fill fraction shown on the HUD.
type HealthBars struct {
	bound map[int]ecs.Entity
	fills map[int]float64
}

func NewHealthBars() *HealthBars {
	return &HealthBars{
		bound: make(map[int]ecs.Entity),
		fills: make(map[int]float64),
	}
}

// Bind attaches bar number to entity e and fills it.
func (h *HealthBars) Bind(number int, e ecs.Entity) {
	h.bound[number] = e
	h.fills[number] = 1
}

// Entity returns the entity bound to bar number.
func (h *HealthBars) Entity(number int) (ecs.Entity, bool) {
	e, ok := h.bound[number]
	return e, ok
}

// Set updates the fill for bar number, clamped to [0,1]. Unbound bars are
// left alone.
func (h *HealthBars) Set(number int, fill float64) {
	if _, ok := h.bound[number]; !ok {
		return
	}
	if fill < 0 {
		fill = 0
	}
	if fill > 1 {
		fill = 1
	}
	h.fills[number] = fill
}

func (h *HealthBars) Fill(number int) (float64, bool) {
	f, ok := h.fills[number]
	return f, ok
}

// Numbers returns the bound bar numbers in ascending order.
func (h *HealthBars) Numbers() []int {
	out := make([]int, 0, len(h.bound))
	for n := range h.bound {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

func (h *HealthBars) Reset() {
	h.bound = make(map[int]ecs.Entity)
	h.fills = make(map[int]float64)
}
