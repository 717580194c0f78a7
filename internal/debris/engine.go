package debris

import (
	"math/rand"
	"time"
)

// Descriptor draw ranges, [min, min+span).
const (
	velocityMin  = 2.0
	velocitySpan = 3.0
	weightMin    = 80.0
	weightSpan   = 150.0
	sizeMin      = 0.5
	sizeSpan     = 3.0
)

// Engine draws new physical descriptors for the tracked debris.
type Engine struct {
	rand *rand.Rand
}

// NewEngine creates an engine drawing from r. A nil r gets a time-seeded source.
func NewEngine(r *rand.Rand) *Engine {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{rand: r}
}

// Randomize returns a freshly drawn descriptor.
func (e *Engine) Randomize() Descriptor {
	return Descriptor{
		Velocity:    velocityMin + e.rand.Float64()*velocitySpan,
		Weight:      weightMin + e.rand.Float64()*weightSpan,
		Size:        sizeMin + e.rand.Float64()*sizeSpan,
		Composition: Compositions[e.rand.Intn(len(Compositions))],
	}
}
