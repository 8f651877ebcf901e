package engine

import (
	"math/rand/v2"
	"slices"
)

// Source is the randomness consumed by generation. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a deterministic source for the given seed
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// globalSource defers to the process-wide generator
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

func sourceOrDefault(src Source) Source {
	if src == nil {
		return globalSource{}
	}
	return src
}

// randomFrom picks a uniformly random element. list must be non-empty.
func randomFrom[T any](src Source, list []T) T {
	return list[src.IntN(len(list))]
}

func randomBool(src Source) bool {
	return src.IntN(2) == 0
}

// randomShape picks a shape not in exclude. With every shape excluded the
// exclusion is ignored.
func randomShape(src Source, exclude ...Shape) Shape {
	candidates := make([]Shape, 0, shapeCount)
	for _, s := range AllShapes() {
		if !slices.Contains(exclude, s) {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		candidates = AllShapes()
	}
	return randomFrom(src, candidates)
}

// randomColor picks a color not in exclude. With every color excluded the
// exclusion is ignored.
func randomColor(src Source, exclude ...Color) Color {
	candidates := make([]Color, 0, colorCount)
	for _, c := range AllColors() {
		if !slices.Contains(exclude, c) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		candidates = AllColors()
	}
	return randomFrom(src, candidates)
}
