// Package mapgen generates obstacle grids for game sessions.
//
// Generation is deterministic from its seed: the same (size, probability,
// seed) inputs always produce the same grid. A room's map is generated at
// most once per session; the session actor owns that invariant.
package mapgen

import (
	"math/rand"

	"github.com/avolosh/tankarena-go/internal/model"
)

const (
	// DefaultGridSize is the default map dimension
	DefaultGridSize = 10
	// DefaultObstacleProbability is the default chance of any cell being
	// an obstacle
	DefaultObstacleProbability = 0.2
)

// Generate builds a size x size grid where each cell is independently an
// obstacle with the given probability, drawn from a source seeded with seed.
func Generate(size int, obstacleProbability float64, seed int64) *model.Grid {
	grid := model.NewGrid(size)
	rng := rand.New(rand.NewSource(seed))
	for i := range grid.Obstacles {
		grid.Obstacles[i] = rng.Float64() < obstacleProbability
	}
	return grid
}
