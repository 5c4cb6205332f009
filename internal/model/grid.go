package model

// Position identifies a cell on the grid
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Direction is a facing/movement direction on the grid
type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Valid reports whether the direction is one of the four known values
func (d Direction) Valid() bool {
	switch d {
	case DirectionUp, DirectionDown, DirectionLeft, DirectionRight:
		return true
	}
	return false
}

// Step returns the position one cell away in this direction.
// The result is not bounds-checked.
func (d Direction) Step(pos Position) Position {
	switch d {
	case DirectionUp:
		return Position{X: pos.X, Y: pos.Y - 1}
	case DirectionDown:
		return Position{X: pos.X, Y: pos.Y + 1}
	case DirectionLeft:
		return Position{X: pos.X - 1, Y: pos.Y}
	case DirectionRight:
		return Position{X: pos.X + 1, Y: pos.Y}
	}
	return pos
}

// Grid is a square obstacle map, generated once per session and immutable
// thereafter. Cells are stored row-major.
type Grid struct {
	Size      int    `json:"size"`
	Obstacles []bool `json:"obstacles"`
}

// NewGrid creates an obstacle-free grid of the given size
func NewGrid(size int) *Grid {
	return &Grid{
		Size:      size,
		Obstacles: make([]bool, size*size),
	}
}

// Contains reports whether the position is within grid bounds
func (g *Grid) Contains(pos Position) bool {
	return pos.X >= 0 && pos.X < g.Size && pos.Y >= 0 && pos.Y < g.Size
}

// Obstacle reports whether the cell at the given position is an obstacle.
// Out-of-bounds positions are not obstacles.
func (g *Grid) Obstacle(pos Position) bool {
	if !g.Contains(pos) {
		return false
	}
	return g.Obstacles[pos.Y*g.Size+pos.X]
}

// SetObstacle marks or clears the obstacle flag at the given position
func (g *Grid) SetObstacle(pos Position, obstacle bool) {
	if g.Contains(pos) {
		g.Obstacles[pos.Y*g.Size+pos.X] = obstacle
	}
}

// ObstacleCount returns the number of obstacle cells
func (g *Grid) ObstacleCount() int {
	count := 0
	for _, o := range g.Obstacles {
		if o {
			count++
		}
	}
	return count
}
