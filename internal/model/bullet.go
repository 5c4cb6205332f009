package model

// Bullet is an in-flight projectile. Bullets advance one cell per tick and
// are destroyed on leaving the grid, entering an obstacle cell, or hitting
// an eligible living target.
type Bullet struct {
	Owner     PlayerID  `json:"owner"`
	Position  Position  `json:"position"`
	Direction Direction `json:"direction"`
}
