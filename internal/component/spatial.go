package component

// Position is a point in world units.
type Position struct {
	X float64
	Y float64
}

// Velocity is a displacement in world units per second.
type Velocity struct {
	X float64
	Y float64
}
