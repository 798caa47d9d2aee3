package component

// Health tracks hit points. An entity at zero or below is dead.
type Health struct {
	Points float64
	Max    float64
}
