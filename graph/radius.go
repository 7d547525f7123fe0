package graph

// NodeRadius is the world-space radius of a node at the given level. It is a
// step function: the root is largest and radii shrink per level down to a
// floor. Hit-testing, collision, and painting all share this one function so
// a node is clickable exactly where it is drawn.
func NodeRadius(level int) float64 {
	switch {
	case level <= 0:
		return 26
	case level == 1:
		return 18
	case level == 2:
		return 13
	case level == 3:
		return 10
	default:
		return 8
	}
}
