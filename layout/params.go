package layout

// CollisionMode selects how hard nodes push out of overlap.
type CollisionMode string

const (
	CollisionFull    CollisionMode = "full"
	CollisionMinimal CollisionMode = "minimal"
	CollisionOff     CollisionMode = "off"
)

// strength returns the multiplier applied to the base collision force.
func (m CollisionMode) strength() float64 {
	switch m {
	case CollisionMinimal:
		return 0.35
	case CollisionOff:
		return 0
	default:
		return 1.0
	}
}

// ForceParams are the per-mode weights of the simulation forces. Charge is
// negative (repulsive); ChargeMaxDist caps the pairwise interaction range for
// performance. AnchorStrength is the restoring pull toward a node's
// structural initial position.
type ForceParams struct {
	ChargeStrength float64
	ChargeMaxDist  float64
	LinkDistance   float64
	LinkStrength   float64
	CollisionPad   float64
	CenterStrength float64
	AnchorStrength float64
}

var (
	concentricForces = ForceParams{
		ChargeStrength: -180,
		ChargeMaxDist:  420,
		LinkDistance:   120,
		LinkStrength:   0.5,
		CollisionPad:   4,
		CenterStrength: 0.02,
		AnchorStrength: 0.08,
	}
	progressiveForces = ForceParams{
		ChargeStrength: -230,
		ChargeMaxDist:  520,
		LinkDistance:   140,
		LinkStrength:   0.4,
		CollisionPad:   5,
		CenterStrength: 0.02,
		AnchorStrength: 0.10,
	}
	hierarchicalForces = ForceParams{
		ChargeStrength: -160,
		ChargeMaxDist:  360,
		LinkDistance:   100,
		LinkStrength:   0.6,
		CollisionPad:   4,
		CenterStrength: 0.01,
		AnchorStrength: 0.12,
	}
	radialTreeForces = ForceParams{
		ChargeStrength: -180,
		ChargeMaxDist:  420,
		LinkDistance:   120,
		LinkStrength:   0.5,
		CollisionPad:   4,
		CenterStrength: 0,
		AnchorStrength: 0.10,
	}
	// Cluster keeps concentric geometry but pulls much harder along links and
	// toward the center, letting connected groups clump.
	clusterForces = ForceParams{
		ChargeStrength: -120,
		ChargeMaxDist:  260,
		LinkDistance:   80,
		LinkStrength:   0.75,
		CollisionPad:   3,
		CenterStrength: 0.05,
		AnchorStrength: 0.04,
	}
)
