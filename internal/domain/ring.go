// Package domain contains pure, dependency-free domain models and the
// core aggregation, synthesis, and lifecycle logic for the voting radar.
package domain

// Ring represents one stage of the four-ring adoption scale.
// The set of rings and their precedence order are a fixed product
// contract and must not be extended.
type Ring string

// The four adoption rings in precedence order.
const (
	// RingAdopt marks technologies the organization should use.
	RingAdopt Ring = "Adopt"
	// RingTrial marks technologies worth pursuing on a project that can
	// handle the risk.
	RingTrial Ring = "Trial"
	// RingAssess marks technologies worth exploring to understand their fit.
	RingAssess Ring = "Assess"
	// RingHold marks technologies to proceed with caution on.
	RingHold Ring = "Hold"
)

// ringPrecedence orders rings for deterministic tie-breaking when two
// rings receive the same vote count. Lower values win.
var ringPrecedence = map[Ring]int{
	RingAdopt:  0,
	RingTrial:  1,
	RingAssess: 2,
	RingHold:   3,
}

// Precedence returns the fixed precedence rank of the ring, lower is
// stronger. Unknown rings rank last.
func (r Ring) Precedence() int {
	if p, ok := ringPrecedence[r]; ok {
		return p
	}
	return len(ringPrecedence)
}

// Valid reports whether the ring is one of the four known rings.
func (r Ring) Valid() bool {
	_, ok := ringPrecedence[r]
	return ok
}

// Rings lists the four rings in precedence order.
func Rings() []Ring {
	return []Ring{RingAdopt, RingTrial, RingAssess, RingHold}
}

// Quadrant represents a technology category grouping on the radar.
type Quadrant string

// The four radar quadrants.
const (
	QuadrantTools      Quadrant = "Tools"
	QuadrantTechniques Quadrant = "Techniques"
	QuadrantPlatforms  Quadrant = "Platforms"
	QuadrantLangs      Quadrant = "Languages & Frameworks"
)

// Valid reports whether the quadrant is one of the four known quadrants.
func (q Quadrant) Valid() bool {
	switch q {
	case QuadrantTools, QuadrantTechniques, QuadrantPlatforms, QuadrantLangs:
		return true
	}
	return false
}
