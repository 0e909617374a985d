package simulation

import (
	"fmt"
	"image/color"
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"jellyball-sim/internal/common"
	"jellyball-sim/internal/config"
)

// ContourNode is one fixed-angle sample point on a body's deformable
// boundary. Angle never changes after construction; Displacement is the
// signed radial offset from the base circle and Velocity its rate of change.
type ContourNode struct {
	Angle        float64
	Displacement float64
	Velocity     float64
}

// Body is one soft circular entity. Its boundary is a base circle of
// BaseRadius plus a closed ring of spring-coupled contour nodes, so the
// shape dents on contact and rings back toward a circle.
//
// Center, Velocity and the derived fields are written by Update and by the
// world's tick phases; a renderer only ever reads them between ticks.
type Body struct {
	ID string

	Center   r2.Vec
	Velocity r2.Vec

	BaseRadius   float64 // current eased radius; starts at 1, animates toward TargetRadius
	TargetRadius float64 // terminal radius, fixed at spawn
	Age          float64 // elapsed simulated time since spawn
	Mass         float64 // always BaseRadius^2, maintained by Update

	Color color.RGBA

	contour           []ContourNode
	growthDuration    float64
	restStiffness     float64
	neighborStiffness float64
	springDamping     float64
	interpolate       bool
}

// NewBody creates a body at pos that will grow from a point to
// targetRadius. Spring constants, contour resolution and the boundary
// sampling mode are copied out of cfg; the body keeps no reference to it.
// Initial velocity is zero and the color is opaque white: the world's spawn
// helpers randomize both.
func NewBody(pos r2.Vec, targetRadius float64, cfg config.Config) *Body {
	contour := make([]ContourNode, cfg.ContourNodes)
	step := common.TwoPi / float64(cfg.ContourNodes)
	for i := range contour {
		contour[i] = ContourNode{Angle: float64(i) * step}
	}

	return &Body{
		ID:                fmt.Sprintf("ball-%s", uuid.NewString()[:8]),
		Center:            pos,
		BaseRadius:        1,
		TargetRadius:      targetRadius,
		Mass:              1,
		Color:             color.RGBA{255, 255, 255, 255},
		contour:           contour,
		growthDuration:    cfg.GrowthDuration,
		restStiffness:     cfg.RestStiffness,
		neighborStiffness: cfg.NeighborStiffness,
		springDamping:     cfg.SpringDamping,
		interpolate:       cfg.InterpolateContour,
	}
}

// Contour exposes the boundary samples for rendering. The slice is the
// body's own storage; callers must treat it as read-only.
func (b *Body) Contour() []ContourNode {
	return b.contour
}

// Update advances the body by dt: eased growth first, then one integration
// step of the contour ring.
func (b *Body) Update(dt float64) {
	b.Age += dt

	// Growth: clamp the fraction so the easing polynomial is only evaluated
	// on its defined domain. The eased value is not clamped above, so the
	// curve's overshoot past the target radius carries through; the radius
	// is floored at its spawn value of 1 so mass stays positive through the
	// curve's early dip below zero.
	t := common.Clamp(b.Age/b.growthDuration, 0, 1)
	b.BaseRadius = math.Max(1, 1+(b.TargetRadius-1)*GrowthEase(t))
	b.Mass = b.BaseRadius * b.BaseRadius

	// Contour ring: each node is pulled back toward the base circle and
	// coupled to its two neighbors by a discrete Laplacian, so impulses
	// travel around the ring as damped ripples.
	n := len(b.contour)
	forces := make([]float64, n)
	for i, node := range b.contour {
		prev := b.contour[(i+n-1)%n].Displacement
		next := b.contour[(i+1)%n].Displacement
		forces[i] = -b.restStiffness*node.Displacement +
			b.neighborStiffness*(prev+next-2*node.Displacement)
	}

	limit := b.BaseRadius * 0.5
	for i := range b.contour {
		node := &b.contour[i]
		node.Velocity += forces[i] * dt
		node.Velocity *= b.springDamping
		node.Displacement += node.Velocity * dt
		node.Displacement = common.Clamp(node.Displacement, -limit, limit)
	}
}

// ApplyImpulseAt dents the boundary near the given angle: the closest node
// receives force/BaseRadius as a velocity change and its two ring neighbors
// half of that, spreading the impact without a discontinuity.
func (b *Body) ApplyImpulseAt(angle, force float64) {
	n := len(b.contour)
	i := b.nearestNode(angle)
	kick := force / b.BaseRadius
	b.contour[i].Velocity += kick
	b.contour[(i+n-1)%n].Velocity += kick * 0.5
	b.contour[(i+1)%n].Velocity += kick * 0.5
}

// EffectiveRadiusAt returns the boundary distance from the center in the
// given direction. By default it snaps to the nearest contour sample (the
// same selection ApplyImpulseAt uses); with interpolation enabled it blends
// the two bracketing samples instead.
func (b *Body) EffectiveRadiusAt(angle float64) float64 {
	if b.interpolate {
		return b.BaseRadius + b.interpolatedDisplacement(angle)
	}
	return b.BaseRadius + b.contour[b.nearestNode(angle)].Displacement
}

// nearestNode returns the index of the contour node angularly closest to
// angle under the shortest-arc rule. Nodes are evenly spaced, so rounding
// the normalized angle to the nearest step is exact and wrap-aware.
func (b *Body) nearestNode(angle float64) int {
	step := common.TwoPi / float64(len(b.contour))
	return int(math.Round(common.NormalizeAngle(angle)/step)) % len(b.contour)
}

func (b *Body) interpolatedDisplacement(angle float64) float64 {
	n := len(b.contour)
	step := common.TwoPi / float64(n)
	pos := common.NormalizeAngle(angle) / step
	lo := int(pos) % n
	hi := (lo + 1) % n
	frac := pos - math.Floor(pos)
	return b.contour[lo].Displacement*(1-frac) + b.contour[hi].Displacement*frac
}

// String representation for logging
func (b *Body) String() string {
	return fmt.Sprintf("Body[%s] Pos: (%.2f, %.2f) R: %.2f/%.2f Vel: (%.2f, %.2f)",
		b.ID, b.Center.X, b.Center.Y, b.BaseRadius, b.TargetRadius, b.Velocity.X, b.Velocity.Y)
}
