package simulation

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat/distuv"

	"jellyball-sim/internal/config"
)

// DefaultTimestep is substituted when Step receives a non-positive or NaN
// timestep, so a malformed frame delta produces an unremarkable tick instead
// of a stalled or exploding simulation.
const DefaultTimestep = 1.0

// World holds the whole scene: a bounded rectangle and the bodies inside
// it. Bodies interact only through the world's tick phases; they keep no
// references to each other. Slice order is insertion order, which doubles
// as the z-order for rendering.
type World struct {
	width, height float64
	bodies        []*Body
	cfg           config.Config
	src           rand.Source
	elapsed       float64
}

// NewWorld creates an empty scene covering [0,width] x [0,height].
func NewWorld(width, height float64, cfg config.Config) (*World, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("world size %fx%f is invalid", width, height)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := uint64(time.Now().UnixNano())
	return &World{
		width:  width,
		height: height,
		cfg:    cfg,
		src:    rand.NewPCG(seed, seed),
	}, nil
}

func (w *World) uniform(min, max float64) float64 {
	return distuv.Uniform{Min: min, Max: max, Src: w.src}.Rand()
}

// AddBody spawns a body at pos growing toward targetRadius, with a random
// initial velocity and display color. It fails once the configured capacity
// is reached; the scene never removes bodies, so the cap is what keeps the
// O(n^2) tick phases bounded over a long run.
func (w *World) AddBody(pos r2.Vec, targetRadius float64) (*Body, error) {
	if len(w.bodies) >= w.cfg.MaxBodies {
		return nil, fmt.Errorf("body limit reached (%d)", w.cfg.MaxBodies)
	}

	b := NewBody(pos, targetRadius, w.cfg)
	s := w.cfg.InitialSpeed
	b.Velocity = r2.Vec{X: w.uniform(-s, s), Y: w.uniform(-s, s)}
	b.Color.R = uint8(w.uniform(60, 220))
	b.Color.G = uint8(w.uniform(60, 220))
	b.Color.B = uint8(w.uniform(60, 220))

	w.bodies = append(w.bodies, b)
	return b, nil
}

// SpawnRandomBody adds a body at a random in-bounds position with a target
// radius drawn from the initial spawn range.
func (w *World) SpawnRandomBody() (*Body, error) {
	pos := r2.Vec{X: w.uniform(0, w.width), Y: w.uniform(0, w.height)}
	radius := w.uniform(w.cfg.SpawnRadiusMin, w.cfg.SpawnRadiusMax)
	return w.AddBody(pos, radius)
}

// SpawnBodyAt adds a body at pos with a target radius drawn from the
// (larger) interactive spawn range.
func (w *World) SpawnBodyAt(pos r2.Vec) (*Body, error) {
	radius := w.uniform(w.cfg.PointerSpawnRadiusMin, w.cfg.PointerSpawnRadiusMax)
	return w.AddBody(pos, radius)
}

// GetBodies returns the scene's bodies in z-order. The slice is the world's
// own storage; callers must treat it as read-only.
func (w *World) GetBodies() []*Body {
	return w.bodies
}

// GetBodyAt returns the topmost body whose base radius contains pos, or nil.
// Used by the input layer as the drag hit test.
func (w *World) GetBodyAt(pos r2.Vec) *Body {
	for i := len(w.bodies) - 1; i >= 0; i-- {
		b := w.bodies[i]
		if r2.Norm(r2.Sub(pos, b.Center)) <= b.BaseRadius {
			return b
		}
	}
	return nil
}

// GetTime returns the total elapsed simulated time.
func (w *World) GetTime() float64 {
	return w.elapsed
}

// GetDimensions returns the current domain size.
func (w *World) GetDimensions() (width, height float64) {
	return w.width, w.height
}

// Resize changes the domain; bodies outside the new bounds are pulled back
// in by the wall phase of the next Step.
func (w *World) Resize(width, height float64) {
	if width > 0 && height > 0 {
		w.width = width
		w.height = height
	}
}

// Step advances the whole scene by dt in five ordered phases: per-body
// integration, pairwise gravity, wall collision, body-body collision, and
// global damping. Later phases assume earlier phases' results, so the order
// is load-bearing.
func (w *World) Step(dt float64) {
	if dt <= 0 || math.IsNaN(dt) {
		dt = DefaultTimestep
	}
	w.elapsed += dt

	// 1. Integrate: growth + contour springs, then translation.
	for _, b := range w.bodies {
		b.Update(dt)
		b.Center = r2.Add(b.Center, r2.Scale(dt, b.Velocity))
	}

	w.applyGravity(dt)
	w.collideWalls()
	w.collideBodies()

	// 5. Global damping: bleed residual kinetic energy.
	for _, b := range w.bodies {
		b.Velocity = r2.Scale(w.cfg.CenterDamping, b.Velocity)
	}
}

// applyGravity accumulates capped Newtonian attraction over every unordered
// pair, equal and opposite. Coincident centers are skipped for the tick
// rather than propagating a division by zero.
func (w *World) applyGravity(dt float64) {
	for i := 0; i < len(w.bodies); i++ {
		for j := i + 1; j < len(w.bodies); j++ {
			a, b := w.bodies[i], w.bodies[j]

			delta := r2.Sub(b.Center, a.Center)
			dist := r2.Norm(delta)
			if dist == 0 {
				continue
			}

			force := w.cfg.GravityConstant * a.Mass * b.Mass / (dist * dist)
			if force > w.cfg.MaxGravityForce {
				force = w.cfg.MaxGravityForce
			}

			normal := r2.Scale(1/dist, delta)
			a.Velocity = r2.Add(a.Velocity, r2.Scale(force/a.Mass*dt, normal))
			b.Velocity = r2.Sub(b.Velocity, r2.Scale(force/b.Mass*dt, normal))
		}
	}
}

// collideWalls clamps each body's center so its base circle stays inside
// the domain and reflects the offending velocity component. Wall hits are
// perfectly elastic and cause no contour deformation.
func (w *World) collideWalls() {
	for _, b := range w.bodies {
		r := b.BaseRadius
		if b.Center.X-r < 0 {
			b.Center.X = r
			b.Velocity.X = -b.Velocity.X
		} else if b.Center.X+r > w.width {
			b.Center.X = w.width - r
			b.Velocity.X = -b.Velocity.X
		}
		if b.Center.Y-r < 0 {
			b.Center.Y = r
			b.Velocity.Y = -b.Velocity.Y
		} else if b.Center.Y+r > w.height {
			b.Center.Y = w.height - r
			b.Velocity.Y = -b.Velocity.Y
		}
	}
}

// collideBodies resolves every overlapping pair against the direction-aware
// contact radii of the two deformed boundaries: positions separate
// symmetrically, approaching pairs get a soft restitution impulse, and both
// contours are dented at the contact angle.
func (w *World) collideBodies() {
	for i := 0; i < len(w.bodies); i++ {
		for j := i + 1; j < len(w.bodies); j++ {
			a, b := w.bodies[i], w.bodies[j]

			delta := r2.Sub(b.Center, a.Center)
			dist := r2.Norm(delta)
			if dist == 0 {
				continue
			}
			normal := r2.Scale(1/dist, delta)
			contactAngle := math.Atan2(normal.Y, normal.X)

			effA := a.EffectiveRadiusAt(contactAngle)
			effB := b.EffectiveRadiusAt(contactAngle + math.Pi)
			overlap := effA + effB - dist
			if overlap <= 0 {
				continue
			}

			// Push both centers apart by half the overlap.
			half := r2.Scale(overlap/2, normal)
			a.Center = r2.Sub(a.Center, half)
			b.Center = r2.Add(b.Center, half)

			// Impulse only when the pair is still approaching.
			closing := r2.Dot(r2.Sub(b.Velocity, a.Velocity), normal)
			if closing >= 0 {
				continue
			}
			impulse := -(1 + w.cfg.Restitution) * closing / (1/a.Mass + 1/b.Mass)

			scale := w.cfg.CollisionVelocityScale
			a.Velocity = r2.Sub(a.Velocity, r2.Scale(impulse/a.Mass*scale, normal))
			b.Velocity = r2.Add(b.Velocity, r2.Scale(impulse/b.Mass*scale, normal))

			dent := -impulse * w.cfg.CollisionDeformationFactor
			a.ApplyImpulseAt(contactAngle, dent)
			b.ApplyImpulseAt(contactAngle+math.Pi, dent)
		}
	}
}
