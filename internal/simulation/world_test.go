package simulation

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"jellyball-sim/internal/config"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	w, err := NewWorld(800, 600, config.Default())
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

// addGrownBody adds a body and forces it past the growth animation with a
// deterministic state: the given velocity and an age beyond the growth
// duration, so the first Step settles BaseRadius at the target exactly.
func addGrownBody(t *testing.T, w *World, pos, vel r2.Vec, targetRadius float64) *Body {
	t.Helper()
	b, err := w.AddBody(pos, targetRadius)
	if err != nil {
		t.Fatalf("AddBody: %v", err)
	}
	b.Velocity = vel
	b.Age = config.Default().GrowthDuration
	b.Update(0) // settle BaseRadius/Mass at the target before the first Step
	return b
}

func TestNewWorldRejectsBadArguments(t *testing.T) {
	if _, err := NewWorld(0, 600, config.Default()); err == nil {
		t.Error("expected an error for zero width")
	}
	bad := config.Default()
	bad.ContourNodes = 0
	if _, err := NewWorld(800, 600, bad); err == nil {
		t.Error("expected an error for an invalid config")
	}
}

func TestAddBodyCapacity(t *testing.T) {
	cfg := config.Default()
	cfg.MaxBodies = 2
	w, err := NewWorld(800, 600, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := w.SpawnRandomBody(); err != nil {
			t.Fatalf("spawn %d: %v", i, err)
		}
	}
	if _, err := w.SpawnRandomBody(); err == nil {
		t.Fatal("expected an error once the body limit is reached")
	}
	if got := len(w.GetBodies()); got != 2 {
		t.Fatalf("world holds %d bodies, want 2", got)
	}
}

func TestSpawnRadiusRanges(t *testing.T) {
	cfg := config.Default()
	cfg.MaxBodies = 200
	w, err := NewWorld(800, 600, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 50; i++ {
		b, err := w.SpawnRandomBody()
		if err != nil {
			t.Fatal(err)
		}
		if b.TargetRadius < cfg.SpawnRadiusMin || b.TargetRadius > cfg.SpawnRadiusMax {
			t.Fatalf("random spawn radius %f outside [%f, %f]", b.TargetRadius, cfg.SpawnRadiusMin, cfg.SpawnRadiusMax)
		}
		p, err := w.SpawnBodyAt(r2.Vec{X: 100, Y: 100})
		if err != nil {
			t.Fatal(err)
		}
		if p.TargetRadius < cfg.PointerSpawnRadiusMin || p.TargetRadius > cfg.PointerSpawnRadiusMax {
			t.Fatalf("pointer spawn radius %f outside [%f, %f]", p.TargetRadius, cfg.PointerSpawnRadiusMin, cfg.PointerSpawnRadiusMax)
		}
	}
}

func TestWallCollisionClampsAndReflects(t *testing.T) {
	w := newTestWorld(t)
	b := addGrownBody(t, w, r2.Vec{X: 770, Y: 300}, r2.Vec{X: 30}, 50)

	w.Step(1)

	width, _ := w.GetDimensions()
	if math.Abs(b.Center.X+b.BaseRadius-width) > 1e-9 {
		t.Errorf("body edge at %f, want clamped to wall at %f", b.Center.X+b.BaseRadius, width)
	}
	if b.Velocity.X >= 0 {
		t.Errorf("x velocity after wall hit = %f, want negative", b.Velocity.X)
	}
}

func TestOverlappingBodiesSeparate(t *testing.T) {
	w := newTestWorld(t)
	a := addGrownBody(t, w, r2.Vec{X: 400, Y: 300}, r2.Vec{X: 1}, 50)
	b := addGrownBody(t, w, r2.Vec{X: 460, Y: 300}, r2.Vec{X: -1}, 50)

	sepBefore := r2.Norm(r2.Sub(b.Center, a.Center))
	closingBefore := r2.Dot(r2.Sub(b.Velocity, a.Velocity), r2.Vec{X: 1})

	w.Step(1)

	sepAfter := r2.Norm(r2.Sub(b.Center, a.Center))
	if sepAfter <= sepBefore {
		t.Errorf("separation %f -> %f, want increased", sepBefore, sepAfter)
	}

	closingAfter := r2.Dot(r2.Sub(b.Velocity, a.Velocity), r2.Vec{X: 1})
	if closingAfter <= closingBefore {
		t.Errorf("closing velocity %f -> %f, want reduced in magnitude", closingBefore, closingAfter)
	}

	// The contact kicks both contours inward on the facing sides; the dent
	// shows up as node velocity this tick and displacement on the next.
	if a.Contour()[0].Velocity >= 0 {
		t.Errorf("node facing the contact has velocity %f, want negative (inward dent)", a.Contour()[0].Velocity)
	}
	w.Step(1)
	if a.EffectiveRadiusAt(0) >= a.BaseRadius {
		t.Error("contact left no dent in the effective radius")
	}
}

func TestGravityIsSymmetricAndAttractive(t *testing.T) {
	w := newTestWorld(t)
	a := addGrownBody(t, w, r2.Vec{X: 320, Y: 300}, r2.Vec{}, 50)
	b := addGrownBody(t, w, r2.Vec{X: 480, Y: 300}, r2.Vec{}, 50)

	w.Step(1)

	if a.Velocity.X <= 0 || b.Velocity.X >= 0 {
		t.Fatalf("velocities not attractive: a=%f b=%f", a.Velocity.X, b.Velocity.X)
	}
	if math.Abs(a.Velocity.X+b.Velocity.X) > 1e-12 {
		t.Errorf("velocities not equal and opposite: a=%f b=%f", a.Velocity.X, b.Velocity.X)
	}
	if a.Velocity.Y != 0 || b.Velocity.Y != 0 {
		t.Errorf("gravity along x produced y velocity: a=%f b=%f", a.Velocity.Y, b.Velocity.Y)
	}

	// The second step translates by the accumulated velocities: both centers
	// move toward each other by the same nonzero amount.
	w.Step(1)
	movedA := a.Center.X - 320
	movedB := 480 - b.Center.X
	if movedA <= 0 || movedB <= 0 {
		t.Fatalf("centers did not move toward each other: a=%f b=%f", movedA, movedB)
	}
	if math.Abs(movedA-movedB) > 1e-9 {
		t.Errorf("movement not symmetric: a=%f b=%f", movedA, movedB)
	}
}

func TestGravityForceIsCapped(t *testing.T) {
	cfg := config.Default()
	w, err := NewWorld(800, 600, cfg)
	if err != nil {
		t.Fatal(err)
	}
	// Heavy bodies close together: the raw Newtonian force is enormous, so
	// the velocity change must be exactly MaxGravityForce/mass.
	a := addGrownBody(t, w, r2.Vec{X: 340, Y: 300}, r2.Vec{}, 50)
	addGrownBody(t, w, r2.Vec{X: 460, Y: 300}, r2.Vec{}, 50)

	w.Step(1)

	want := cfg.MaxGravityForce / a.Mass * cfg.CenterDamping
	if math.Abs(a.Velocity.X-want) > 1e-12 {
		t.Errorf("capped gravity delta-v = %f, want %f", a.Velocity.X, want)
	}
}

func TestCoincidentCentersAreSkipped(t *testing.T) {
	w := newTestWorld(t)
	pos := r2.Vec{X: 400, Y: 300}
	a := addGrownBody(t, w, pos, r2.Vec{}, 50)
	b := addGrownBody(t, w, pos, r2.Vec{}, 50)

	w.Step(1)

	for _, body := range []*Body{a, b} {
		if math.IsNaN(body.Center.X) || math.IsNaN(body.Center.Y) ||
			math.IsNaN(body.Velocity.X) || math.IsNaN(body.Velocity.Y) {
			t.Fatalf("coincident pair produced NaN state: %v", body)
		}
	}
}

func TestNonPositiveTimestepUsesDefault(t *testing.T) {
	w := newTestWorld(t)
	b := addGrownBody(t, w, r2.Vec{X: 400, Y: 300}, r2.Vec{X: 10}, 50)

	w.Step(-5)

	if math.Abs(b.Center.X-410) > 1e-9 {
		t.Errorf("center after default-timestep tick = %f, want 410", b.Center.X)
	}
	if w.GetTime() != DefaultTimestep {
		t.Errorf("elapsed time = %f, want %f", w.GetTime(), DefaultTimestep)
	}
}

func TestGlobalDamping(t *testing.T) {
	cfg := config.Default()
	w, err := NewWorld(800, 600, cfg)
	if err != nil {
		t.Fatal(err)
	}
	b := addGrownBody(t, w, r2.Vec{X: 400, Y: 300}, r2.Vec{X: 10}, 50)

	w.Step(1)

	want := 10 * cfg.CenterDamping
	if math.Abs(b.Velocity.X-want) > 1e-12 {
		t.Errorf("velocity after damping = %f, want %f", b.Velocity.X, want)
	}
}

func TestGetBodyAtPicksTopmost(t *testing.T) {
	w := newTestWorld(t)
	pos := r2.Vec{X: 400, Y: 300}
	addGrownBody(t, w, pos, r2.Vec{}, 50)
	top := addGrownBody(t, w, pos, r2.Vec{}, 50)

	if got := w.GetBodyAt(pos); got != top {
		t.Errorf("GetBodyAt returned %v, want the topmost body %v", got, top)
	}
	if got := w.GetBodyAt(r2.Vec{X: 10, Y: 10}); got != nil {
		t.Errorf("GetBodyAt on empty space returned %v, want nil", got)
	}
}

func TestResize(t *testing.T) {
	w := newTestWorld(t)
	w.Resize(1000, 500)
	width, height := w.GetDimensions()
	if width != 1000 || height != 500 {
		t.Errorf("dimensions after resize = %fx%f, want 1000x500", width, height)
	}
	w.Resize(-1, 0) // ignored
	if width, height = w.GetDimensions(); width != 1000 || height != 500 {
		t.Errorf("invalid resize was not ignored: %fx%f", width, height)
	}
}
