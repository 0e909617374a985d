package visualization

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"gonum.org/v1/gonum/spatial/r2"

	"jellyball-sim/internal/config"
	"jellyball-sim/internal/simulation"
)

const outlineWidth = 3.0

var backgroundColor = color.RGBA{24, 24, 32, 255}

// Renderer implements ebiten.Game: it drives the world with a timestep
// derived from the wall-clock frame delta, maps pointer and keyboard input
// onto the world, and draws every body as a textured deformed polygon.
type Renderer struct {
	world *simulation.World
	cfg   config.Config

	lastFrame time.Time

	// Textures are owned here, keyed by body ID: the simulation knows
	// nothing about images.
	textures map[string]*ebiten.Image

	// Drag state for the pointer impulse gesture.
	dragBody    *simulation.Body
	dragStart   r2.Vec
	dragCurrent r2.Vec

	// Scratch buffers reused across frames.
	vertices []ebiten.Vertex
	indices  []uint16
}

// NewRenderer creates a renderer for the given world.
func NewRenderer(world *simulation.World, cfg config.Config) *Renderer {
	return &Renderer{
		world:    world,
		cfg:      cfg,
		textures: make(map[string]*ebiten.Image),
	}
}

// Update is called once per ebiten tick. It handles input first, then steps
// the simulation exactly once; Draw for the same frame runs strictly after.
func (r *Renderer) Update() error {
	r.handleInput()

	now := time.Now()
	dt := 0.0
	if !r.lastFrame.IsZero() {
		dt = now.Sub(r.lastFrame).Seconds() * r.cfg.TimeScale
	}
	r.lastFrame = now
	if dt > r.cfg.MaxStep {
		dt = r.cfg.MaxStep
	}
	// A zero or negative dt is handled inside Step by the default timestep.
	r.world.Step(dt)
	return nil
}

// handleInput maps the pointer drag gesture and the spawn key onto the
// world: press inside a body grabs it, release converts the accumulated
// drag vector into a velocity change plus a localized dent, and the space
// key spawns a new body under the cursor.
func (r *Renderer) handleInput() {
	cx, cy := ebiten.CursorPosition()
	cursor := r2.Vec{X: float64(cx), Y: float64(cy)}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if b := r.world.GetBodyAt(cursor); b != nil {
			r.dragBody = b
			r.dragStart = cursor
			r.dragCurrent = cursor
		}
	}
	if r.dragBody != nil && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		r.dragCurrent = cursor
	}
	if r.dragBody != nil && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		drag := r2.Sub(r.dragCurrent, r.dragStart)
		if mag := r2.Norm(drag); mag > 0 {
			r.dragBody.Velocity = r2.Add(r.dragBody.Velocity, r2.Scale(r.cfg.MouseImpulseFactor, drag))
			angle := math.Atan2(drag.Y, drag.X)
			r.dragBody.ApplyImpulseAt(angle, mag*r.cfg.MouseImpulseFactor*10)
		}
		r.dragBody = nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		// A capacity error just means the keypress is ignored.
		r.world.SpawnBodyAt(cursor)
	}
}

// Draw renders every body in z-order: a textured interior clipped to the
// deformed contour polygon, then the outline stroke in the body's color.
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	for _, b := range r.world.GetBodies() {
		r.drawBodyFill(screen, b)
		r.drawBodyOutline(screen, b)
	}

	r.drawDebugInfo(screen)
}

// drawBodyFill draws the body texture clipped to the contour polygon by
// rendering a triangle fan whose source coordinates map the body's local
// frame onto the texture.
func (r *Renderer) drawBodyFill(screen *ebiten.Image, b *simulation.Body) {
	tex, ok := r.textures[b.ID]
	if !ok {
		tex = generateTexture(b.Color)
		r.textures[b.ID] = tex
	}

	contour := b.Contour()
	n := len(contour)
	if n < 3 || b.BaseRadius <= 0 {
		return
	}

	// Local offsets never exceed 1.5 * BaseRadius (displacement is clamped
	// to half the radius), so this scale keeps source coordinates inside
	// the texture.
	texSize := float64(tex.Bounds().Dx())
	srcScale := texSize / (3 * b.BaseRadius)
	srcCenter := texSize / 2

	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]

	r.vertices = append(r.vertices, ebiten.Vertex{
		DstX: float32(b.Center.X), DstY: float32(b.Center.Y),
		SrcX: float32(srcCenter), SrcY: float32(srcCenter),
		ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
	})
	for _, node := range contour {
		radius := b.BaseRadius + node.Displacement
		dx := math.Cos(node.Angle) * radius
		dy := math.Sin(node.Angle) * radius
		r.vertices = append(r.vertices, ebiten.Vertex{
			DstX: float32(b.Center.X + dx), DstY: float32(b.Center.Y + dy),
			SrcX: float32(srcCenter + dx*srcScale), SrcY: float32(srcCenter + dy*srcScale),
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		})
	}
	for k := 0; k < n; k++ {
		r.indices = append(r.indices, 0, uint16(1+k), uint16(1+(k+1)%n))
	}

	screen.DrawTriangles(r.vertices, r.indices, tex, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// drawBodyOutline strokes the closed contour polygon.
func (r *Renderer) drawBodyOutline(screen *ebiten.Image, b *simulation.Body) {
	contour := b.Contour()
	n := len(contour)
	for k := 0; k < n; k++ {
		a, c := contour[k], contour[(k+1)%n]
		ra := b.BaseRadius + a.Displacement
		rc := b.BaseRadius + c.Displacement
		vector.StrokeLine(screen,
			float32(b.Center.X+math.Cos(a.Angle)*ra), float32(b.Center.Y+math.Sin(a.Angle)*ra),
			float32(b.Center.X+math.Cos(c.Angle)*rc), float32(b.Center.Y+math.Sin(c.Angle)*rc),
			outlineWidth, b.Color, true)
	}
}

func (r *Renderer) drawDebugInfo(screen *ebiten.Image) {
	msg := fmt.Sprintf("Simulated time: %.1f\n", r.world.GetTime())
	msg += fmt.Sprintf("FPS: %.1f, TPS: %.1f\n", ebiten.ActualFPS(), ebiten.ActualTPS())
	msg += fmt.Sprintf("Bodies: %d/%d\n", len(r.world.GetBodies()), r.cfg.MaxBodies)
	msg += "Drag a ball to fling it, space to spawn"
	ebitenutil.DebugPrint(screen, msg)
}

// Layout is called when the window size changes; the world domain follows
// the window so the walls always match the visible edges.
func (r *Renderer) Layout(outsideWidth, outsideHeight int) (int, int) {
	r.world.Resize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}
