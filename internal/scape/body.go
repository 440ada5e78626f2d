package scape

import "math"

const (
	bodyHalfSize    = 0.5
	groundedEpsilon = 0.1
	surfaceEpsilon  = 1e-6
)

// BodyConfig holds the motion constants of the agent's box.
type BodyConfig struct {
	Gravity float64
	// GroundFriction is the fraction of horizontal speed lost per second on the ground.
	GroundFriction float64
}

func DefaultBodyConfig() BodyConfig {
	return BodyConfig{Gravity: 9.81, GroundFriction: 0.5}
}

// Body is the agent's box. It collects actions during a frame and applies
// them on the next Step.
type Body struct {
	cfg    BodyConfig
	course *Course

	X, Y   float64
	VX, VY float64

	onSurface bool
	thrust    *float64
	jump      *[2]float64
}

func NewBody(cfg BodyConfig, course *Course) *Body {
	return &Body{cfg: cfg, course: course}
}

// Reset places the body at rest at (x, y).
func (b *Body) Reset(x, y float64) {
	b.X, b.Y = x, y
	b.VX, b.VY = 0, 0
	b.onSurface = false
	b.thrust = nil
	b.jump = nil
}

// Grounded reports ground contact: resting on a surface with negligible
// vertical speed.
func (b *Body) Grounded() bool {
	return b.onSurface && math.Abs(b.VY) <= groundedEpsilon
}

// ApplyHorizontalForce accumulates thrust for the next step. Opposite thrusts
// that cancel out leave nothing pending.
func (b *Body) ApplyHorizontalForce(force float64) {
	if b.thrust == nil {
		b.thrust = &force
		return
	}
	sum := *b.thrust + force
	if sum == 0 {
		b.thrust = nil
		return
	}
	b.thrust = &sum
}

// ApplyVelocity requests a launch. Only one launch per step is taken and only
// while grounded.
func (b *Body) ApplyVelocity(x, y float64) {
	if !b.Grounded() || b.jump != nil {
		return
	}
	b.jump = &[2]float64{x, y}
}

// Step integrates one frame.
func (b *Body) Step(dt float64) {
	if b.thrust != nil {
		limit := math.Abs(*b.thrust)
		b.VX = math.Max(-limit, math.Min(limit, b.VX+*b.thrust))
		b.thrust = nil
	} else if b.onSurface {
		b.VX *= math.Max(0, 1-b.cfg.GroundFriction*dt)
	}
	if b.jump != nil {
		b.VX += b.jump[0]
		b.VY += b.jump[1]
		b.jump = nil
	}

	b.VY -= b.cfg.Gravity * dt
	prevBottom := b.Y - bodyHalfSize
	b.X += b.VX * dt
	b.Y += b.VY * dt
	bottom := b.Y - bodyHalfSize

	b.onSurface = false
	if b.VY <= 0 && b.course != nil {
		if p, ok := b.course.Landing(b.X, bottom-surfaceEpsilon, prevBottom+surfaceEpsilon); ok {
			b.Y = p.Top + bodyHalfSize
			b.VY = 0
			b.onSurface = true
		}
	}
}
