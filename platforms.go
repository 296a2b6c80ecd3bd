package server

import "math"

// MovementKind tags how a platform's pose evolves over time.
type MovementKind string

const (
	MovementStatic      MovementKind = "static"
	MovementHorizontal  MovementKind = "horizontal"
	MovementForwardBack MovementKind = "forward_back"
	MovementTilt        MovementKind = "tilt"
	MovementRotateTilt  MovementKind = "rotate_tilt"
	// MovementMoving is the legacy side-to-side tag from early level data.
	// Kinematically identical to MovementHorizontal but kept distinct so old
	// layouts round-trip unchanged.
	MovementMoving MovementKind = "moving"
)

// PlatformEffect tags what landing on a platform does to the ball.
type PlatformEffect string

const (
	EffectNormal     PlatformEffect = "normal"
	EffectSpeedBoost PlatformEffect = "speed_boost"
	EffectBounce     PlatformEffect = "bounce"
	EffectSlippery   PlatformEffect = "slippery"
)

// Vec3 is a plain value vector shared by snapshots and wire messages.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Platform is a kinematic level element. Its current pose is always a pure
// function of (base position, elapsed time, movement parameters); nothing is
// accumulated by integration, so two worlds at the same elapsed time agree
// exactly.
type Platform struct {
	ID       string         `json:"id"`
	Index    int            `json:"index"`
	Base     Vec3           `json:"base"`
	Position Vec3           `json:"position"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	Depth    float64        `json:"depth"`
	Color    [3]float64     `json:"color"`
	Movement MovementKind   `json:"movement"`
	Effect   PlatformEffect `json:"effect"`

	Amplitude float64 `json:"amplitude"`
	Speed     float64 `json:"speed"`
	TiltSpeed float64 `json:"tiltSpeed"`
	Phase     float64 `json:"phase"`

	VelX  float64 `json:"velX"`
	VelZ  float64 `json:"velZ"`
	TiltX float64 `json:"tiltX"`
	TiltZ float64 `json:"tiltZ"`

	Passed bool `json:"passed"`
}

// Advance re-evaluates the pose for the given elapsed time. Velocity is the
// finite difference over dt, the same clamped delta the frame driver used, so
// coupling sees exactly the displacement the platform made this tick. A
// non-positive dt yields zero velocity.
func (p *Platform) Advance(elapsed, dt float64) {
	prevX := p.Position.X
	prevZ := p.Position.Z

	switch p.Movement {
	case MovementHorizontal, MovementMoving:
		p.Position.X = p.Base.X + math.Sin(elapsed*p.Speed+p.Phase)*p.Amplitude
	case MovementForwardBack:
		p.Position.Z = p.Base.Z + math.Sin(elapsed*p.Speed+p.Phase)*p.Amplitude
	case MovementTilt:
		p.TiltX = math.Sin(elapsed*p.TiltSpeed) * 0.3
	case MovementRotateTilt:
		p.TiltX = math.Sin(elapsed*p.TiltSpeed) * 0.2
		p.TiltZ = math.Cos(elapsed*p.TiltSpeed*0.7) * 0.2
	}

	if dt > 0 {
		p.VelX = (p.Position.X - prevX) / dt
		p.VelZ = (p.Position.Z - prevZ) / dt
	} else {
		p.VelX = 0
		p.VelZ = 0
	}
}

// ContainsPointAbove reports whether (px, pz) sits within the platform's
// horizontal footprint. Tilting platforms are tested as unrotated boxes; the
// tilt angles are cosmetic as far as landing is concerned.
func (p *Platform) ContainsPointAbove(px, pz float64) bool {
	if px < p.Position.X-p.Width/2-landingTolerance || px > p.Position.X+p.Width/2+landingTolerance {
		return false
	}
	if pz < p.Position.Z-p.Depth/2-landingTolerance || pz > p.Position.Z+p.Depth/2+landingTolerance {
		return false
	}
	return true
}

// TopSurfaceY returns the resting height of the platform's upper face.
func (p *Platform) TopSurfaceY() float64 {
	return p.Position.Y + p.Height/2
}

// supports reports whether a ball bottom at ballBottom over (px, pz) should
// land on this platform this tick.
func (p *Platform) supports(px, ballBottom, pz float64) bool {
	if !p.ContainsPointAbove(px, pz) {
		return false
	}
	top := p.TopSurfaceY()
	return ballBottom <= top+landingTolerance && ballBottom >= top-landingBand
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
