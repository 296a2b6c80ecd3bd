package server

import "math"

// Action is one of the discrete inputs a player can hold.
type Action string

const (
	ActionForward Action = "forward"
	ActionBack    Action = "back"
	ActionLeft    Action = "left"
	ActionRight   Action = "right"
	ActionJump    Action = "jump"
)

// parseAction validates an action string received from a client.
func parseAction(value string) (Action, bool) {
	switch Action(value) {
	case ActionForward, ActionBack, ActionLeft, ActionRight, ActionJump:
		return Action(value), true
	default:
		return "", false
	}
}

// Ball is the broadcast-facing snapshot of a player ball.
type Ball struct {
	ID          string  `json:"id"`
	PlayerIndex int     `json:"playerIndex"`
	Position    Vec3    `json:"position"`
	Velocity    Vec3    `json:"velocity"`
	Radius      float64 `json:"radius"`
	Alive       bool    `json:"alive"`
	OnGround    bool    `json:"onGround"`
	Stunned     bool    `json:"stunned"`
	SpeedBoost  float64 `json:"speedBoost"`
}

type ballState struct {
	Ball
	canJump   bool
	stunTime  float64
	boostTime float64
	friction  float64
	keys      map[Action]bool
}

func newBallState(id string, playerIndex int, spawn Vec3) *ballState {
	return &ballState{
		Ball: Ball{
			ID:          id,
			PlayerIndex: playerIndex,
			Position:    spawn,
			Radius:      ballRadius,
			Alive:       true,
			OnGround:    true,
			SpeedBoost:  1.0,
		},
		canJump:  true,
		friction: groundFriction,
		keys:     make(map[Action]bool),
	}
}

func (b *ballState) snapshot() Ball {
	return b.Ball
}

// setKey records a press or release for one action.
func (b *ballState) setKey(action Action, down bool) {
	b.keys[action] = down
}

// inputForce derives the horizontal force vector from the held keys.
// Forward travel is -z.
func (b *ballState) inputForce() (float64, float64) {
	fx, fz := 0.0, 0.0
	if b.keys[ActionForward] {
		fz -= moveForce
	}
	if b.keys[ActionBack] {
		fz += moveForce
	}
	if b.keys[ActionLeft] {
		fx -= moveForce
	}
	if b.keys[ActionRight] {
		fx += moveForce
	}
	return fx, fz
}

// applyForce accelerates the ball horizontally. Stunned or dead balls ignore
// input entirely.
func (b *ballState) applyForce(fx, fz, dt float64) {
	if !b.Alive || b.stunTime > 0 {
		return
	}
	b.Velocity.X += fx * dt * b.SpeedBoost
	b.Velocity.Z += fz * dt * b.SpeedBoost
	b.clampHorizontalSpeed()
}

func (b *ballState) clampHorizontalSpeed() {
	limit := maxSpeed * b.SpeedBoost
	speed := math.Hypot(b.Velocity.X, b.Velocity.Z)
	if speed > limit && speed > 0 {
		scale := limit / speed
		b.Velocity.X *= scale
		b.Velocity.Z *= scale
	}
}

// jump fires if the ball is alive, supported, and has not already spent its
// jump. canJump re-arms only on confirmed ground contact, so holding the key
// cannot double-jump.
func (b *ballState) jump() bool {
	if !b.Alive || !b.OnGround || !b.canJump {
		return false
	}
	b.Velocity.Y = jumpForce
	b.OnGround = false
	b.canJump = false
	return true
}

// stun halts input response for the duration and bleeds off half the
// horizontal velocity.
func (b *ballState) stun(duration float64) {
	b.stunTime = duration
	b.Stunned = true
	b.Velocity.X *= stunVelocityScale
	b.Velocity.Z *= stunVelocityScale
}

// update advances ball physics one tick and returns the supporting platform,
// if any. The step order is load-bearing: timers, gravity, integration,
// collision, coupling, friction, clamp, death.
func (b *ballState) update(dt float64, platforms []*Platform) *Platform {
	if !b.Alive {
		return nil
	}

	if b.stunTime > 0 {
		b.stunTime -= dt
		if b.stunTime <= 0 {
			b.stunTime = 0
			b.Stunned = false
		}
	}
	if b.boostTime > 0 {
		b.boostTime -= dt
		if b.boostTime <= 0 {
			b.boostTime = 0
			b.SpeedBoost = 1.0
		}
	}

	b.Velocity.Y += gravity * dt

	b.Position.X += b.Velocity.X * dt
	b.Position.Y += b.Velocity.Y * dt
	b.Position.Z += b.Velocity.Z * dt

	// Collision pass. on_ground is recomputed from scratch every tick; the
	// first platform that supports the ball wins regardless of fit.
	b.OnGround = false
	var support *Platform
	for _, platform := range platforms {
		if !platform.supports(b.Position.X, b.Position.Y-b.Radius, b.Position.Z) {
			continue
		}
		impactVy := b.Velocity.Y
		b.Position.Y = platform.TopSurfaceY() + b.Radius
		if b.Velocity.Y < 0 {
			b.Velocity.Y = 0
		}
		b.OnGround = true
		b.canJump = true
		b.applyPlatformEffect(platform, impactVy)
		support = platform
		break
	}

	// Coupling: a supported ball is carried by the platform's displacement,
	// as a positional nudge rather than a force.
	if support != nil {
		b.Position.X += support.VelX * couplingRatio * dt
		b.Position.Z += support.VelZ * couplingRatio * dt
	}

	if b.OnGround {
		b.Velocity.X *= b.friction
		b.Velocity.Z *= b.friction
	} else {
		b.Velocity.X *= airFriction
		b.Velocity.Z *= airFriction
	}

	b.clampHorizontalSpeed()

	if b.Position.Y < deathY {
		b.Alive = false
	}

	return support
}

// applyPlatformEffect dispatches on the closed platform-effect enum.
// impactVy is the vertical velocity before the landing snap zeroed it.
func (b *ballState) applyPlatformEffect(platform *Platform, impactVy float64) {
	switch platform.Effect {
	case EffectSpeedBoost:
		b.SpeedBoost = speedBoostMultiplier
		b.boostTime = speedBoostDuration
		b.friction = groundFriction
	case EffectBounce:
		if impactVy < -bounceMinImpact {
			b.Velocity.Y = math.Abs(impactVy)*bounceScale + bounceLift
		}
		b.friction = groundFriction
	case EffectSlippery:
		b.friction = slipperyFriction
	default:
		b.friction = groundFriction
	}
}

// reset restores the ball to spawn state for a restart.
func (b *ballState) reset(spawn Vec3) {
	b.Position = spawn
	b.Velocity = Vec3{}
	b.Alive = true
	b.OnGround = true
	b.Stunned = false
	b.SpeedBoost = 1.0
	b.canJump = true
	b.stunTime = 0
	b.boostTime = 0
	b.friction = groundFriction
}
