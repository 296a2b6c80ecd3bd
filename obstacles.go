package server

import "math"

// ObstacleKind tags the hazard behavior of an obstacle.
type ObstacleKind string

const (
	ObstacleSpinningBar ObstacleKind = "spinning_bar"
	ObstacleHammer      ObstacleKind = "hammer"
	ObstaclePushWall    ObstacleKind = "push_wall"
)

// Obstacle is a single hazard record. Like platforms, its pose is derived
// from elapsed time rather than integrated, so obstacles never drift.
type Obstacle struct {
	ID       string       `json:"id"`
	Kind     ObstacleKind `json:"kind"`
	Base     Vec3         `json:"base"`
	Position Vec3         `json:"position"`

	RotationSpeed float64 `json:"rotationSpeed,omitempty"`
	Angle         float64 `json:"angle,omitempty"`
	Direction     float64 `json:"direction,omitempty"`
	Speed         float64 `json:"speed,omitempty"`
	Width         float64 `json:"width,omitempty"`
	Height        float64 `json:"height,omitempty"`
	Depth         float64 `json:"depth,omitempty"`
}

// Advance re-evaluates the obstacle pose for the given elapsed time.
func (o *Obstacle) Advance(elapsed float64) {
	switch o.Kind {
	case ObstacleSpinningBar, ObstacleHammer:
		o.Angle = math.Mod(elapsed*o.RotationSpeed, 2*math.Pi)
	case ObstaclePushWall:
		// Back-and-forth sweep between ±pushWallRange, expressed as a
		// triangle wave so the pose stays a pure function of elapsed time.
		o.Position.X = o.Base.X + o.Direction*triangleWave(elapsed*o.Speed, pushWallRange)
	}
}

// sweepDirection reports which way a push wall is currently traveling.
func (o *Obstacle) sweepDirection(elapsed float64) float64 {
	period := 4 * pushWallRange
	phase := math.Mod(elapsed*o.Speed, period)
	if phase < 0 {
		phase += period
	}
	if phase < period/2 {
		return o.Direction
	}
	return -o.Direction
}

// triangleWave maps t to a wave oscillating between -amplitude and +amplitude
// with unit slope.
func triangleWave(t, amplitude float64) float64 {
	period := 4 * amplitude
	phase := math.Mod(t, period)
	if phase < 0 {
		phase += period
	}
	if phase < period/2 {
		return phase - amplitude
	}
	return 3*amplitude - phase
}

// hitsBall reports whether the obstacle intersects a ball at pos.
func (o *Obstacle) hitsBall(pos Vec3, radius float64) bool {
	switch o.Kind {
	case ObstacleHammer:
		headX := o.Position.X + math.Cos(o.Angle)*hammerReach
		headZ := o.Position.Z + math.Sin(o.Angle)*hammerReach
		dx := pos.X - headX
		dy := pos.Y - o.Position.Y
		dz := pos.Z - headZ
		return math.Sqrt(dx*dx+dy*dy+dz*dz) < radius+hammerHitRadius
	case ObstacleSpinningBar:
		dx := pos.X - o.Position.X
		dy := pos.Y - o.Position.Y
		dz := pos.Z - o.Position.Z
		distance := math.Sqrt(dx*dx + dy*dy + dz*dz)
		return distance < barLength/2+radius && math.Abs(dy) < barThickness+radius
	case ObstaclePushWall:
		return math.Abs(pos.X-o.Position.X) < o.Width/2+radius &&
			math.Abs(pos.Y-o.Position.Y) < o.Height/2+radius &&
			math.Abs(pos.Z-o.Position.Z) < o.Depth/2+radius
	}
	return false
}

// pushForce returns the horizontal shove a push wall applies while
// overlapping the ball. Other kinds push nothing.
func (o *Obstacle) pushForce(elapsed float64) (float64, float64) {
	if o.Kind != ObstaclePushWall {
		return 0, 0
	}
	return o.sweepDirection(elapsed) * pushWallForce, 0
}
