package server

import (
	"math"
	"testing"
)

func newHorizontalPlatform() *Platform {
	return &Platform{
		ID:        "platform-1",
		Index:     1,
		Base:      Vec3{X: 1, Z: -4},
		Position:  Vec3{X: 1, Z: -4},
		Width:     2.8,
		Height:    platformThickness,
		Depth:     2.8,
		Movement:  MovementHorizontal,
		Amplitude: 3.0,
		Speed:     1.2,
	}
}

func TestPlatformPoseIsFunctionOfElapsedTime(t *testing.T) {
	stepped := newHorizontalPlatform()
	jumped := newHorizontalPlatform()

	dt := 1.0 / float64(tickRate)
	elapsed := 0.0
	for i := 0; i < 240; i++ {
		elapsed += dt
		stepped.Advance(elapsed, dt)
	}
	jumped.Advance(elapsed, dt)

	if math.Abs(stepped.Position.X-jumped.Position.X) > 1e-9 {
		t.Fatalf("pose diverged: stepped x=%.12f jumped x=%.12f", stepped.Position.X, jumped.Position.X)
	}
	want := jumped.Base.X + math.Sin(elapsed*jumped.Speed)*jumped.Amplitude
	if math.Abs(jumped.Position.X-want) > 1e-9 {
		t.Fatalf("pose not analytic: got %.12f want %.12f", jumped.Position.X, want)
	}
}

func TestPlatformVelocityIsFiniteDifference(t *testing.T) {
	p := newHorizontalPlatform()
	dt := 1.0 / float64(tickRate)

	p.Advance(0.5, dt)
	prevX := p.Position.X
	p.Advance(0.5+dt, dt)

	want := (p.Position.X - prevX) / dt
	if math.Abs(p.VelX-want) > 1e-9 {
		t.Fatalf("velX = %.12f, want %.12f", p.VelX, want)
	}
	if p.VelZ != 0 {
		t.Fatalf("horizontal platform reported velZ = %f", p.VelZ)
	}
}

func TestPlatformVelocityZeroWithoutTimeStep(t *testing.T) {
	p := newHorizontalPlatform()
	p.Advance(0.5, 1.0/float64(tickRate))
	p.Advance(1.0, 0)
	if p.VelX != 0 || p.VelZ != 0 {
		t.Fatalf("expected zero velocity for dt=0, got (%f, %f)", p.VelX, p.VelZ)
	}
}

func TestTiltPlatformKeepsFootprintStationary(t *testing.T) {
	p := newHorizontalPlatform()
	p.Movement = MovementTilt
	p.TiltSpeed = 1.5

	p.Advance(2.0, 1.0/float64(tickRate))

	if p.Position.X != p.Base.X || p.Position.Z != p.Base.Z {
		t.Fatalf("tilt platform moved: (%f, %f)", p.Position.X, p.Position.Z)
	}
	want := math.Sin(2.0*p.TiltSpeed) * 0.3
	if math.Abs(p.TiltX-want) > 1e-9 {
		t.Fatalf("tiltX = %f, want %f", p.TiltX, want)
	}
}

func TestSupportsLandingBand(t *testing.T) {
	p := &Platform{
		Position: Vec3{Y: 1.0},
		Width:    4,
		Height:   platformThickness,
		Depth:    4,
	}
	top := p.TopSurfaceY()

	cases := []struct {
		name       string
		ballBottom float64
		want       bool
	}{
		{"resting on top", top, true},
		{"just above within tolerance", top + landingTolerance - 1e-9, true},
		{"too far above", top + landingTolerance + 0.01, false},
		{"within band below", top - landingBand + 1e-9, true},
		{"below band", top - landingBand - 0.01, false},
	}
	for _, tc := range cases {
		if got := p.supports(0, tc.ballBottom, 0); got != tc.want {
			t.Fatalf("%s: supports = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSupportsHorizontalFootprint(t *testing.T) {
	p := &Platform{Width: 2, Height: platformThickness, Depth: 2}
	top := p.TopSurfaceY()

	if !p.supports(1.0+landingTolerance-1e-9, top, 0) {
		t.Fatalf("edge within tolerance should support")
	}
	if p.supports(1.0+landingTolerance+0.01, top, 0) {
		t.Fatalf("beyond lateral tolerance should not support")
	}
	if p.supports(0, top, 1.2) {
		t.Fatalf("beyond depth tolerance should not support")
	}
}
