package server

import (
	"math"
	"testing"
)

func TestObstaclePoseIsFunctionOfElapsedTime(t *testing.T) {
	bar := newSpinningBar("obstacle-1", -24, 2.0)
	bar.Advance(3.0)
	want := math.Mod(3.0*2.0, 2*math.Pi)
	if math.Abs(bar.Angle-want) > 1e-9 {
		t.Fatalf("bar angle = %f, want %f", bar.Angle, want)
	}

	wall := newPushWall("obstacle-2", -24, 1.0)
	stepped := newPushWall("obstacle-2", -24, 1.0)
	dt := 1.0 / float64(tickRate)
	for i := 1; i <= 300; i++ {
		stepped.Advance(float64(i) * dt)
	}
	wall.Advance(300 * dt)
	if math.Abs(stepped.Position.X-wall.Position.X) > 1e-9 {
		t.Fatalf("push wall drifted: stepped %f vs jumped %f", stepped.Position.X, wall.Position.X)
	}
}

func TestPushWallStaysInRange(t *testing.T) {
	wall := newPushWall("obstacle-1", -24, -1.0)
	for elapsed := 0.0; elapsed < 30; elapsed += 0.05 {
		wall.Advance(elapsed)
		offset := wall.Position.X - wall.Base.X
		if math.Abs(offset) > pushWallRange+1e-9 {
			t.Fatalf("wall left its track at elapsed=%f: offset %f", elapsed, offset)
		}
	}
}

func TestPushWallSweepReverses(t *testing.T) {
	wall := newPushWall("obstacle-1", -24, 1.0)
	period := 4 * pushWallRange / wall.Speed

	first := wall.sweepDirection(period * 0.25)
	second := wall.sweepDirection(period * 0.75)
	if first == second {
		t.Fatalf("sweep direction never reversed: %f and %f", first, second)
	}

	fx, fz := wall.pushForce(period * 0.25)
	if math.Abs(fx) != pushWallForce || fz != 0 {
		t.Fatalf("push force = (%f, %f)", fx, fz)
	}
}

func TestHammerHeadHitDetection(t *testing.T) {
	hammer := newHammer("obstacle-1", 0, -24, 2.0)
	hammer.Angle = 0

	head := Vec3{X: hammerReach, Y: hammer.Position.Y, Z: -24}
	if !hammer.hitsBall(head, ballRadius) {
		t.Fatalf("ball at the hammer head not hit")
	}

	base := Vec3{X: -hammerReach, Y: hammer.Position.Y, Z: -24}
	if hammer.hitsBall(base, ballRadius) {
		t.Fatalf("ball opposite the head was hit")
	}
}

func TestSpinningBarHitRequiresHeightOverlap(t *testing.T) {
	bar := newSpinningBar("obstacle-1", -24, 2.0)

	level := Vec3{X: 1, Y: bar.Position.Y, Z: -24}
	if !bar.hitsBall(level, ballRadius) {
		t.Fatalf("ball at bar height inside the sweep not hit")
	}

	above := Vec3{X: 1, Y: bar.Position.Y + barThickness + ballRadius + 0.1, Z: -24}
	if bar.hitsBall(above, ballRadius) {
		t.Fatalf("ball safely above the bar was hit")
	}

	outside := Vec3{X: barLength/2 + ballRadius + 0.1, Y: bar.Position.Y, Z: -24}
	if bar.hitsBall(outside, ballRadius) {
		t.Fatalf("ball outside the sweep radius was hit")
	}
}
