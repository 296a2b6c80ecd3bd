package server

import (
	"strings"
	"testing"
)

func newSingleWorld(t *testing.T) *World {
	t.Helper()
	return NewWorld(matchConfig{Mode: ModeSinglePlayer, Seed: "seed-a"}, nil)
}

func newVersusWorld(t *testing.T) *World {
	t.Helper()
	return NewWorld(matchConfig{Mode: ModeTwoPlayer, Seed: "seed-a"}, nil)
}

func TestWorldSpawnsBallsOnStartPad(t *testing.T) {
	w := newVersusWorld(t)
	snap := w.Snapshot()

	if len(snap.Balls) != 2 {
		t.Fatalf("versus world spawned %d balls", len(snap.Balls))
	}
	for _, ball := range snap.Balls {
		if !ball.Alive || !ball.OnGround {
			t.Fatalf("ball %s not resting at spawn: %+v", ball.ID, ball)
		}
	}
	if snap.Balls[0].Position != snap.Balls[1].Position {
		t.Fatalf("both balls should share the spawn point")
	}
}

func TestAdvanceClampsTimeStep(t *testing.T) {
	w := newSingleWorld(t)
	w.Advance(5.0)
	if snap := w.Snapshot(); snap.Elapsed != maxTickDelta {
		t.Fatalf("elapsed = %f, want %f", snap.Elapsed, maxTickDelta)
	}
}

func TestFirstTickScoresStartPad(t *testing.T) {
	w := newSingleWorld(t)
	w.Advance(testDT)

	snap := w.Snapshot()
	if snap.Scores[0].Score != platformPointsBase {
		t.Fatalf("resting on the start pad scored %d, want %d", snap.Scores[0].Score, platformPointsBase)
	}

	w.Advance(testDT)
	if snap := w.Snapshot(); snap.Scores[0].Score != platformPointsBase {
		t.Fatalf("start pad paid twice: %d", snap.Scores[0].Score)
	}
}

func TestWorldReplayIsDeterministic(t *testing.T) {
	a := newSingleWorld(t)
	b := newSingleWorld(t)
	for _, w := range []*World{a, b} {
		w.SetKeyState(0, ActionForward, true)
		w.SetKeyState(0, ActionJump, true)
	}

	for i := 0; i < 600; i++ {
		a.Advance(testDT)
		b.Advance(testDT)
	}

	sa, sb := a.Snapshot(), b.Snapshot()
	if sa.Balls[0].Position != sb.Balls[0].Position || sa.Balls[0].Velocity != sb.Balls[0].Velocity {
		t.Fatalf("replay diverged: %+v vs %+v", sa.Balls[0], sb.Balls[0])
	}
	if sa.Scores[0] != sb.Scores[0] {
		t.Fatalf("scores diverged: %+v vs %+v", sa.Scores[0], sb.Scores[0])
	}
}

func TestSinglePlayerDeathEndsMatch(t *testing.T) {
	w := newSingleWorld(t)
	w.players[0].Position.Y = deathY - 1
	w.players[0].OnGround = false
	w.Advance(testDT)

	snap := w.Snapshot()
	if !snap.Status.GameEnded {
		t.Fatalf("death did not end the match")
	}
	if snap.Status.Winner != WinnerNone {
		t.Fatalf("single player match has a winner: %d", snap.Status.Winner)
	}
	if snap.Balls[0].Alive {
		t.Fatalf("fallen ball still alive")
	}
}

func TestEndedMatchIsInert(t *testing.T) {
	w := newSingleWorld(t)
	w.players[0].Position.Y = deathY - 1
	w.players[0].OnGround = false
	w.Advance(testDT)

	before := w.Snapshot()
	w.SetKeyState(0, ActionForward, true)
	for i := 0; i < 10; i++ {
		w.Advance(testDT)
	}
	after := w.Snapshot()

	if before.Balls[0].Position != after.Balls[0].Position {
		t.Fatalf("ended match still moved the ball")
	}
	if before.Scores[0] != after.Scores[0] {
		t.Fatalf("ended match still mutated scores")
	}
	if after.Tick <= before.Tick {
		t.Fatalf("tick counter should keep counting")
	}
}

func TestVersusFallerWinsWithLead(t *testing.T) {
	w := newVersusWorld(t)
	w.scores[0].score = 1200
	w.scores[1].score = 900
	w.players[0].Position.Y = deathY - 1
	w.players[0].OnGround = false

	w.Advance(testDT)

	snap := w.Snapshot()
	if !snap.Status.GameEnded {
		t.Fatalf("fall did not end the versus match")
	}
	if snap.Status.Winner != WinnerPlayer1 {
		t.Fatalf("winner = %d, want P1", snap.Status.Winner)
	}
	if snap.Status.Reason != "P1 WINS! Fell with 300 point lead!" {
		t.Fatalf("reason = %q", snap.Status.Reason)
	}
	if snap.Scores[0].Score != 1200 || snap.Scores[1].Score != 900 {
		t.Fatalf("adjudication mutated scores: %+v", snap.Scores)
	}
}

func TestVersusSurvivorWinsInsideMargin(t *testing.T) {
	w := newVersusWorld(t)
	w.scores[0].score = 1000
	w.scores[1].score = 1050
	w.players[0].Position.Y = deathY - 1
	w.players[0].OnGround = false

	w.Advance(testDT)

	snap := w.Snapshot()
	if snap.Status.Winner != WinnerPlayer2 {
		t.Fatalf("winner = %d, want P2", snap.Status.Winner)
	}
	if !strings.Contains(snap.Status.Reason, "P1 fell") {
		t.Fatalf("reason = %q", snap.Status.Reason)
	}
}

func TestSimultaneousFallAdjudicatesPlayerOneFirst(t *testing.T) {
	w := newVersusWorld(t)
	for _, player := range w.players {
		player.Position.Y = deathY - 1
		player.OnGround = false
	}

	w.Advance(testDT)

	snap := w.Snapshot()
	if snap.Status.Winner != WinnerPlayer2 {
		t.Fatalf("tied simultaneous fall should adjudicate P1's drop first, winner = %d", snap.Status.Winner)
	}
	if snap.Status.Reason != "P2 WINS! P1 fell (score diff: 0)" {
		t.Fatalf("reason = %q", snap.Status.Reason)
	}
}

func TestLevelExtendsAndTrimsAroundTheBall(t *testing.T) {
	w := newSingleWorld(t)
	w.players[0].Position.Z = -100
	w.players[0].OnGround = false

	for i := 0; i < 12; i++ {
		w.Advance(testDT)
	}

	snap := w.Snapshot()
	if len(snap.Platforms) == 0 {
		t.Fatalf("extension never caught up with the ball")
	}
	for _, p := range snap.Platforms {
		if p.Base.Z > -100+cleanupTrail {
			t.Fatalf("platform %s at z=%f trails beyond the cleanup distance", p.ID, p.Base.Z)
		}
		if p.Index == 0 {
			t.Fatalf("start pad survived cleanup")
		}
	}
}

func TestResetRestoresLayoutAndKeepsHighScore(t *testing.T) {
	w := newSingleWorld(t)
	w.Advance(testDT)
	w.players[0].Position.Y = deathY - 1
	w.players[0].OnGround = false
	w.Advance(testDT)

	if snap := w.Snapshot(); !snap.Status.GameEnded {
		t.Fatalf("setup did not end the match")
	}

	w.Reset()
	snap := w.Snapshot()

	if snap.Status.GameEnded || snap.Status.Winner != WinnerNone {
		t.Fatalf("reset left the match ended: %+v", snap.Status)
	}
	if snap.Elapsed != 0 {
		t.Fatalf("elapsed = %f after reset", snap.Elapsed)
	}
	if !snap.Balls[0].Alive || !snap.Balls[0].OnGround {
		t.Fatalf("ball not respawned: %+v", snap.Balls[0])
	}
	if snap.Scores[0].Score != 0 {
		t.Fatalf("score = %d after reset", snap.Scores[0].Score)
	}
	if snap.Scores[0].HighScore != platformPointsBase {
		t.Fatalf("highScore = %d, want %d", snap.Scores[0].HighScore, platformPointsBase)
	}

	fresh := newSingleWorld(t)
	freshSnap := fresh.Snapshot()
	if len(snap.Platforms) != len(freshSnap.Platforms) {
		t.Fatalf("reset layout size %d differs from fresh %d", len(snap.Platforms), len(freshSnap.Platforms))
	}
	for i := range snap.Platforms {
		if snap.Platforms[i].ID != freshSnap.Platforms[i].ID || snap.Platforms[i].Base != freshSnap.Platforms[i].Base {
			t.Fatalf("reset layout differs at %d: %+v vs %+v", i, snap.Platforms[i], freshSnap.Platforms[i])
		}
	}
}

func TestSnapshotIsDetachedFromLiveState(t *testing.T) {
	w := newSingleWorld(t)
	snap := w.Snapshot()
	snap.Balls[0].Position.X = 999
	snap.Platforms[0].Base.X = 999

	if w.players[0].Position.X == 999 {
		t.Fatalf("snapshot shares ball state with the world")
	}
	if w.generator.platforms[0].Base.X == 999 {
		t.Fatalf("snapshot shares platform state with the world")
	}
}
