package server

import "testing"

func TestPlatformAwardIsIdempotent(t *testing.T) {
	board := newScoreboard()

	if got := board.awardPlatform(2, 100); got != 300 {
		t.Fatalf("first touch of index 2 paid %d, want 300", got)
	}
	if got := board.awardPlatform(2, 100); got != 0 {
		t.Fatalf("second touch paid %d, want 0", got)
	}
	if board.score != 300 {
		t.Fatalf("score = %d, want 300", board.score)
	}
}

func TestPlatformPointsScaleWithIndex(t *testing.T) {
	board := newScoreboard()
	board.awardPlatform(0, 100)
	board.awardPlatform(4, 100)
	if board.score != 100+500 {
		t.Fatalf("score = %d, want 600", board.score)
	}
}

func TestCompletionBonusPaysOnce(t *testing.T) {
	board := newScoreboard()
	board.awardPlatform(0, 3)
	board.awardPlatform(1, 3)

	got := board.awardPlatform(2, 3)
	if got != 300+completionBonus {
		t.Fatalf("final platform paid %d, want %d", got, 300+completionBonus)
	}
	if !board.completed {
		t.Fatalf("completion flag not set")
	}
	if board.score != 100+200+300+completionBonus {
		t.Fatalf("score = %d", board.score)
	}
}

func TestCheckpointCrossingIsIdempotent(t *testing.T) {
	board := newScoreboard()

	if crossed := board.awardCheckpoints(-20); len(crossed) != 1 || crossed[0] != 1 {
		t.Fatalf("crossing -20 awarded %v", crossed)
	}
	if board.score != checkpointBonus {
		t.Fatalf("score = %d, want %d", board.score, checkpointBonus)
	}

	// Oscillating around a crossed threshold pays nothing more.
	if crossed := board.awardCheckpoints(-19.5); crossed != nil {
		t.Fatalf("retreating awarded %v", crossed)
	}
	if crossed := board.awardCheckpoints(-20.5); crossed != nil {
		t.Fatalf("re-crossing awarded %v", crossed)
	}

	if crossed := board.awardCheckpoints(-61); len(crossed) != 2 {
		t.Fatalf("jump to -61 should credit checkpoints 2 and 3, got %v", crossed)
	}
	if board.score != 3*checkpointBonus {
		t.Fatalf("score = %d, want %d", board.score, 3*checkpointBonus)
	}
}

func TestCheckpointsIgnoreBackwardTravel(t *testing.T) {
	board := newScoreboard()
	if crossed := board.awardCheckpoints(15); crossed != nil {
		t.Fatalf("positive z awarded %v", crossed)
	}
}

func TestVersusAdjudication(t *testing.T) {
	cases := []struct {
		name       string
		p1Fell     bool
		score1     int
		score2     int
		wantWinner Winner
		wantReason string
	}{
		{"faller keeps a big lead", true, 1200, 900, WinnerPlayer1, "P1 WINS! Fell with 300 point lead!"},
		{"faller trails", true, 1000, 1050, WinnerPlayer2, "P2 WINS! P1 fell (score diff: 50)"},
		{"lead inside the margin", true, 1100, 1000, WinnerPlayer2, "P2 WINS! P1 fell (score diff: 100)"},
		{"survivor wins by default", false, 1000, 1050, WinnerPlayer1, "P1 WINS! P2 fell (score diff: 50)"},
		{"p2 falls with a big lead", false, 600, 900, WinnerPlayer2, "P2 WINS! Fell with 300 point lead!"},
	}

	for _, tc := range cases {
		winner, reason := adjudicateVersus(tc.p1Fell, tc.score1, tc.score2)
		if winner != tc.wantWinner {
			t.Fatalf("%s: winner = %d, want %d", tc.name, winner, tc.wantWinner)
		}
		if reason != tc.wantReason {
			t.Fatalf("%s: reason = %q, want %q", tc.name, reason, tc.wantReason)
		}
	}
}

func TestResetKeepsSessionBests(t *testing.T) {
	board := newScoreboard()
	board.awardPlatform(0, 100)
	board.awardPlatform(1, 100)
	board.noteCompletion(42.5)

	board.reset()

	if board.score != 0 || board.completed {
		t.Fatalf("reset left match state behind: %+v", board.snapshot())
	}
	if board.highScore != 300 {
		t.Fatalf("highScore = %d, want 300", board.highScore)
	}
	if board.bestTime != 42.5 {
		t.Fatalf("bestTime = %f, want 42.5", board.bestTime)
	}

	if got := board.awardPlatform(0, 100); got != 100 {
		t.Fatalf("platform awards did not re-arm after reset, paid %d", got)
	}
}

func TestBestTimeKeepsFastestClear(t *testing.T) {
	board := newScoreboard()
	board.noteCompletion(60)
	board.noteCompletion(45)
	board.noteCompletion(90)
	if board.bestTime != 45 {
		t.Fatalf("bestTime = %f, want 45", board.bestTime)
	}
}
