package server

import (
	"fmt"
	"math"
)

// Winner identifies the adjudicated outcome of a versus match.
type Winner int

const (
	WinnerNone Winner = iota
	WinnerPlayer1
	WinnerPlayer2
)

// scoreboard tracks one player's awards. Every award is idempotent: platform
// and checkpoint credits are keyed by index and paid at most once.
type scoreboard struct {
	score       int
	reached     map[int]struct{}
	checkpoints map[int]struct{}
	completed   bool
	highScore   int
	bestTime    float64
}

func newScoreboard() *scoreboard {
	return &scoreboard{
		reached:     make(map[int]struct{}),
		checkpoints: make(map[int]struct{}),
	}
}

// awardPlatform credits the first touch of a platform index and, when the
// whole generated set has been touched, the one-time completion bonus.
// Returns the points paid this call.
func (s *scoreboard) awardPlatform(index, totalGenerated int) int {
	if _, ok := s.reached[index]; ok {
		return 0
	}
	s.reached[index] = struct{}{}
	points := (index + 1) * platformPointsBase

	if !s.completed && totalGenerated > 0 && len(s.reached) == totalGenerated {
		s.completed = true
		points += completionBonus
	}

	s.score += points
	return points
}

// awardCheckpoints credits every newly crossed fixed-interval checkpoint for
// a forward position. Oscillating around a crossed threshold pays nothing.
func (s *scoreboard) awardCheckpoints(z float64) []int {
	if z >= 0 {
		return nil
	}
	limit := int(math.Floor(-z / checkpointInterval))
	var crossed []int
	for k := 1; k <= limit; k++ {
		if _, ok := s.checkpoints[k]; ok {
			continue
		}
		s.checkpoints[k] = struct{}{}
		s.score += checkpointBonus
		crossed = append(crossed, k)
	}
	return crossed
}

// noteDeath rolls the current score into the session high score.
func (s *scoreboard) noteDeath() {
	if s.score > s.highScore {
		s.highScore = s.score
	}
}

// noteCompletion records the fastest full clear of the session.
func (s *scoreboard) noteCompletion(elapsed float64) {
	if s.bestTime == 0 || elapsed < s.bestTime {
		s.bestTime = elapsed
	}
}

// reset clears match-scoped state while keeping session bests.
func (s *scoreboard) reset() {
	if s.score > s.highScore {
		s.highScore = s.score
	}
	s.score = 0
	s.completed = false
	s.reached = make(map[int]struct{})
	s.checkpoints = make(map[int]struct{})
}

// PlayerScore is the broadcast-facing view of one scoreboard.
type PlayerScore struct {
	Score            int     `json:"score"`
	PlatformsReached int     `json:"platformsReached"`
	Completed        bool    `json:"completed"`
	HighScore        int     `json:"highScore"`
	BestTime         float64 `json:"bestTime,omitempty"`
}

func (s *scoreboard) snapshot() PlayerScore {
	return PlayerScore{
		Score:            s.score,
		PlatformsReached: len(s.reached),
		Completed:        s.completed,
		HighScore:        s.highScore,
		BestTime:         s.bestTime,
	}
}

// MatchStatus is the broadcast-facing view of a match outcome.
type MatchStatus struct {
	GameEnded bool    `json:"gameEnded"`
	Winner    Winner  `json:"winner"`
	Reason    string  `json:"reason,omitempty"`
	Elapsed   float64 `json:"elapsed"`
}

// adjudicateVersus resolves a two-player match the instant a player falls.
// The rule is a deliberate behavioral contract: the faller still wins when
// their score leads by more than the margin.
func adjudicateVersus(p1Fell bool, score1, score2 int) (Winner, string) {
	diff := score1 - score2
	if diff < 0 {
		diff = -diff
	}

	if p1Fell {
		if score1 > score2 && diff > vsLeadMargin {
			return WinnerPlayer1, fmt.Sprintf("P1 WINS! Fell with %d point lead!", diff)
		}
		return WinnerPlayer2, fmt.Sprintf("P2 WINS! P1 fell (score diff: %d)", diff)
	}
	if score2 > score1 && diff > vsLeadMargin {
		return WinnerPlayer2, fmt.Sprintf("P2 WINS! Fell with %d point lead!", diff)
	}
	return WinnerPlayer1, fmt.Sprintf("P1 WINS! P2 fell (score diff: %d)", diff)
}
