package server

import (
	"context"
	"fmt"

	"marble-run/server/catalog"
	"marble-run/server/logging"
	matchlog "marble-run/server/logging/match"
)

// World owns the authoritative match state: balls, level, scoreboards, and
// the versus outcome. It is not internally locked; the hub serializes access.
type World struct {
	config    matchConfig
	generator *levelGenerator
	players   []*ballState
	scores    []*scoreboard
	publisher logging.Publisher

	elapsed     float64
	currentTick uint64

	gameEnded    bool
	winner       Winner
	winnerReason string
}

// NewWorld constructs a match from an explicit configuration. The level, the
// spawn point, and both balls are derived from the config alone.
func NewWorld(cfg matchConfig, publisher logging.Publisher) *World {
	normalized := cfg.normalized()
	if publisher == nil {
		publisher = logging.NopPublisher()
	}

	w := &World{
		config:    normalized,
		publisher: publisher,
	}
	w.buildLevel()
	return w
}

func (w *World) buildLevel() {
	w.generator = newLevelGenerator(w.config, catalog.Default())
	w.generator.generateStartingPlatform()
	w.generator.generateNext(initialRows)

	spawn := w.generator.spawnPosition()
	count := w.config.playerCount()
	w.players = make([]*ballState, 0, count)
	w.scores = make([]*scoreboard, 0, count)
	for i := 0; i < count; i++ {
		player := newBallState(fmt.Sprintf("player-%d", i+1), i, spawn)
		w.players = append(w.players, player)
		w.scores = append(w.scores, newScoreboard())
		matchlog.PlayerSpawned(context.Background(), w.publisher, w.currentTick, player.ID, matchlog.SpawnPayload{
			X: spawn.X, Y: spawn.Y, Z: spawn.Z,
		})
	}
}

// SetKeyState records a press or release for one player action. Reports
// whether the player slot exists.
func (w *World) SetKeyState(playerIndex int, action Action, down bool) bool {
	if playerIndex < 0 || playerIndex >= len(w.players) {
		return false
	}
	w.players[playerIndex].setKey(action, down)
	return true
}

// PlayerCount returns the number of simulated balls.
func (w *World) PlayerCount() int {
	return len(w.players)
}

// Advance runs one simulation tick. dt is clamped to the maximum step so a
// stalled process cannot destabilize the integration; the same clamped value
// feeds the platform velocity derivation.
//
// Per-tick order: platform kinematics, then each player in index order
// (input, jump, physics, obstacles, scoring), then level extension and
// cleanup. Ended players receive no physics or scoring mutation.
func (w *World) Advance(dt float64) {
	if dt > maxTickDelta {
		dt = maxTickDelta
	}
	if dt < 0 {
		dt = 0
	}

	w.currentTick++
	w.elapsed += dt

	w.generator.advance(w.elapsed, dt)

	if w.gameEnded {
		return
	}

	for i, player := range w.players {
		if !player.Alive {
			continue
		}

		fx, fz := player.inputForce()
		player.applyForce(fx, fz, dt)
		if player.keys[ActionJump] {
			player.jump()
		}

		support := player.update(dt, w.generator.platforms)
		w.applyObstacleReactions(player)
		w.applyScoring(i, player, support)

		if !player.Alive {
			w.handleDeath(i, player)
			if w.gameEnded {
				return
			}
		}
	}

	w.extendAndTrim()
}

// applyObstacleReactions resolves hazard contact. A stunned ball is already
// paying for a hit; it is not re-struck until the stun expires.
func (w *World) applyObstacleReactions(player *ballState) {
	for _, obstacle := range w.generator.obstacles {
		switch obstacle.Kind {
		case ObstacleHammer:
			if player.stunTime > 0 || !obstacle.hitsBall(player.Position, player.Radius) {
				continue
			}
			player.Velocity.X = -player.Velocity.X * hammerKnockback
			player.Velocity.Z = -player.Velocity.Z * hammerKnockback
			player.Velocity.Y = hammerLift
			player.stun(hammerStun)
		case ObstacleSpinningBar:
			if player.stunTime > 0 || !obstacle.hitsBall(player.Position, player.Radius) {
				continue
			}
			player.Velocity.Y = barLift
			player.stun(barStun)
		case ObstaclePushWall:
			if !obstacle.hitsBall(player.Position, player.Radius) {
				continue
			}
			pushX, pushZ := obstacle.pushForce(w.elapsed)
			player.Velocity.X += pushX
			player.Velocity.Z += pushZ
		}
	}
}

// applyScoring credits platform first-touches and checkpoint crossings.
func (w *World) applyScoring(index int, player *ballState, support *Platform) {
	board := w.scores[index]

	if support != nil {
		wasCompleted := board.completed
		points := board.awardPlatform(support.Index, w.generator.totalGenerated())
		if points > 0 {
			support.Passed = true
			matchlog.PlatformReached(context.Background(), w.publisher, w.currentTick, player.ID, matchlog.PlatformReachedPayload{
				PlatformIndex: support.Index,
				Points:        points,
				Score:         board.score,
			})
		}
		if !wasCompleted && board.completed {
			board.noteCompletion(w.elapsed)
		}
	}

	for _, checkpoint := range board.awardCheckpoints(player.Position.Z) {
		matchlog.CheckpointCrossed(context.Background(), w.publisher, w.currentTick, player.ID, matchlog.CheckpointCrossedPayload{
			CheckpointIndex: checkpoint,
			Score:           board.score,
		})
	}
}

// handleDeath processes a live-to-dead transition. In versus mode the first
// fall adjudicates the match; the transition is one-way and later falls are
// no-ops.
func (w *World) handleDeath(index int, player *ballState) {
	board := w.scores[index]
	board.noteDeath()

	matchlog.PlayerFell(context.Background(), w.publisher, w.currentTick, player.ID, matchlog.PlayerFellPayload{
		Score: board.score,
		Y:     player.Position.Y,
	})

	if w.config.Mode != ModeTwoPlayer {
		w.gameEnded = true
		return
	}
	if w.gameEnded {
		return
	}

	w.gameEnded = true
	w.winner, w.winnerReason = adjudicateVersus(index == 0, w.scores[0].score, w.scores[1].score)
	matchlog.Ended(context.Background(), w.publisher, w.currentTick, matchlog.EndedPayload{
		Winner: int(w.winner),
		Reason: w.winnerReason,
		Score1: w.scores[0].score,
		Score2: w.scores[1].score,
	})
}

// extendAndTrim grows the level ahead of the leading ball and drops geometry
// far behind the trailing one.
func (w *World) extendAndTrim() {
	leading, trailing, any := w.forwardPositions()
	if !any {
		return
	}
	if w.generator.shouldExtend(leading) {
		w.generator.generateNext(extensionBatchRows)
	}
	w.generator.cleanupBehind(trailing)
}

// forwardPositions returns the leading (furthest forward, smallest z) and
// trailing z among live balls.
func (w *World) forwardPositions() (leading, trailing float64, ok bool) {
	for _, player := range w.players {
		if !player.Alive {
			continue
		}
		z := player.Position.Z
		if !ok {
			leading, trailing, ok = z, z, true
			continue
		}
		if z < leading {
			leading = z
		}
		if z > trailing {
			trailing = z
		}
	}
	return leading, trailing, ok
}

// Reset restores construction-time state: a fresh level from the same seed,
// respawned balls, zeroed scoreboards. Session bests survive.
func (w *World) Reset() {
	boards := w.scores
	w.buildLevel()
	for i, board := range boards {
		board.reset()
		w.scores[i] = board
	}

	w.elapsed = 0
	w.gameEnded = false
	w.winner = WinnerNone
	w.winnerReason = ""

	matchlog.Reset(context.Background(), w.publisher, w.currentTick)
}

// Snapshot is the read-only per-tick view handed to renderers and the hub.
type Snapshot struct {
	Tick      uint64        `json:"tick"`
	Elapsed   float64       `json:"elapsed"`
	Balls     []Ball        `json:"balls"`
	Platforms []Platform    `json:"platforms"`
	Obstacles []Obstacle    `json:"obstacles"`
	Scores    []PlayerScore `json:"scores"`
	Status    MatchStatus   `json:"status"`
	Config    MatchConfig   `json:"config"`
}

// Snapshot deep-copies the current state. Consumers never observe live
// simulation structs.
func (w *World) Snapshot() Snapshot {
	balls := make([]Ball, 0, len(w.players))
	for _, player := range w.players {
		balls = append(balls, player.snapshot())
	}
	platforms := make([]Platform, 0, len(w.generator.platforms))
	for _, platform := range w.generator.platforms {
		platforms = append(platforms, *platform)
	}
	obstacles := make([]Obstacle, 0, len(w.generator.obstacles))
	for _, obstacle := range w.generator.obstacles {
		obstacles = append(obstacles, *obstacle)
	}
	scores := make([]PlayerScore, 0, len(w.scores))
	for _, board := range w.scores {
		scores = append(scores, board.snapshot())
	}

	return Snapshot{
		Tick:      w.currentTick,
		Elapsed:   w.elapsed,
		Balls:     balls,
		Platforms: platforms,
		Obstacles: obstacles,
		Scores:    scores,
		Status: MatchStatus{
			GameEnded: w.gameEnded,
			Winner:    w.winner,
			Reason:    w.winnerReason,
			Elapsed:   w.elapsed,
		},
		Config: w.config.public(),
	}
}
