package server

import "time"

const (
	ProtocolVersion   = 1
	writeWait         = 10 * time.Second
	tickRate          = 60 // simulation ticks per second
	maxTickDelta      = 0.1
	heartbeatInterval = 2 * time.Second
	disconnectAfter   = 3 * heartbeatInterval

	// Ball physics.
	gravity          = -15.0
	moveForce        = 18.0
	maxSpeed         = 10.0
	jumpForce        = 8.0
	groundFriction   = 0.85
	airFriction      = 0.98
	slipperyFriction = 0.95
	ballRadius       = 0.5
	deathY           = -20.0
	couplingRatio    = 0.8

	// Landing resolution.
	landingTolerance = 0.1
	landingBand      = 1.0

	// Platform effects.
	speedBoostMultiplier = 1.5
	speedBoostDuration   = 2.0
	bounceScale          = 1.5
	bounceLift           = 5.0
	bounceMinImpact      = 0.5

	// Level layout. Travel axis is -z; rows march forward from the start pad.
	platformSpacing    = 4.0
	startPlatformSize  = 8.0
	startPlatformThick = 0.5
	platformThickness  = 0.3
	spawnHeight        = 0.5

	// Difficulty ramps with forward distance: min(1, |z| * rate / 10).
	difficultyRate     = 0.1
	easyThreshold      = 0.3
	mediumThreshold    = 0.6
	generateLookahead  = 15.0
	cleanupTrail       = 20.0
	extensionBatchRows = 5
	initialRows        = 8

	// Scoring.
	platformPointsBase = 100
	completionBonus    = 1000
	checkpointBonus    = 5
	checkpointInterval = 20.0
	vsLeadMargin       = 100

	// Obstacles.
	obstacleRowChance = 0.3
	hammerReach       = 2.5
	hammerHitRadius   = 0.8
	hammerLift        = 5.0
	hammerStun        = 1.0
	barLength         = 4.0
	barThickness      = 0.3
	barLift           = 8.0
	barStun           = 0.5
	pushWallSpeed     = 1.5
	pushWallRange     = 4.0
	pushWallForce     = 8.0

	// Stun response.
	stunVelocityScale = 0.5
	hammerKnockback   = 2.0
)
