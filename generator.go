package server

import (
	"fmt"
	"math"
	"math/rand"

	"marble-run/server/catalog"
)

// levelGenerator owns the platform and obstacle sets and extends them ahead
// of the leading player. Layout reproducibility holds only for an explicit
// seed; every band draws from its own deterministic stream so adding rows to
// one subsystem never perturbs another.
type levelGenerator struct {
	bands     catalog.FileDefinitions
	platforms []*Platform
	obstacles []*Obstacle

	config      matchConfig
	currentZ    float64
	rowIndex    int
	nextIndex   int
	obstacleSeq int

	placeRNG    *rand.Rand
	specialRNG  *rand.Rand
	obstacleRNG *rand.Rand
}

func newLevelGenerator(cfg matchConfig, bands catalog.FileDefinitions) *levelGenerator {
	if len(bands) == 0 {
		bands = catalog.Default()
	}
	return &levelGenerator{
		bands:       bands,
		platforms:   make([]*Platform, 0, 64),
		obstacles:   make([]*Obstacle, 0, 16),
		config:      cfg,
		placeRNG:    newDeterministicRNG(cfg.Seed, "generator.placement"),
		specialRNG:  newDeterministicRNG(cfg.Seed, "generator.special"),
		obstacleRNG: newDeterministicRNG(cfg.Seed, "generator.obstacles"),
	}
}

// generateStartingPlatform lays the static start pad and positions the
// forward cursor one spacing ahead of it.
func (g *levelGenerator) generateStartingPlatform() {
	start := &Platform{
		ID:       "platform-0",
		Index:    0,
		Base:     Vec3{},
		Position: Vec3{},
		Width:    startPlatformSize,
		Height:   startPlatformThick,
		Depth:    startPlatformSize,
		Color:    [3]float64{0.2, 0.8, 0.2},
		Movement: MovementStatic,
		Effect:   EffectNormal,
	}
	g.platforms = append(g.platforms, start)
	g.nextIndex = 1
	g.currentZ = -platformSpacing
}

// spawnPosition returns where a ball rests on the start pad.
func (g *levelGenerator) spawnPosition() Vec3 {
	if len(g.platforms) == 0 {
		return Vec3{Y: spawnHeight}
	}
	start := g.platforms[0]
	return Vec3{X: start.Position.X, Y: start.TopSurfaceY() + ballRadius, Z: start.Position.Z}
}

// generateNext produces n additional platform rows ahead of the cursor.
func (g *levelGenerator) generateNext(n int) {
	for i := 0; i < n; i++ {
		g.currentZ -= platformSpacing
		g.generateRow()
	}
}

// difficultyAt maps forward distance to [0, 1].
func difficultyAt(z float64) float64 {
	return math.Min(1.0, math.Abs(z)*difficultyRate/10.0)
}

func (g *levelGenerator) bandFor(difficulty float64) catalog.BandDefinition {
	idx := len(g.bands) - 1
	if difficulty < easyThreshold {
		idx = 0
	} else if difficulty < mediumThreshold && len(g.bands) > 1 {
		idx = 1
	}
	return g.bands[idx]
}

// generateRow rolls each slot of the difficulty band at the current cursor.
// Every roll may fail; an empty row is a legal layout that forces a long
// jump, not an error.
func (g *levelGenerator) generateRow() {
	g.rowIndex++
	difficulty := difficultyAt(g.currentZ)
	band := g.bandFor(difficulty)

	for _, slot := range band.Slots {
		if randomFloat(g.placeRNG) > band.PlacementChance {
			continue
		}

		platform := &Platform{
			ID:        fmt.Sprintf("platform-%d", g.nextIndex),
			Index:     g.nextIndex,
			Width:     band.Width,
			Height:    platformThickness,
			Depth:     band.Depth,
			Color:     band.Color,
			Movement:  MovementStatic,
			Effect:    EffectNormal,
			Amplitude: 3.0 + float64(g.rowIndex)*0.1,
			Speed:     1.0 + float64(g.rowIndex)*0.05,
			TiltSpeed: 1.5 + float64(g.rowIndex)*0.05,
		}
		g.nextIndex++

		y := 0.0
		if band.YJitter > 0 {
			y = randomRange(g.placeRNG, -band.YJitter, band.YJitter)
		}
		platform.Base = Vec3{X: slot.X, Y: y, Z: g.currentZ + slot.Z}
		platform.Position = platform.Base

		g.applySpecial(platform, band)
		g.platforms = append(g.platforms, platform)
	}

	if g.config.Obstacles && difficulty > 0.2 && randomFloat(g.obstacleRNG) < obstacleRowChance {
		g.addObstacle(difficulty)
	}
}

// applySpecial rolls the band's cumulative special ladder for one platform.
func (g *levelGenerator) applySpecial(platform *Platform, band catalog.BandDefinition) {
	roll := randomFloat(g.specialRNG)
	cumulative := 0.0
	for _, rung := range band.Specials {
		cumulative += rung.Chance
		if roll >= cumulative {
			continue
		}
		switch rung.Kind {
		case "speed_boost":
			platform.Effect = EffectSpeedBoost
			platform.Color = [3]float64{1.0, 1.0, 0.5}
		case "bounce":
			platform.Effect = EffectBounce
			platform.Color = [3]float64{0.5, 1.0, 0.5}
		case "slippery":
			platform.Effect = EffectSlippery
			platform.Color = [3]float64{0.7, 0.9, 1.0}
		case "moving":
			platform.Movement = movementForRow(g.rowIndex)
			platform.Color = [3]float64{0.8, 0.4, 0.8}
		}
		return
	}
}

// movementForRow cycles the kinematic kinds so consecutive moving rows never
// repeat the same motion.
func movementForRow(row int) MovementKind {
	kinds := []MovementKind{MovementHorizontal, MovementTilt, MovementForwardBack, MovementRotateTilt}
	return kinds[row%len(kinds)]
}

func (g *levelGenerator) addObstacle(difficulty float64) {
	g.obstacleSeq++
	id := fmt.Sprintf("obstacle-%d", g.obstacleSeq)
	z := g.currentZ

	if difficulty < 0.5 {
		if randomFloat(g.obstacleRNG) < 0.5 {
			g.obstacles = append(g.obstacles, newSpinningBar(id, z, 2.0))
		}
		return
	}

	switch g.obstacleRNG.Intn(3) {
	case 0:
		lanes := []float64{-2, 0, 2}
		x := lanes[g.obstacleRNG.Intn(len(lanes))]
		g.obstacles = append(g.obstacles, newHammer(id, x, z, randomRange(g.obstacleRNG, 1.5, 3.0)))
	case 1:
		direction := 1.0
		if randomFloat(g.obstacleRNG) < 0.5 {
			direction = -1.0
		}
		g.obstacles = append(g.obstacles, newPushWall(id, z, direction))
	default:
		g.obstacles = append(g.obstacles, newSpinningBar(id, z, randomRange(g.obstacleRNG, 2.0, 4.0)))
	}
}

func newSpinningBar(id string, z, speed float64) *Obstacle {
	base := Vec3{Y: 1.5, Z: z}
	return &Obstacle{ID: id, Kind: ObstacleSpinningBar, Base: base, Position: base, RotationSpeed: speed}
}

func newHammer(id string, x, z, speed float64) *Obstacle {
	base := Vec3{X: x, Y: 1.0, Z: z}
	return &Obstacle{ID: id, Kind: ObstacleHammer, Base: base, Position: base, RotationSpeed: speed}
}

func newPushWall(id string, z, direction float64) *Obstacle {
	base := Vec3{Y: 1.0, Z: z}
	return &Obstacle{
		ID: id, Kind: ObstaclePushWall, Base: base, Position: base,
		Direction: direction, Speed: pushWallSpeed,
		Width: 0.5, Height: 2.0, Depth: 6.0,
	}
}

// shouldExtend reports whether the leading player is close enough to the
// furthest generated platform to warrant more rows.
func (g *levelGenerator) shouldExtend(playerZ float64) bool {
	if len(g.platforms) == 0 {
		return true
	}
	furthest := g.platforms[0].Base.Z
	for _, p := range g.platforms[1:] {
		if p.Base.Z < furthest {
			furthest = p.Base.Z
		}
	}
	return playerZ < furthest+generateLookahead
}

// cleanupBehind drops platforms and obstacles that trail the given forward
// position by more than the cleanup distance, bounding memory on long runs.
func (g *levelGenerator) cleanupBehind(playerZ float64) {
	kept := g.platforms[:0]
	for _, p := range g.platforms {
		if p.Base.Z <= playerZ+cleanupTrail {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(g.platforms); i++ {
		g.platforms[i] = nil
	}
	g.platforms = kept

	keptObs := g.obstacles[:0]
	for _, o := range g.obstacles {
		if o.Base.Z <= playerZ+cleanupTrail {
			keptObs = append(keptObs, o)
		}
	}
	for i := len(keptObs); i < len(g.obstacles); i++ {
		g.obstacles[i] = nil
	}
	g.obstacles = keptObs
}

// advance re-evaluates every platform and obstacle pose.
func (g *levelGenerator) advance(elapsed, dt float64) {
	for _, p := range g.platforms {
		p.Advance(elapsed, dt)
	}
	for _, o := range g.obstacles {
		o.Advance(elapsed)
	}
}

// totalGenerated reports how many platforms have ever been produced,
// including ones cleanup has since dropped.
func (g *levelGenerator) totalGenerated() int {
	return g.nextIndex
}
