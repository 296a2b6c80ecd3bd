package server

import "strings"

const defaultMatchSeed = "prototype"

// GameMode selects how many player balls the match simulates.
type GameMode string

const (
	ModeSinglePlayer GameMode = "single"
	ModeTwoPlayer    GameMode = "versus"
)

// matchConfig captures the toggles used when constructing a match. It is an
// explicit value handed to the world, generator, and hub; there is no ambient
// settings object.
type matchConfig struct {
	Mode      GameMode `json:"mode"`
	Seed      string   `json:"seed"`
	Obstacles bool     `json:"obstacles"`
}

// normalized returns a config with defaults applied.
func (cfg matchConfig) normalized() matchConfig {
	normalized := cfg
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.Seed == "" {
		normalized.Seed = defaultMatchSeed
	}
	switch normalized.Mode {
	case ModeSinglePlayer, ModeTwoPlayer:
	default:
		normalized.Mode = ModeSinglePlayer
	}
	return normalized
}

func (cfg matchConfig) playerCount() int {
	if cfg.Mode == ModeTwoPlayer {
		return 2
	}
	return 1
}

// defaultMatchConfig enables obstacles with the default seed in single player.
func defaultMatchConfig() matchConfig {
	return matchConfig{
		Mode:      ModeSinglePlayer,
		Seed:      defaultMatchSeed,
		Obstacles: true,
	}
}

// MatchConfig is the broadcast-facing view of the active configuration.
type MatchConfig struct {
	Mode      GameMode `json:"mode"`
	Seed      string   `json:"seed"`
	Obstacles bool     `json:"obstacles"`
}

func (cfg matchConfig) public() MatchConfig {
	return MatchConfig{Mode: cfg.Mode, Seed: cfg.Seed, Obstacles: cfg.Obstacles}
}

func (cfg MatchConfig) internal() matchConfig {
	return matchConfig{Mode: cfg.Mode, Seed: cfg.Seed, Obstacles: cfg.Obstacles}
}

// DefaultMatchConfig is the configuration used when no overrides are given.
func DefaultMatchConfig() MatchConfig {
	return defaultMatchConfig().public()
}
