// Package catalog holds the designer-facing platform archetype tables the
// level generator consumes. The structs double as the JSON contract for
// externally authored band files; cmd/schema reflects them into a schema
// document for validation and editor tooling.
package catalog

// SlotOffset positions one candidate platform within a generated row,
// relative to the row's forward distance.
type SlotOffset struct {
	X float64 `json:"x" jsonschema:"title=Lateral offset,description=Sideways displacement of the slot from the travel axis"`
	Z float64 `json:"z" jsonschema:"title=Forward offset,description=Forward displacement of the slot relative to the row"`
}

// SpecialWeight is one rung on a band's cumulative special-type ladder. A
// single roll in [0,1) is compared against the running total of chances; the
// first rung it falls under wins.
type SpecialWeight struct {
	Kind   string  `json:"kind" jsonschema:"title=Special kind,enum=speed_boost,enum=bounce,enum=slippery,enum=moving,description=Platform special assigned when this rung is hit"`
	Chance float64 `json:"chance" jsonschema:"title=Chance,minimum=0,maximum=1,description=Probability mass of this rung"`
}

// BandDefinition describes how one difficulty band lays out a row.
type BandDefinition struct {
	ID              string          `json:"id" jsonschema:"title=Band id,pattern=^[a-z0-9\\-]+$,description=Identifier for the difficulty band"`
	Slots           []SlotOffset    `json:"slots" jsonschema:"title=Row slots,description=Candidate platform positions per row"`
	PlacementChance float64         `json:"placementChance" jsonschema:"title=Placement chance,minimum=0,maximum=1,description=Probability that a slot produces a platform at all"`
	Width           float64         `json:"width" jsonschema:"title=Platform width,minimum=0"`
	Depth           float64         `json:"depth" jsonschema:"title=Platform depth,minimum=0"`
	YJitter         float64         `json:"yJitter" jsonschema:"title=Height jitter,minimum=0,description=Maximum vertical displacement rolled per platform"`
	Specials        []SpecialWeight `json:"specials,omitempty" jsonschema:"title=Special ladder,description=Cumulative special-type distribution for the band"`
	Color           [3]float64      `json:"color" jsonschema:"title=Base color,description=Cosmetic default color for normal platforms"`
}

// FileDefinitions is the canonical array format for band files.
type FileDefinitions []BandDefinition

// Default returns the built-in easy/medium/hard band tables.
func Default() FileDefinitions {
	return FileDefinitions{
		{
			ID:              "easy",
			Slots:           []SlotOffset{{X: -3}, {X: 0}, {X: 3}},
			PlacementChance: 0.85,
			Width:           2.8,
			Depth:           2.8,
			YJitter:         0,
			Specials: []SpecialWeight{
				{Kind: "speed_boost", Chance: 0.10},
				{Kind: "bounce", Chance: 0.10},
			},
			Color: [3]float64{0.6, 0.6, 0.8},
		},
		{
			ID:              "medium",
			Slots:           []SlotOffset{{X: -4, Z: -1}, {X: -1, Z: 1}, {X: 2, Z: -0.5}, {X: 4, Z: 0.5}},
			PlacementChance: 0.65,
			Width:           2.2,
			Depth:           2.2,
			YJitter:         0.5,
			Specials: []SpecialWeight{
				{Kind: "speed_boost", Chance: 0.15},
				{Kind: "bounce", Chance: 0.10},
				{Kind: "slippery", Chance: 0.10},
				{Kind: "moving", Chance: 0.05},
			},
			Color: [3]float64{0.6, 0.6, 0.8},
		},
		{
			ID:              "hard",
			Slots:           []SlotOffset{{X: -3, Z: -1.5}, {X: 0, Z: 0.5}, {X: 3, Z: -0.8}, {X: -1.5, Z: 1.2}, {X: 1.5, Z: -1}},
			PlacementChance: 0.45,
			Width:           1.8,
			Depth:           1.8,
			YJitter:         1.2,
			Specials: []SpecialWeight{
				{Kind: "speed_boost", Chance: 0.20},
				{Kind: "bounce", Chance: 0.15},
				{Kind: "slippery", Chance: 0.20},
				{Kind: "moving", Chance: 0.20},
			},
			Color: [3]float64{0.8, 0.4, 0.4},
		},
	}
}
