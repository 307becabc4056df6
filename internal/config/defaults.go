package config

import (
	_ "embed"
)

//go:embed defaults/snowrun.yaml
var defaultSnowrunYAML []byte

// DefaultConfig returns the hardcoded snowrun configuration.
// It mirrors defaults/snowrun.yaml and is used when the embedded file cannot be parsed.
func DefaultConfig() Config {
	return Config{
		Physics: Physics{
			Gravity:      -9.81,
			FixedStep:    0.02,
			MaxSnapDepth: 1.5,
		},
		Rider: Rider{
			Mass:               1,
			SpawnX:             2,
			SpawnY:             0,
			MoveForce:          10,
			MaxSpeed:           8,
			BrakeForce:         20,
			BrakeDeadzone:      0.1,
			JumpForce:          12,
			JumpForwardImpulse: 5,
			SlowdownMultiplier: 0.5,
			Damping:            0.9,
			MinForwardSpeed:    1,
			MinForwardForce:    2,
			ConstantForce:      5,
			FallMultiplier:     2,
			RotationSpeed:      200,
			HeadHeight:         1.2,
			CorrectLift:        1,
			UnstickLift:        1.5,
			GroundProbe: &GroundProbe{
				OffsetX: 0,
				OffsetY: -0.05,
				Radius:  0.2,
			},
			GroundLayers: []string{"ground"},
		},
		Input: Input{
			Source:             "keyboard",
			DoubleTapThreshold: 0.3,
			SwipeThreshold:     3,
		},
		PowerUps: PowerUps{
			BoostMultiplier: 1.5,
			BoostDuration:   3,
			ShieldDuration:  5,
			PickupRadius:    0.8,
		},
		Terrain: Terrain{
			ChunksAhead:        5,
			LookAheadDistance:  50,
			TimeTrialMaxChunks: 4,
			ModeCheckDelay:     2,
			MissingEndLength:   10,
			Templates:          defaultTemplates(),
		},
		Scoring: Scoring{
			DistanceRate: 10,
			TrickBonus:   100,
			TrickDegrees: 360,
		},
		Run: Run{
			TimeLimit:   300,
			CrashDelay:  1,
			FinishDelay: 2,
			KillDepth:   25,
		},
		Leaderboard: Leaderboard{
			Capacity:  5,
			FillerMin: 200,
			FillerMax: 1000,
			FillerNames: []string{
				"Frosty", "Avalanche", "PowderKing", "IceBlade",
				"SnowRider", "ChillyBro", "Blizzard",
			},
		},
	}
}

func defaultTemplates() []ChunkTemplate {
	return []ChunkTemplate{
		{
			ID:    "gentle",
			Start: &Point{0, 0},
			End:   &Point{30, -6},
			Surface: []Point{
				{0, 0}, {10, -2}, {20, -4}, {30, -6},
			},
			Pickups: []PickupPlacement{{Kind: "shield", X: 15, Y: -2.5}},
		},
		{
			ID:    "kicker",
			Start: &Point{0, 0},
			End:   &Point{30, -11},
			Surface: []Point{
				{0, 0}, {8, -3}, {14, -2}, {15, -2}, {17, -8}, {30, -11},
			},
			Pickups: []PickupPlacement{{Kind: "speed_boost", X: 22, Y: -8.5}},
		},
		{
			ID:    "rollers",
			Start: &Point{0, 0},
			End:   &Point{25, -7},
			Surface: []Point{
				{0, 0}, {5, -2}, {8, -1.5}, {12, -4}, {15, -3.5}, {20, -6}, {25, -7},
			},
			Pickups: []PickupPlacement{{Kind: "extra_life", X: 8, Y: -0.5}},
		},
		{
			ID:    "cliff",
			Start: &Point{0, 0},
			End:   &Point{24, -12},
			Surface: []Point{
				{0, 0}, {6, -1.5}, {8, -1.5}, {10, -8}, {24, -12},
			},
		},
	}
}
