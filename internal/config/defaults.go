package config

import (
	_ "embed"
)

//go:embed defaults/artillery.yaml
var defaultArtilleryYAML []byte

// DefaultArtilleryConfig returns the default artillery configuration.
func DefaultArtilleryConfig() ArtilleryConfig {
	return ArtilleryConfig{
		Terrain: TerrainConfig{
			Width:   1024,
			Height:  512,
			Octaves: 8,
			Bias:    2.0,
		},
		Physics: PhysicsConfig{
			Gravity:   2.0,
			Substeps:  10,
			RestSpeed: 0.1,
			Epsilon:   1e-4,
		},
		Bodies: BodiesConfig{
			Marker:          BodyConfig{Radius: 4.0, Friction: 0.8, BounceBudget: -1},
			Debris:          BodyConfig{Radius: 1.0, Friction: 0.8, BounceBudget: 5},
			Projectile:      BodyConfig{Radius: 2.5, Friction: 0.5, BounceBudget: 1},
			Unit:            BodyConfig{Radius: 3.5, Friction: 0.2, BounceBudget: -1},
			ExplosionRadius: 20,
			DebrisSpeed:     10,
			DamageFactor:    0.8,
		},
		Match: MatchConfig{
			Teams:        4,
			UnitsPerTeam: 4,
			TurnTime:     15,
			PlayerTeam:   0,
			Salvo:        100,
			JumpVX:       4,
			JumpVY:       8,
			AimRate:      1.0,
			ChargeRate:   0.75,
			LaunchSpeed:  40,

			AimHoldFrames: 6,
		},
		AI: AIConfig{
			Charge:            0.75,
			AimNoise:          0,
			AimTolerance:      0.02,
			MoveMinTime:       8,
			RepositionMinTime: 5,
			RetreatDistance:   80,
			AllyProximity:     50,
			AdvanceDistance:   200,
			EdgeMargin:        20,
			ArriveTolerance:   1,
		},
		Difficulty: DifficultyConfig{
			Preset: string(DifficultyNormal),
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "artillery", "artillery_cpu":
		return defaultArtilleryYAML
	default:
		return nil
	}
}
