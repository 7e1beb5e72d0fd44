package artillery

import (
	"github.com/vovakirdan/tui-artillery/internal/config"
	"github.com/vovakirdan/tui-artillery/internal/games/artillery/ai"
	"github.com/vovakirdan/tui-artillery/internal/games/artillery/match"
	"github.com/vovakirdan/tui-artillery/internal/games/artillery/physics"
	"github.com/vovakirdan/tui-artillery/internal/games/artillery/terrain"
)

func bodySpec(b config.BodyConfig) physics.Spec {
	return physics.Spec{Radius: b.Radius, Friction: b.Friction, BounceBudget: b.BounceBudget}
}

// MatchConfig converts the loaded configuration into session settings.
// The all-computer mode overrides the configured player team.
func MatchConfig(cfg config.ArtilleryConfig, allComputer bool) match.Config {
	mc := match.Config{
		Width:  cfg.Terrain.Width,
		Height: cfg.Terrain.Height,
		Terrain: terrain.Params{
			Octaves: cfg.Terrain.Octaves,
			Bias:    cfg.Terrain.Bias,
		},
		Physics: physics.Params{
			Gravity:   cfg.Physics.Gravity,
			Substeps:  cfg.Physics.Substeps,
			RestSpeed: cfg.Physics.RestSpeed,
			Epsilon:   cfg.Physics.Epsilon,
		},
		Specs: physics.Specs{
			Marker:       bodySpec(cfg.Bodies.Marker),
			Debris:       bodySpec(cfg.Bodies.Debris),
			Projectile:   bodySpec(cfg.Bodies.Projectile),
			Unit:         bodySpec(cfg.Bodies.Unit),
			BlastRadius:  cfg.Bodies.ExplosionRadius,
			DebrisSpeed:  cfg.Bodies.DebrisSpeed,
			DamageFactor: cfg.Bodies.DamageFactor,
		},
		Teams:        cfg.Match.Teams,
		UnitsPerTeam: cfg.Match.UnitsPerTeam,
		TurnTime:     cfg.Match.TurnTime,
		PlayerTeam:   cfg.Match.PlayerTeam,
		Salvo:        cfg.Match.Salvo,
		JumpVX:       cfg.Match.JumpVX,
		JumpVY:       cfg.Match.JumpVY,
		AimRate:      cfg.Match.AimRate,
		ChargeRate:   cfg.Match.ChargeRate,
		LaunchSpeed:  cfg.Match.LaunchSpeed,
	}
	if allComputer {
		mc.PlayerTeam = match.AllComputer
	}
	return mc
}

// OpponentConfig converts the loaded configuration into opponent settings.
// The solver shares the match's launch speed and gravity.
func OpponentConfig(cfg config.ArtilleryConfig) ai.Config {
	return ai.Config{
		LaunchSpeed:       cfg.Match.LaunchSpeed,
		Gravity:           cfg.Physics.Gravity,
		Charge:            cfg.AI.Charge,
		AimNoise:          cfg.AI.AimNoise,
		AimTolerance:      cfg.AI.AimTolerance,
		MoveMinTime:       cfg.AI.MoveMinTime,
		RepositionMinTime: cfg.AI.RepositionMinTime,
		AllyProximity:     cfg.AI.AllyProximity,
		RetreatDistance:   cfg.AI.RetreatDistance,
		AdvanceDistance:   cfg.AI.AdvanceDistance,
		EdgeMargin:        cfg.AI.EdgeMargin,
		ArriveTolerance:   cfg.AI.ArriveTolerance,
	}
}
