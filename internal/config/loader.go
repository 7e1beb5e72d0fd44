package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadArtillery loads the artillery configuration.
// Search order: customPath -> ~/.artillery/configs/artillery.yaml -> ./configs/artillery.yaml -> embedded default
//
// Files are decoded over the defaults, so a partial file only overrides
// the keys it sets.
func LoadArtillery(customPath string) (ArtilleryConfig, error) {
	cfg := DefaultArtilleryConfig()

	// Custom path is authoritative
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("artillery.yaml"); userCfgPath != "" {
		if c, ok := tryFile(userCfgPath); ok {
			return c, nil
		}
	}

	// Try local configs directory
	if c, ok := tryFile(filepath.Join("configs", "artillery.yaml")); ok {
		return c, nil
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultArtilleryYAML, &cfg); err != nil {
		return DefaultArtilleryConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// tryFile decodes an optional config file. Missing or broken files are
// skipped.
func tryFile(path string) (ArtilleryConfig, bool) {
	cfg := DefaultArtilleryConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, false
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".artillery", "configs", filename)
}

// Validate reports every value the simulation cannot run with.
func (c ArtilleryConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Terrain.Width > 0 && c.Terrain.Height > 0,
		"terrain: size %dx%d must be positive", c.Terrain.Width, c.Terrain.Height)
	check(c.Terrain.Octaves > 0, "terrain: octaves must be positive")
	check(c.Terrain.Bias > 0, "terrain: bias must be positive")

	check(c.Physics.Gravity >= 0, "physics: gravity must not be negative")
	check(c.Physics.Substeps > 0, "physics: substeps must be positive")
	check(c.Physics.RestSpeed >= 0, "physics: rest_speed must not be negative")

	bodies := map[string]BodyConfig{
		"marker":     c.Bodies.Marker,
		"debris":     c.Bodies.Debris,
		"projectile": c.Bodies.Projectile,
		"unit":       c.Bodies.Unit,
	}
	for _, name := range []string{"marker", "debris", "projectile", "unit"} {
		b := bodies[name]
		check(b.Radius >= 0, "bodies.%s: radius must not be negative", name)
		check(b.Friction >= 0 && b.Friction <= 1, "bodies.%s: friction %.2f outside [0,1]", name, b.Friction)
		check(b.BounceBudget == -1 || b.BounceBudget > 0,
			"bodies.%s: bounce_budget must be -1 or positive", name)
	}
	check(c.Bodies.ExplosionRadius >= 0, "bodies: explosion_radius must not be negative")

	check(c.Match.Teams > 0, "match: teams must be positive")
	check(c.Match.UnitsPerTeam > 0, "match: units_per_team must be positive")
	check(c.Match.TurnTime > 0, "match: turn_time must be positive")
	check(c.Match.PlayerTeam >= -1 && c.Match.PlayerTeam < c.Match.Teams,
		"match: player_team %d out of range", c.Match.PlayerTeam)
	check(c.Match.Salvo >= 0, "match: salvo must not be negative")
	check(c.Match.ChargeRate > 0, "match: charge_rate must be positive")
	check(c.Match.AimHoldFrames > 0, "match: aim_hold_frames must be positive")

	check(c.AI.Charge > 0 && c.AI.Charge <= 1, "ai: charge %.2f outside (0,1]", c.AI.Charge)
	check(c.AI.AimTolerance > 0, "ai: aim_tolerance must be positive")

	if _, err := ParsePreset(c.Difficulty.Preset); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}
