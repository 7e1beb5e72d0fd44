package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// Presets lists every preset in menu order.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}
}

// ParsePreset validates a preset name. The empty string means normal.
func ParsePreset(name string) (DifficultyPreset, error) {
	if name == "" {
		return DifficultyNormal, nil
	}
	for _, p := range Presets() {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", name)
}

// IsFixedPreset returns true if the preset leaves the AI section untouched.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyArtilleryPreset overwrites the opponent's aim error and tolerance
// with the preset's values.
func ApplyArtilleryPreset(cfg *ArtilleryConfig, preset DifficultyPreset) {
	cfg.Difficulty.Preset = string(preset)
	if IsFixedPreset(preset) {
		return
	}

	switch preset {
	case DifficultyEasy:
		cfg.AI.AimNoise = 0.2
		cfg.AI.AimTolerance = 0.05
	case DifficultyHard:
		cfg.AI.AimNoise = 0
		cfg.AI.AimTolerance = 0.01
	default:
		cfg.AI.AimNoise = 0.05
		cfg.AI.AimTolerance = 0.02
	}
}
