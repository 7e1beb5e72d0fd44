// Package config provides YAML-based configuration loading and difficulty
// presets for the artillery game.
package config

// ArtilleryConfig contains all configuration for an artillery match.
type ArtilleryConfig struct {
	Terrain    TerrainConfig    `yaml:"terrain"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Bodies     BodiesConfig     `yaml:"bodies"`
	Match      MatchConfig      `yaml:"match"`
	AI         AIConfig         `yaml:"ai"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// TerrainConfig defines the map size and the height noise.
type TerrainConfig struct {
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	Octaves int     `yaml:"octaves"`
	Bias    float64 `yaml:"bias"`
}

// PhysicsConfig defines the integration constants.
type PhysicsConfig struct {
	Gravity   float64 `yaml:"gravity"`
	Substeps  int     `yaml:"substeps"`
	RestSpeed float64 `yaml:"rest_speed"`
	Epsilon   float64 `yaml:"epsilon"`
}

// BodyConfig defines the shape of one body kind.
type BodyConfig struct {
	Radius       float64 `yaml:"radius"`
	Friction     float64 `yaml:"friction"`
	BounceBudget int     `yaml:"bounce_budget"` // -1 = unlimited
}

// BodiesConfig defines every body kind plus the explosion tuning.
type BodiesConfig struct {
	Marker     BodyConfig `yaml:"marker"`
	Debris     BodyConfig `yaml:"debris"`
	Projectile BodyConfig `yaml:"projectile"`
	Unit       BodyConfig `yaml:"unit"`

	ExplosionRadius float64 `yaml:"explosion_radius"`
	DebrisSpeed     float64 `yaml:"debris_speed"`
	DamageFactor    float64 `yaml:"damage_factor"`
}

// MatchConfig defines teams, turns and unit handling.
type MatchConfig struct {
	Teams        int     `yaml:"teams"`
	UnitsPerTeam int     `yaml:"units_per_team"`
	TurnTime     float64 `yaml:"turn_time"`   // seconds
	PlayerTeam   int     `yaml:"player_team"` // -1 = all computer
	Salvo        int     `yaml:"salvo"`
	JumpVX       float64 `yaml:"jump_vx"`
	JumpVY       float64 `yaml:"jump_vy"`
	AimRate      float64 `yaml:"aim_rate"`    // radians per second
	ChargeRate   float64 `yaml:"charge_rate"` // per second
	LaunchSpeed  float64 `yaml:"launch_speed"`

	// AimHoldFrames is how long one aim key press keeps turning. Terminals
	// report no key releases.
	AimHoldFrames int `yaml:"aim_hold_frames"`
}

// AIConfig tunes the computer opponent.
type AIConfig struct {
	Charge            float64 `yaml:"charge"`
	AimNoise          float64 `yaml:"aim_noise"`
	AimTolerance      float64 `yaml:"aim_tolerance"`
	MoveMinTime       float64 `yaml:"move_min_time"`
	RepositionMinTime float64 `yaml:"reposition_min_time"`
	RetreatDistance   float64 `yaml:"retreat_distance"`
	AllyProximity     float64 `yaml:"ally_proximity"`
	AdvanceDistance   float64 `yaml:"advance_distance"`
	EdgeMargin        float64 `yaml:"edge_margin"`
	ArriveTolerance   float64 `yaml:"arrive_tolerance"`
}

// DifficultyConfig selects a preset applied on top of the AI section.
type DifficultyConfig struct {
	Preset string `yaml:"preset"`
}
