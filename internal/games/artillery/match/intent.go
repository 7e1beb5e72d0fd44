package match

// Intent is one frame of control signals for the unit under control. The
// player and the computer opponent produce the same struct.
type Intent struct {
	AimLeft  bool
	AimRight bool

	Jump bool
	// JumpAngle replaces the unit's aim before jumping when UseJumpAngle
	// is set. The computer opponent uses it to hop left or right.
	JumpAngle    float64
	UseJumpAngle bool

	ChargeStart   bool
	ChargeHold    bool
	ChargeRelease bool

	ToggleView bool
}

// Empty reports whether no signal is set.
func (in Intent) Empty() bool {
	return !in.AimLeft && !in.AimRight && !in.Jump &&
		!in.ChargeStart && !in.ChargeHold && !in.ChargeRelease && !in.ToggleView
}
