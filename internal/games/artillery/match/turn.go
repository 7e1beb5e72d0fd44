package match

import "github.com/vovakirdan/tui-artillery/internal/games/artillery/physics"

// TurnState is a phase of the match flow.
type TurnState int

const (
	StateReset TurnState = iota
	StateGenerateTerrain
	StateGeneratingTerrain
	StateAllocateUnits
	StateAllocatingUnits
	StateStartPlay
	StateCameraMode
	StateGameOver1
	StateGameOver2
)

func (s TurnState) String() string {
	switch s {
	case StateReset:
		return "reset"
	case StateGenerateTerrain:
		return "generate_terrain"
	case StateGeneratingTerrain:
		return "generating_terrain"
	case StateAllocateUnits:
		return "allocate_units"
	case StateAllocatingUnits:
		return "allocating_units"
	case StateStartPlay:
		return "start_play"
	case StateCameraMode:
		return "camera_mode"
	case StateGameOver1:
		return "game_over_1"
	case StateGameOver2:
		return "game_over_2"
	default:
		return "unknown"
	}
}

// runTurnState evaluates the current state and stages the next one. The
// stage is committed at the end of Update, so every state sees a whole
// frame. Stability comes from the previous frame.
func (s *Session) runTurnState() {
	switch s.state {
	case StateReset:
		s.setControl(false, false)
		s.fired = false
		s.showCountdown = false
		s.winner = -1
		s.next = StateGenerateTerrain

	case StateGenerateTerrain:
		s.zoomOut = true
		s.world.Clear()
		s.teams = s.teams[:0]
		s.alive = s.alive[:0]
		s.controlled, s.tracked = physics.NoHandle, physics.NoHandle
		s.field.Generate(s.rng)
		s.stable = false
		s.next = StateGeneratingTerrain

	case StateGeneratingTerrain:
		s.zoomOut = true
		if s.stable {
			s.next = StateAllocateUnits
		}

	case StateAllocateUnits:
		s.allocateUnits()
		s.next = StateAllocatingUnits

	case StateAllocatingUnits:
		if len(s.teams) == 0 {
			s.next = StateGameOver1
		} else if s.stable {
			s.beginTurn(s.currentTeam)
			s.next = StateStartPlay
		}

	case StateStartPlay:
		s.showCountdown = true
		if s.fired || s.turnTime <= 0 {
			s.next = StateCameraMode
		}

	case StateCameraMode:
		s.setControl(false, false)
		s.fired = false
		s.showCountdown = false
		s.charge = 0
		s.charging = false
		s.startQueued = false
		s.fireRequested = false
		if s.stable {
			s.rotate()
		}

	case StateGameOver1:
		s.setControl(false, false)
		s.zoomOut = true
		s.winner = s.soleSurvivor()
		s.spawnSalvo()
		s.logger.Info("game over", "winner", s.winner, "turns", s.turns, "shots", s.shots)
		s.next = StateGameOver2

	case StateGameOver2:
		s.setControl(false, false)
		s.zoomOut = true
	}
}

// rotate hands the turn to the next living team. The match ends once fewer
// than two teams are alive, whichever team was playing.
func (s *Session) rotate() {
	prev := s.currentTeam
	next, ok := s.nextLivingTeam(prev)
	if !ok || next == prev || s.livingTeams() < 2 {
		s.next = StateGameOver1
		return
	}
	s.beginTurn(next)
	s.next = StateStartPlay
}

// nextLivingTeam scans at most one full rotation.
func (s *Session) nextLivingTeam(from int) (int, bool) {
	n := len(s.teams)
	for i := 1; i <= n; i++ {
		t := (from + i) % n
		if s.teams[t].Alive(s.world) {
			return t, true
		}
	}
	return -1, false
}

func (s *Session) livingTeams() int {
	n := 0
	for _, t := range s.teams {
		if t.Alive(s.world) {
			n++
		}
	}
	return n
}

func (s *Session) soleSurvivor() int {
	winner := -1
	for i, t := range s.teams {
		if t.Alive(s.world) {
			if winner >= 0 {
				return -1
			}
			winner = i
		}
	}
	return winner
}

// beginTurn gives control of the team's next unit to its driver.
func (s *Session) beginTurn(team int) {
	s.currentTeam = team
	s.controlled, _ = s.teams[team].NextMember(s.world)
	s.tracked = s.controlled
	s.turnTime = s.cfg.TurnTime
	s.zoomOut = false
	s.turns++

	player := s.cfg.PlayerTeam != AllComputer && team == s.cfg.PlayerTeam
	s.setControl(player, !player)
	if !player && s.opponent != nil {
		s.opponent.Reset()
	}
	s.logger.Info("turn", "number", s.turns, "team", team, "player", player)
}

func (s *Session) setControl(player, computer bool) {
	s.humanEnabled = player
	s.aiEnabled = computer
}
