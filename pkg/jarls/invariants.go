package jarls

import "fmt"

// CheckInvariants verifies the structural invariants that must hold after
// every accepted command. Intended for tests and debug assertions.
func CheckInvariants(gs *GameState) error {
	seen := make(map[Hex]string)
	for _, p := range gs.Pieces {
		if other, ok := seen[p.Position]; ok {
			return fmt.Errorf("pieces %s and %s share hex (%d,%d)", other, p.ID, p.Position.Q, p.Position.R)
		}
		seen[p.Position] = p.ID
		if !OnBoard(p.Position, gs.Config.BoardRadius) {
			return fmt.Errorf("piece %s is off the board at (%d,%d)", p.ID, p.Position.Q, p.Position.R)
		}
		if gs.IsHole(p.Position) {
			return fmt.Errorf("piece %s sits on a hole at (%d,%d)", p.ID, p.Position.Q, p.Position.R)
		}
		if p.Type == Shield && p.PlayerID != "" {
			return fmt.Errorf("shield %s has an owner", p.ID)
		}
		if p.Type != Shield && p.PlayerID == "" {
			return fmt.Errorf("piece %s has no owner", p.ID)
		}
		if p.Type == Warrior && p.Position == Throne {
			return fmt.Errorf("warrior %s occupies the throne", p.ID)
		}
	}
	for _, h := range gs.Holes {
		if !OnBoard(h, gs.Config.BoardRadius) {
			return fmt.Errorf("hole (%d,%d) is off the board", h.Q, h.R)
		}
	}
	for _, pl := range gs.Players {
		if pl.IsEliminated {
			continue
		}
		jarls := 0
		for _, p := range gs.Pieces {
			if p.Type == Jarl && p.PlayerID == pl.ID {
				jarls++
			}
		}
		if gs.Phase == PhasePlaying || gs.Phase == PhaseStarvation {
			if jarls != 1 {
				return fmt.Errorf("player %s has %d jarls", pl.ID, jarls)
			}
		}
	}
	if gs.Phase == PhasePlaying || gs.Phase == PhaseStarvation {
		cur := gs.PlayerByID(gs.CurrentPlayerID)
		if cur == nil || cur.IsEliminated {
			return fmt.Errorf("current player %q is missing or eliminated", gs.CurrentPlayerID)
		}
	}
	return nil
}
