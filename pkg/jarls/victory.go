package jarls

// checkVictory inspects the board after a move by the given piece and, on a
// win, flips the state to ended and returns the GAME_ENDED event.
//
// Precedence: throne first, then last standing. A jarl can only ever stand
// on the throne through its own move (compression forbids pushing one onto
// it), so any jarl arrival here is voluntary.
func checkVictory(gs *GameState, moved *Piece) *Event {
	if moved.Type == Jarl && moved.Position == Throne {
		return declareWinner(gs, moved.PlayerID, WinThrone)
	}

	var lastJarl *Piece
	jarls := 0
	for i := range gs.Pieces {
		if gs.Pieces[i].Type == Jarl {
			jarls++
			lastJarl = &gs.Pieces[i]
		}
	}
	if jarls == 1 {
		return declareWinner(gs, lastJarl.PlayerID, WinLastStanding)
	}
	return nil
}

func declareWinner(gs *GameState, playerID string, cond WinCondition) *Event {
	gs.Phase = PhaseEnded
	gs.WinnerID = playerID
	gs.WinCondition = cond
	return &Event{Type: EventGameEnded, WinnerID: playerID, Win: cond}
}
