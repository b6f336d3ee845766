package jarls

// MoveResult is the outcome of an applied move.
type MoveResult struct {
	State  *GameState
	Events []Event
}

// ApplyMove validates and applies a move command, returning the new state
// and the events describing everything that happened. The input state is
// never mutated; same inputs always produce identical output.
func ApplyMove(gs *GameState, playerID string, cmd MoveCommand) (*MoveResult, error) {
	v, err := ValidateMove(gs, playerID, cmd)
	if err != nil {
		return nil, err
	}

	next := gs.Clone()
	piece := next.PieceByID(cmd.PieceID)
	origin := piece.Position

	dest := cmd.Destination
	if v.AdjustedDestination != nil {
		dest = *v.AdjustedDestination
	}
	direction := DirectionBetween(origin, dest)

	var events []Event
	eliminated := false

	defender := next.PieceAt(dest)
	if defender != nil {
		// The attacker strikes from the hex just before the defender. It
		// occupies that hex before combat so it cannot count its own vacated
		// origin as inline support.
		line := Line(origin, cmd.Destination)
		preImpact := line[len(line)-2]
		piece.Position = preImpact

		combat := CalculateCombat(next, piece, preImpact, defender, direction, v.HasMomentum)
		events = append(events, Event{
			Type: EventAttack, PieceID: piece.ID, PlayerID: piece.PlayerID,
			Attack: &combat.Attack, Defense: &combat.Defense,
		})

		var finalPos Hex
		if combat.Outcome == OutcomePush {
			var pushEvents []Event
			finalPos, pushEvents = resolvePush(next, piece, preImpact, dest, direction)
			events = append(events, pushEvents...)
			for _, e := range pushEvents {
				if e.Type == EventEliminated {
					eliminated = true
					events = append(events, handlePieceLoss(next, e.PieceID, e.PlayerID)...)
				}
			}
		} else {
			finalPos = preImpact
			events = append(events, Event{Type: EventBlocked, PieceID: piece.ID})
		}

		if finalPos != origin {
			piece.Position = finalPos
			events = append(events, Event{
				Type: EventMove, PieceID: piece.ID, PlayerID: piece.PlayerID,
				From: hexPtr(origin), To: hexPtr(finalPos), HasMomentum: v.HasMomentum,
			})
		}
	} else {
		piece.Position = dest
		events = append(events, Event{
			Type: EventMove, PieceID: piece.ID, PlayerID: piece.PlayerID,
			From: hexPtr(origin), To: hexPtr(dest), HasMomentum: v.HasMomentum,
		})
	}

	next.MoveHistory = append(next.MoveHistory, MoveRecord{
		TurnNumber: next.TurnNumber, PlayerID: playerID,
		PieceID: piece.ID, From: origin, To: piece.Position,
	})

	if eliminated {
		next.RoundsSinceElimination = 0
	}

	// Victory: a voluntary jarl arrival on the throne outranks last-standing.
	if win := checkVictory(next, piece); win != nil {
		events = append(events, *win)
		return &MoveResult{State: next, Events: events}, nil
	}

	nextPlayer := next.advanceTurn()
	events = append(events, Event{Type: EventTurnEnded, NextPlayer: nextPlayer})

	events = append(events, maybeTriggerStarvation(next)...)

	return &MoveResult{State: next, Events: events}, nil
}

// handlePieceLoss reacts to a piece leaving the board. Losing a jarl
// eliminates its owner; the dead player's warriors remain on the board as
// obstacles.
func handlePieceLoss(gs *GameState, pieceID, playerID string) []Event {
	if playerID == "" {
		return nil
	}
	var events []Event
	if gs.JarlOf(playerID) == nil {
		if pl := gs.PlayerByID(playerID); pl != nil && !pl.IsEliminated {
			pl.IsEliminated = true
			events = append(events, Event{Type: EventPlayerEliminated, PlayerID: playerID})
		}
	}
	return events
}

// ApplyTimeout skips the current player's turn. When the game is configured
// with timeout sacrifice, the player also loses the warrior farthest from
// the throne; ties break on the larger piece ID so the outcome is
// deterministic.
func ApplyTimeout(gs *GameState) (*MoveResult, error) {
	if gs.Phase != PhasePlaying {
		return nil, ruleErr(ErrGameNotPlaying, "game phase is %s", gs.Phase)
	}
	next := gs.Clone()
	var events []Event

	if next.Config.TimeoutSacrifice {
		var victim *Piece
		victimDist := -1
		for i := range next.Pieces {
			p := &next.Pieces[i]
			if p.Type != Warrior || p.PlayerID != next.CurrentPlayerID {
				continue
			}
			d := Distance(p.Position, Throne)
			if d > victimDist || (d == victimDist && p.ID > victim.ID) {
				victim = p
				victimDist = d
			}
		}
		if victim != nil {
			events = append(events, Event{
				Type: EventEliminated, PieceID: victim.ID, PlayerID: victim.PlayerID,
				From: hexPtr(victim.Position), Cause: CauseTimeout,
			})
			next.removePiece(victim.ID)
			next.RoundsSinceElimination = 0
		}
	}

	nextPlayer := next.advanceTurn()
	events = append(events, Event{Type: EventTurnEnded, NextPlayer: nextPlayer})
	events = append(events, maybeTriggerStarvation(next)...)
	return &MoveResult{State: next, Events: events}, nil
}
