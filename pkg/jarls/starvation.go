package jarls

import "sort"

// StarvationCandidates computes, for every non-eliminated player, the set of
// their warriors at maximum distance from the throne. Players without
// warriors have no candidates.
func StarvationCandidates(gs *GameState) map[string][]string {
	candidates := make(map[string][]string)
	for _, pl := range gs.Players {
		if pl.IsEliminated {
			continue
		}
		maxDist := -1
		var ids []string
		for _, p := range gs.Pieces {
			if p.Type != Warrior || p.PlayerID != pl.ID {
				continue
			}
			d := Distance(p.Position, Throne)
			if d > maxDist {
				maxDist = d
				ids = []string{p.ID}
			} else if d == maxDist {
				ids = append(ids, p.ID)
			}
		}
		if len(ids) > 0 {
			sort.Strings(ids)
			candidates[pl.ID] = ids
		}
	}
	return candidates
}

// maybeTriggerStarvation runs the end-of-turn starvation check. Players with
// a single candidate lose it immediately; ties put the game into the
// starvation phase awaiting a choice from each tied player.
func maybeTriggerStarvation(gs *GameState) []Event {
	if gs.Phase != PhasePlaying || gs.RoundsSinceElimination < StarvationThreshold {
		return nil
	}

	candidates := StarvationCandidates(gs)
	if len(candidates) == 0 {
		gs.RoundsSinceElimination = 0
		return nil
	}

	var events []Event
	pending := make(map[string][]string)
	starved := false
	for playerID, ids := range candidates {
		if len(ids) == 1 {
			events = append(events, eliminateStarved(gs, ids[0])...)
			starved = true
		} else {
			pending[playerID] = ids
		}
	}

	if len(pending) > 0 {
		gs.Phase = PhaseStarvation
		gs.PendingStarvation = pending
		gs.StarvationChoices = make(map[string]string)
		events = append(events, Event{Type: EventStarvationTriggered, Candidates: pending})
	} else if starved {
		gs.RoundsSinceElimination = 0
		events = append(events, Event{Type: EventStarvationResolved})
	}
	return events
}

// SubmitStarvationChoice latches one tied player's chosen warrior. When the
// last outstanding choice arrives, all chosen warriors starve, the counter
// resets, and play resumes.
func SubmitStarvationChoice(gs *GameState, playerID, pieceID string) (*MoveResult, error) {
	if gs.Phase != PhaseStarvation {
		return nil, ruleErr(ErrGameNotStarving, "game phase is %s", gs.Phase)
	}
	ids, ok := gs.PendingStarvation[playerID]
	if !ok {
		return nil, ruleErr(ErrNoStarvationChoiceNeeded, "player %s has no pending choice", playerID)
	}
	valid := false
	for _, id := range ids {
		if id == pieceID {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ruleErr(ErrInvalidStarvationChoice, "piece %s is not a starvation candidate", pieceID)
	}

	next := gs.Clone()
	next.StarvationChoices[playerID] = pieceID

	if len(next.StarvationChoices) < len(next.PendingStarvation) {
		return &MoveResult{State: next}, nil
	}

	// All choices are in: resolve in deterministic player order.
	var events []Event
	for _, pl := range next.Players {
		if id, ok := next.StarvationChoices[pl.ID]; ok {
			events = append(events, eliminateStarved(next, id)...)
		}
	}
	next.PendingStarvation = nil
	next.StarvationChoices = nil
	next.RoundsSinceElimination = 0
	next.Phase = PhasePlaying
	events = append(events, Event{Type: EventStarvationResolved})
	return &MoveResult{State: next, Events: events}, nil
}

func eliminateStarved(gs *GameState, pieceID string) []Event {
	p := gs.PieceByID(pieceID)
	if p == nil {
		return nil
	}
	ev := Event{
		Type: EventEliminated, PieceID: p.ID, PlayerID: p.PlayerID,
		From: hexPtr(p.Position), Cause: CauseStarvation,
	}
	gs.removePiece(pieceID)
	return []Event{ev}
}
