package jarls

// ChainTerminator is what stops a push chain.
type ChainTerminator string

const (
	TermEmpty  ChainTerminator = "empty"
	TermEdge   ChainTerminator = "edge"
	TermHole   ChainTerminator = "hole"
	TermShield ChainTerminator = "shield"
	TermThrone ChainTerminator = "throne"
)

// Chain is a contiguous run of pushable pieces and what terminates it.
type Chain struct {
	Pieces     []*Piece
	Terminator ChainTerminator
}

// DetectChain walks forward from fromHex in the given direction, collecting
// consecutive pieces until an open hex, the board edge, a hole, a shield, or
// the throne.
func DetectChain(gs *GameState, fromHex Hex, direction int) Chain {
	var chain Chain
	cur := fromHex
	for {
		if cur == Throne {
			chain.Terminator = TermThrone
			return chain
		}
		if !OnBoard(cur, gs.Config.BoardRadius) {
			chain.Terminator = TermEdge
			return chain
		}
		if gs.IsHole(cur) {
			chain.Terminator = TermHole
			return chain
		}
		p := gs.PieceAt(cur)
		if p == nil {
			chain.Terminator = TermEmpty
			return chain
		}
		if p.Type == Shield {
			chain.Terminator = TermShield
			return chain
		}
		chain.Pieces = append(chain.Pieces, p)
		cur = cur.Neighbor(direction)
	}
}

// resolvePush applies a won combat to the board. The defender heads a chain
// of consecutive pieces; depending on the terminator the chain advances,
// loses its last piece off the edge or into a hole, or compresses in place.
// On compression nothing moves and the attacker stays at preImpact.
//
// A chain that partially meets a blocker is treated as fully compressed; no
// sub-chain advances ahead of the blocker.
//
// Returns the attacker's final position and the emitted events.
func resolvePush(gs *GameState, attacker *Piece, preImpact Hex, defenderHex Hex, direction int) (Hex, []Event) {
	chain := DetectChain(gs, defenderHex, direction)
	var events []Event

	switch chain.Terminator {
	case TermShield, TermThrone:
		// Compression: the shield wall (or the throne itself) absorbs the
		// push. No piece moves, nothing is eliminated.
		events = append(events, Event{Type: EventCompressed, PieceID: attacker.ID})
		return preImpact, events

	case TermEdge, TermHole:
		last := chain.Pieces[len(chain.Pieces)-1]
		cause := CauseEdge
		if chain.Terminator == TermHole {
			cause = CauseHole
		}
		for _, p := range chain.Pieces[:len(chain.Pieces)-1] {
			from := p.Position
			p.Position = p.Position.Neighbor(direction)
			events = append(events, Event{
				Type: EventPush, PieceID: p.ID, PlayerID: p.PlayerID,
				From: hexPtr(from), To: hexPtr(p.Position),
			})
		}
		events = append(events, Event{
			Type: EventEliminated, PieceID: last.ID, PlayerID: last.PlayerID,
			From: hexPtr(last.Position), Cause: cause,
		})
		gs.removePiece(last.ID)
		return defenderHex, events

	default: // TermEmpty
		// Advance back-to-front so no two pieces ever share a hex.
		for i := len(chain.Pieces) - 1; i >= 0; i-- {
			p := chain.Pieces[i]
			from := p.Position
			p.Position = p.Position.Neighbor(direction)
			events = append(events, Event{
				Type: EventPush, PieceID: p.ID, PlayerID: p.PlayerID,
				From: hexPtr(from), To: hexPtr(p.Position),
			})
		}
		// Restore chain-order emission.
		reverse(events)
		return defenderHex, events
	}
}

func reverse(events []Event) {
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
}
