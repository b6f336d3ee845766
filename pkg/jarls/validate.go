package jarls

// MoveValidation is the successful result of ValidateMove.
type MoveValidation struct {
	// HasMomentum is true for 2-hex moves and grants +1 attack.
	HasMomentum bool
	// AdjustedDestination is set when a jarl's 2-hex move passes through
	// the throne and is clamped onto it.
	AdjustedDestination *Hex
}

// ValidMove is one legal destination for a piece, as reported to clients
// and AI movers.
type ValidMove struct {
	PieceID             string `json:"pieceId"`
	Destination         Hex    `json:"destination"`
	HasMomentum         bool   `json:"hasMomentum"`
	IsAttack            bool   `json:"isAttack,omitempty"`
	AdjustedDestination *Hex   `json:"adjustedDestination,omitempty"`
}

// ValidateMove checks a move command against the full rule set, failing with
// the first matching rule error. It performs no mutation.
func ValidateMove(gs *GameState, playerID string, cmd MoveCommand) (*MoveValidation, error) {
	if gs.Phase != PhasePlaying {
		return nil, ruleErr(ErrGameNotPlaying, "game phase is %s", gs.Phase)
	}
	if playerID != gs.CurrentPlayerID {
		return nil, ruleErr(ErrNotYourTurn, "current player is %s", gs.CurrentPlayerID)
	}
	return validatePieceMove(gs, playerID, cmd)
}

// validatePieceMove runs the piece- and board-level checks, independent of
// whose turn it is. Shared by ValidateMove and ValidMovesForPiece.
func validatePieceMove(gs *GameState, playerID string, cmd MoveCommand) (*MoveValidation, error) {
	piece := gs.PieceByID(cmd.PieceID)
	if piece == nil {
		return nil, ruleErr(ErrPieceNotFound, "no piece %s", cmd.PieceID)
	}
	if piece.Type == Shield {
		return nil, ruleErr(ErrShieldCannotMove, "shields never move")
	}
	if piece.PlayerID != playerID {
		return nil, ruleErr(ErrNotYourPiece, "piece %s belongs to %s", piece.ID, piece.PlayerID)
	}

	dest := cmd.Destination
	if !OnBoard(dest, gs.Config.BoardRadius) {
		return nil, ruleErr(ErrDestinationOffBoard, "(%d,%d) is outside radius %d", dest.Q, dest.R, gs.Config.BoardRadius)
	}
	if gs.IsHole(dest) {
		return nil, ruleErr(ErrDestinationIsHole, "(%d,%d) is a hole", dest.Q, dest.R)
	}
	if occ := gs.PieceAt(dest); occ != nil && occ.PlayerID == playerID {
		return nil, ruleErr(ErrDestinationFriendly, "(%d,%d) holds your own piece", dest.Q, dest.R)
	}
	if piece.Type == Warrior && dest == Throne {
		return nil, ruleErr(ErrWarriorThrone, "only a jarl may enter the throne")
	}
	if !InLine(piece.Position, dest) {
		return nil, ruleErr(ErrNotStraightLine, "moves must follow a hex axis")
	}

	dist := Distance(piece.Position, dest)
	dir := DirectionBetween(piece.Position, dest)
	switch piece.Type {
	case Warrior:
		if dist < 1 || dist > 2 {
			return nil, ruleErr(ErrInvalidDistance, "warriors move 1 or 2 hexes, not %d", dist)
		}
	case Jarl:
		if dist < 1 || dist > 2 {
			return nil, ruleErr(ErrInvalidDistance, "jarls move 1 hex, or 2 with a draft, not %d", dist)
		}
		if dist == 2 && !HasDraft(gs, piece, dir) {
			return nil, ruleErr(ErrJarlNeedsDraft, "a 2-hex jarl move needs two warriors drafting behind it")
		}
	}

	v := &MoveValidation{HasMomentum: dist == 2}

	line := Line(piece.Position, dest)
	for _, h := range line[1 : len(line)-1] {
		// A jarl sweeping through the throne stops on it.
		if piece.Type == Jarl && h == Throne {
			v.AdjustedDestination = hexPtr(Throne)
			return v, nil
		}
		if gs.PieceAt(h) != nil || gs.IsHole(h) {
			return nil, ruleErr(ErrPathBlocked, "(%d,%d) blocks the path", h.Q, h.R)
		}
	}
	return v, nil
}

// HasDraft reports whether the jarl has a draft formation for a move in
// direction d: walking the opposite direction from the jarl, at least two
// friendly warriors are found before an enemy piece, a shield, a hole, or
// the board edge. Empty hexes are skipped, not stopping.
func HasDraft(gs *GameState, jarl *Piece, d int) bool {
	back := Opposite(d)
	count := 0
	cur := jarl.Position
	for {
		cur = cur.Neighbor(back)
		if !OnBoard(cur, gs.Config.BoardRadius) || gs.IsHole(cur) {
			return false
		}
		p := gs.PieceAt(cur)
		if p == nil {
			continue
		}
		if p.Type != Warrior || p.PlayerID != jarl.PlayerID {
			return false
		}
		count++
		if count >= 2 {
			return true
		}
	}
}

// ValidMovesForPiece enumerates every legal move for one piece, ignoring
// whose turn it is. Used by the valid-moves endpoint and the AI movers.
func ValidMovesForPiece(gs *GameState, pieceID string) []ValidMove {
	piece := gs.PieceByID(pieceID)
	if piece == nil || piece.Type == Shield {
		return nil
	}
	var moves []ValidMove
	for d := range Directions {
		for dist := 1; dist <= 2; dist++ {
			dest := piece.Position.Add(Directions[d].Scale(dist))
			v, err := validatePieceMove(gs, piece.PlayerID, MoveCommand{PieceID: pieceID, Destination: dest})
			if err != nil {
				continue
			}
			occ := gs.PieceAt(dest)
			moves = append(moves, ValidMove{
				PieceID:             pieceID,
				Destination:         dest,
				HasMomentum:         v.HasMomentum,
				IsAttack:            occ != nil,
				AdjustedDestination: v.AdjustedDestination,
			})
		}
	}
	return moves
}

// AllValidMoves enumerates every legal move for every piece of a player.
func AllValidMoves(gs *GameState, playerID string) []ValidMove {
	var moves []ValidMove
	for _, p := range gs.PiecesOf(playerID) {
		moves = append(moves, ValidMovesForPiece(gs, p.ID)...)
	}
	return moves
}
