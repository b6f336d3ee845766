package jarls

// Phase is the top-level state of a game.
type Phase string

const (
	PhaseLobby      Phase = "lobby"
	PhasePlaying    Phase = "playing"
	PhaseStarvation Phase = "starvation"
	PhaseEnded      Phase = "ended"
)

// WinCondition records how a finished game was won.
type WinCondition string

const (
	WinThrone       WinCondition = "throne"
	WinLastStanding WinCondition = "lastStanding"
)

// StarvationThreshold is the number of full rounds without an elimination
// after which the starvation rule fires.
const StarvationThreshold = 5

// GameConfig is frozen at game creation.
type GameConfig struct {
	PlayerCount      int     `json:"playerCount"`
	BoardRadius      int     `json:"boardRadius"`
	WarriorCount     int     `json:"warriorCount"`
	TurnTimerMs      *int64  `json:"turnTimerMs,omitempty"`
	TimeoutSacrifice bool    `json:"timeoutSacrifice,omitempty"`
	Terrain          Terrain `json:"terrain"`
}

// MoveCommand is a fully-decoded move request: which piece, and where.
type MoveCommand struct {
	PieceID     string `json:"pieceId"`
	Destination Hex    `json:"destination"`
}

// MoveRecord is one entry of a game's append-only move history.
type MoveRecord struct {
	TurnNumber int    `json:"turnNumber"`
	PlayerID   string `json:"playerId"`
	PieceID    string `json:"pieceId"`
	From       Hex    `json:"from"`
	To         Hex    `json:"to"`
}

// GameState is the complete state of one game. It is mutated only by the
// owning game actor; the engine operates on copies.
type GameState struct {
	Config                 GameConfig   `json:"config"`
	Players                []Player     `json:"players"`
	Pieces                 []Piece      `json:"pieces"`
	Holes                  []Hex        `json:"holes"`
	Phase                  Phase        `json:"phase"`
	CurrentPlayerID        string       `json:"currentPlayerId,omitempty"`
	TurnNumber             int          `json:"turnNumber"`
	RoundNumber            int          `json:"roundNumber"`
	FirstPlayerIndex       int          `json:"firstPlayerIndex"`
	RoundsSinceElimination int          `json:"roundsSinceElimination"`
	WinnerID               string       `json:"winnerId,omitempty"`
	WinCondition           WinCondition `json:"winCondition,omitempty"`
	MoveHistory            []MoveRecord `json:"moveHistory,omitempty"`

	// PendingStarvation maps tied players to their candidate warrior IDs
	// while Phase == PhaseStarvation. StarvationChoices latches each tied
	// player's submitted choice until all are in.
	PendingStarvation map[string][]string `json:"pendingStarvation,omitempty"`
	StarvationChoices map[string]string   `json:"starvationChoices,omitempty"`
}

// PieceAt returns the piece occupying the given hex, or nil.
func (gs *GameState) PieceAt(h Hex) *Piece {
	for i := range gs.Pieces {
		if gs.Pieces[i].Position == h {
			return &gs.Pieces[i]
		}
	}
	return nil
}

// PieceByID returns the piece with the given ID, or nil.
func (gs *GameState) PieceByID(id string) *Piece {
	for i := range gs.Pieces {
		if gs.Pieces[i].ID == id {
			return &gs.Pieces[i]
		}
	}
	return nil
}

// PlayerByID returns the player with the given ID, or nil.
func (gs *GameState) PlayerByID(id string) *Player {
	for i := range gs.Players {
		if gs.Players[i].ID == id {
			return &gs.Players[i]
		}
	}
	return nil
}

// PiecesOf returns all pieces owned by the given player.
func (gs *GameState) PiecesOf(playerID string) []Piece {
	var pieces []Piece
	for _, p := range gs.Pieces {
		if p.PlayerID == playerID {
			pieces = append(pieces, p)
		}
	}
	return pieces
}

// JarlOf returns the given player's jarl, or nil if it has been eliminated.
func (gs *GameState) JarlOf(playerID string) *Piece {
	for i := range gs.Pieces {
		if gs.Pieces[i].Type == Jarl && gs.Pieces[i].PlayerID == playerID {
			return &gs.Pieces[i]
		}
	}
	return nil
}

// IsHole reports whether the hex is impassable terrain.
func (gs *GameState) IsHole(h Hex) bool {
	for _, hole := range gs.Holes {
		if hole == h {
			return true
		}
	}
	return false
}

// AlivePlayers returns the non-eliminated players in turn order.
func (gs *GameState) AlivePlayers() []Player {
	var alive []Player
	for _, p := range gs.Players {
		if !p.IsEliminated {
			alive = append(alive, p)
		}
	}
	return alive
}

// removePiece deletes the piece with the given ID from the board.
func (gs *GameState) removePiece(id string) {
	for i := range gs.Pieces {
		if gs.Pieces[i].ID == id {
			gs.Pieces = append(gs.Pieces[:i], gs.Pieces[i+1:]...)
			return
		}
	}
}

// Clone returns a deep copy of the state. The engine never mutates its
// input; ApplyMove and friends operate on a clone.
func (gs *GameState) Clone() *GameState {
	cp := *gs
	cp.Players = append([]Player(nil), gs.Players...)
	cp.Pieces = append([]Piece(nil), gs.Pieces...)
	cp.Holes = append([]Hex(nil), gs.Holes...)
	cp.MoveHistory = append([]MoveRecord(nil), gs.MoveHistory...)
	if gs.PendingStarvation != nil {
		cp.PendingStarvation = make(map[string][]string, len(gs.PendingStarvation))
		for k, v := range gs.PendingStarvation {
			cp.PendingStarvation[k] = append([]string(nil), v...)
		}
	}
	if gs.StarvationChoices != nil {
		cp.StarvationChoices = make(map[string]string, len(gs.StarvationChoices))
		for k, v := range gs.StarvationChoices {
			cp.StarvationChoices[k] = v
		}
	}
	return &cp
}

// advanceTurn moves play to the next non-eliminated player, bumping
// turnNumber and, when the turn wraps past the first player, roundNumber and
// roundsSinceElimination.
func (gs *GameState) advanceTurn() string {
	cur := -1
	for i := range gs.Players {
		if gs.Players[i].ID == gs.CurrentPlayerID {
			cur = i
			break
		}
	}
	n := len(gs.Players)
	for step := 1; step <= n; step++ {
		idx := (cur + step) % n
		if gs.Players[idx].IsEliminated {
			continue
		}
		if cur+step >= n {
			// Wrapped around: a full round has completed.
			gs.RoundNumber++
			gs.RoundsSinceElimination++
		}
		gs.CurrentPlayerID = gs.Players[idx].ID
		break
	}
	gs.TurnNumber++
	return gs.CurrentPlayerID
}
