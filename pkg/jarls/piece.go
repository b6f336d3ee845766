package jarls

// PieceType is the kind of a board piece.
type PieceType string

const (
	Jarl    PieceType = "jarl"
	Warrior PieceType = "warrior"
	Shield  PieceType = "shield"
)

// Piece strengths for combat. Shields are blockers and have no strength of
// their own; they never attack, defend, or move.
const (
	JarlStrength    = 2
	WarriorStrength = 1
)

// Piece is a single board piece. IDs are immutable for the life of a game.
// Shields are neutral: PlayerID is empty and they never move.
type Piece struct {
	ID       string    `json:"id"`
	Type     PieceType `json:"type"`
	PlayerID string    `json:"playerId,omitempty"`
	Position Hex       `json:"position"`
}

// Strength returns the combat strength contributed by the piece. Shields
// contribute nothing; their blocking is handled by chain detection.
func (p *Piece) Strength() int {
	switch p.Type {
	case Jarl:
		return JarlStrength
	case Warrior:
		return WarriorStrength
	default:
		return 0
	}
}

// Player is a seat in a game. Order of appearance in GameState.Players is
// join order and defines turn order; index 0 is the host.
type Player struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Color        string `json:"color"`
	IsAI         bool   `json:"isAI,omitempty"`
	AIDifficulty string `json:"aiDifficulty,omitempty"`
	IsEliminated bool   `json:"isEliminated"`
}
