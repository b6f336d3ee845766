package jarls

// EventType identifies an engine event.
type EventType string

const (
	EventMove                EventType = "MOVE"
	EventAttack              EventType = "ATTACK"
	EventPush                EventType = "PUSH"
	EventBlocked             EventType = "BLOCKED"
	EventCompressed          EventType = "COMPRESSED"
	EventEliminated          EventType = "ELIMINATED"
	EventPlayerEliminated    EventType = "PLAYER_ELIMINATED"
	EventTurnEnded           EventType = "TURN_ENDED"
	EventGameEnded           EventType = "GAME_ENDED"
	EventStarvationTriggered EventType = "STARVATION_TRIGGERED"
	EventStarvationResolved  EventType = "STARVATION_RESOLVED"
)

// Elimination causes carried on ELIMINATED events.
const (
	CauseEdge       = "edge"
	CauseHole       = "hole"
	CauseStarvation = "starvation"
	CauseTimeout    = "timeout"
)

// Event is one step of a resolved command, in emission order. Fields are
// populated per event type; unused fields are omitted from JSON.
type Event struct {
	Type        EventType     `json:"type"`
	PieceID     string        `json:"pieceId,omitempty"`
	PlayerID    string        `json:"playerId,omitempty"`
	From        *Hex          `json:"from,omitempty"`
	To          *Hex          `json:"to,omitempty"`
	HasMomentum bool          `json:"hasMomentum,omitempty"`
	Cause       string        `json:"cause,omitempty"`
	Attack      *CombatSide   `json:"attack,omitempty"`
	Defense     *CombatSide   `json:"defense,omitempty"`
	NextPlayer  string        `json:"nextPlayerId,omitempty"`
	WinnerID    string        `json:"winnerId,omitempty"`
	Win         WinCondition  `json:"winCondition,omitempty"`
	Candidates  map[string][]string `json:"candidates,omitempty"`
}

func hexPtr(h Hex) *Hex { return &h }
