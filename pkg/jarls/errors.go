package jarls

import "fmt"

// Move rejection codes. Validation failures never mutate state; the code is
// returned verbatim in the command ack.
const (
	ErrGameNotPlaying           = "GAME_NOT_PLAYING"
	ErrNotYourTurn              = "NOT_YOUR_TURN"
	ErrPieceNotFound            = "PIECE_NOT_FOUND"
	ErrNotYourPiece             = "NOT_YOUR_PIECE"
	ErrShieldCannotMove         = "SHIELD_CANNOT_MOVE"
	ErrDestinationOffBoard      = "DESTINATION_OFF_BOARD"
	ErrDestinationIsHole        = "DESTINATION_IS_HOLE"
	ErrDestinationFriendly      = "DESTINATION_OCCUPIED_FRIENDLY"
	ErrWarriorThrone            = "WARRIOR_CANNOT_ENTER_THRONE"
	ErrNotStraightLine          = "MOVE_NOT_STRAIGHT_LINE"
	ErrInvalidDistance          = "INVALID_DISTANCE"
	ErrJarlNeedsDraft           = "JARL_NEEDS_DRAFT_FOR_TWO_HEX"
	ErrPathBlocked              = "PATH_BLOCKED"
	ErrGameNotStarving          = "GAME_NOT_IN_STARVATION"
	ErrInvalidStarvationChoice  = "INVALID_STARVATION_CHOICE"
	ErrNoStarvationChoiceNeeded = "NO_STARVATION_CHOICE_NEEDED"
)

// RuleError is a rule violation: caller-recoverable, carries a stable code.
type RuleError struct {
	Code    string
	Message string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func ruleErr(code, format string, args ...any) *RuleError {
	return &RuleError{Code: code, Message: fmt.Sprintf(format, args...)}
}
