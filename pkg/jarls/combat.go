package jarls

// CombatSide is the strength breakdown for one side of a combat.
type CombatSide struct {
	BaseStrength int `json:"baseStrength"`
	Momentum     int `json:"momentum,omitempty"`
	Support      int `json:"support,omitempty"`
	Total        int `json:"total"`
}

// CombatOutcome is the result kind of a combat resolution.
type CombatOutcome string

const (
	OutcomePush    CombatOutcome = "push"
	OutcomeBlocked CombatOutcome = "blocked"
)

// Combat is a fully-computed combat: both breakdowns and the outcome.
type Combat struct {
	Attack        CombatSide    `json:"attack"`
	Defense       CombatSide    `json:"defense"`
	Outcome       CombatOutcome `json:"outcome"`
	PushDirection int           `json:"pushDirection"`
}

// CalculateAttack computes the attacker's strength when striking from
// posAtImpact in the given direction. Momentum adds one for a 2-hex move;
// support is the friendly pieces lined up continuously behind the impact
// position.
func CalculateAttack(gs *GameState, attacker *Piece, posAtImpact Hex, direction int, hasMomentum bool) CombatSide {
	side := CombatSide{BaseStrength: attacker.Strength()}
	if hasMomentum {
		side.Momentum = 1
	}
	side.Support = findInlineSupport(gs, attacker.PlayerID, posAtImpact, direction)
	side.Total = side.BaseStrength + side.Momentum + side.Support
	return side
}

// CalculateDefense computes the defender's strength against a push in the
// given direction. Defense has no momentum bonus; bracing pieces line up
// behind the defender along the push axis.
func CalculateDefense(gs *GameState, defender *Piece, direction int) CombatSide {
	side := CombatSide{BaseStrength: defender.Strength()}
	side.Support = findBracing(gs, defender.PlayerID, defender.Position, direction)
	side.Total = side.BaseStrength + side.Support
	return side
}

// CalculateCombat resolves an attack against the defender. Ties favor the
// defender. A shield defender always blocks; its chain-stopping guarantee is
// absolute.
func CalculateCombat(gs *GameState, attacker *Piece, posAtImpact Hex, defender *Piece, direction int, hasMomentum bool) Combat {
	c := Combat{
		Attack:        CalculateAttack(gs, attacker, posAtImpact, direction, hasMomentum),
		Defense:       CalculateDefense(gs, defender, direction),
		PushDirection: direction,
	}
	if defender.Type != Shield && c.Attack.Total > c.Defense.Total {
		c.Outcome = OutcomePush
	} else {
		c.Outcome = OutcomeBlocked
	}
	return c
}

// findInlineSupport walks from posAtImpact opposite to the attack direction,
// summing the strength of each contiguous friendly non-shield piece. The
// first gap, enemy piece, or shield stops the walk.
func findInlineSupport(gs *GameState, playerID string, posAtImpact Hex, direction int) int {
	back := Opposite(direction)
	total := 0
	cur := posAtImpact
	for {
		cur = cur.Neighbor(back)
		p := gs.PieceAt(cur)
		if p == nil || p.Type == Shield || p.PlayerID != playerID {
			return total
		}
		total += p.Strength()
	}
}

// findBracing walks from the defender in the push direction, summing the
// strength of each contiguous friendly non-shield piece behind it.
func findBracing(gs *GameState, playerID string, pos Hex, direction int) int {
	total := 0
	cur := pos
	for {
		cur = cur.Neighbor(direction)
		p := gs.PieceAt(cur)
		if p == nil || p.Type == Shield || p.PlayerID != playerID {
			return total
		}
		total += p.Strength()
	}
}
