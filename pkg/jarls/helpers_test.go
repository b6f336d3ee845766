package jarls

// Test fixtures: a 2-player board with hand-placed pieces.

func testState(radius int, pieces ...Piece) *GameState {
	return &GameState{
		Config: GameConfig{
			PlayerCount:  2,
			BoardRadius:  radius,
			WarriorCount: 5,
			Terrain:      TerrainOpen,
		},
		Players: []Player{
			{ID: "p1", Name: "Ragnar", Color: "red"},
			{ID: "p2", Name: "Erik", Color: "blue"},
		},
		Phase:           PhasePlaying,
		CurrentPlayerID: "p1",
		TurnNumber:      1,
		RoundNumber:     1,
		Pieces:          pieces,
	}
}

func wr(id, player string, q, r int) Piece {
	return Piece{ID: id, Type: Warrior, PlayerID: player, Position: Hex{q, r}}
}

func jl(player string, q, r int) Piece {
	return Piece{ID: "jarl-" + player, Type: Jarl, PlayerID: player, Position: Hex{q, r}}
}

func sh(id string, q, r int) Piece {
	return Piece{ID: id, Type: Shield, Position: Hex{q, r}}
}

func mv(pieceID string, q, r int) MoveCommand {
	return MoveCommand{PieceID: pieceID, Destination: Hex{q, r}}
}

func ruleCode(err error) string {
	if re, ok := err.(*RuleError); ok {
		return re.Code
	}
	return ""
}

func eventTypes(events []Event) []EventType {
	var types []EventType
	for _, e := range events {
		types = append(types, e.Type)
	}
	return types
}

func findEvent(events []Event, t EventType) *Event {
	for i := range events {
		if events[i].Type == t {
			return &events[i]
		}
	}
	return nil
}
