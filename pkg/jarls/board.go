package jarls

import (
	"fmt"
	"sort"
)

// Terrain selects the hole pattern of the starting board. It affects
// nothing else.
type Terrain string

const (
	TerrainOpen   Terrain = "open"
	TerrainRavine Terrain = "ravine"
)

// Player colors assigned in seat order.
var seatColors = []string{"red", "blue", "green", "yellow", "purple", "orange"}

// ColorForSeat returns the fixed color of a seat index.
func ColorForSeat(i int) string {
	return seatColors[i%len(seatColors)]
}

// BoardRadiusForPlayers maps the player count to the board radius.
func BoardRadiusForPlayers(playerCount int) int {
	switch playerCount {
	case 2:
		return 3
	case 3:
		return 4
	case 4:
		return 4
	case 5:
		return 5
	default:
		return 5
	}
}

// DefaultWarriorCount maps the board radius to warriors per player.
func DefaultWarriorCount(radius int) int {
	switch radius {
	case 3:
		return 5
	case 4:
		return 6
	default:
		return 8
	}
}

// seatCorners maps player count to the occupied corner direction indices,
// spreading players evenly around the board.
var seatCorners = map[int][]int{
	2: {0, 3},
	3: {0, 2, 4},
	4: {0, 1, 3, 4},
	5: {0, 1, 2, 3, 4},
	6: {0, 1, 2, 3, 4, 5},
}

// ravineHoles is the centrally-symmetric hole pattern of the ravine terrain,
// at distance 2 off the shield axes.
var ravineHoles = []Hex{{2, -1}, {-2, 1}, {-1, 2}, {1, -2}}

// terrainHoles returns the hole set for the given terrain. Cells occupied by
// shields or starting pieces take precedence; callers place holes first and
// skip occupied cells during placement.
func terrainHoles(t Terrain) []Hex {
	if t == TerrainRavine {
		return append([]Hex(nil), ravineHoles...)
	}
	return nil
}

// NewInitialState builds the starting board for a full lobby: one jarl per
// player at its corner, warriors fanned out around it, a shield ring at
// distance two from the throne, and holes from the terrain table. Placement
// is fully deterministic.
func NewInitialState(cfg GameConfig, players []Player) (*GameState, error) {
	if len(players) != cfg.PlayerCount {
		return nil, fmt.Errorf("need %d players, have %d", cfg.PlayerCount, len(players))
	}
	corners, ok := seatCorners[cfg.PlayerCount]
	if !ok {
		return nil, fmt.Errorf("unsupported player count %d", cfg.PlayerCount)
	}

	gs := &GameState{
		Config:           cfg,
		Players:          append([]Player(nil), players...),
		Phase:            PhasePlaying,
		CurrentPlayerID:  players[0].ID,
		TurnNumber:       1,
		RoundNumber:      1,
		FirstPlayerIndex: 0,
		Holes:            terrainHoles(cfg.Terrain),
	}

	// Shield ring: one shield per axis at distance two from the throne.
	for d, dir := range Directions {
		pos := dir.Scale(2)
		if gs.IsHole(pos) {
			continue
		}
		gs.Pieces = append(gs.Pieces, Piece{
			ID:       fmt.Sprintf("shield-%d", d),
			Type:     Shield,
			Position: pos,
		})
	}

	for seat, pl := range players {
		corner := Directions[corners[seat]].Scale(cfg.BoardRadius)
		gs.Pieces = append(gs.Pieces, Piece{
			ID:       fmt.Sprintf("jarl-%s", pl.ID),
			Type:     Jarl,
			PlayerID: pl.ID,
			Position: corner,
		})
		for i, pos := range warriorPositions(gs, corner, cfg.WarriorCount) {
			gs.Pieces = append(gs.Pieces, Piece{
				ID:       fmt.Sprintf("warrior-%s-%d", pl.ID, i+1),
				Type:     Warrior,
				PlayerID: pl.ID,
				Position: pos,
			})
		}
	}
	return gs, nil
}

// warriorPositions picks count free cells nearest the corner, ordered by
// (distance to corner, q, r) so every game with the same config starts
// identically. The throne, holes, and occupied cells are skipped.
func warriorPositions(gs *GameState, corner Hex, count int) []Hex {
	var free []Hex
	for _, h := range BoardHexes(gs.Config.BoardRadius) {
		if h == corner || h == Throne || gs.IsHole(h) || gs.PieceAt(h) != nil {
			continue
		}
		if Distance(h, corner) > gs.Config.BoardRadius {
			continue
		}
		free = append(free, h)
	}
	sort.Slice(free, func(i, j int) bool {
		di, dj := Distance(free[i], corner), Distance(free[j], corner)
		if di != dj {
			return di < dj
		}
		if free[i].Q != free[j].Q {
			return free[i].Q < free[j].Q
		}
		return free[i].R < free[j].R
	})
	if count > len(free) {
		count = len(free)
	}
	return free[:count]
}
