// Package jarls implements the rules of Throne of Jarls: a turn-based
// hex-grid strategy game where each player steers a jarl toward the central
// throne while pushing enemy pieces off the board. Everything in this
// package is pure and deterministic; all I/O lives in the server layers.
package jarls

// Hex is an axial coordinate (q, r) on a centered hexagonal board.
// The cube coordinate s is derived as -q-r.
type Hex struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Throne is the center hex; a jarl that voluntarily reaches it wins.
var Throne = Hex{0, 0}

// The six unit directions, indexed 0-5: East, NE, NW, West, SW, SE.
var Directions = [6]Hex{
	{1, 0},  // East
	{1, -1}, // NE
	{0, -1}, // NW
	{-1, 0}, // West
	{-1, 1}, // SW
	{0, 1},  // SE
}

// S returns the derived cube coordinate, maintaining q+r+s = 0.
func (h Hex) S() int { return -h.Q - h.R }

// Add returns the component-wise sum of two hexes.
func (h Hex) Add(o Hex) Hex { return Hex{h.Q + o.Q, h.R + o.R} }

// Sub returns the component-wise difference of two hexes.
func (h Hex) Sub(o Hex) Hex { return Hex{h.Q - o.Q, h.R - o.R} }

// Scale multiplies both components by k.
func (h Hex) Scale(k int) Hex { return Hex{h.Q * k, h.R * k} }

// Neighbor returns the adjacent hex in direction d (0-5).
func (h Hex) Neighbor(d int) Hex { return h.Add(Directions[d]) }

// Opposite returns the opposite direction index (d+3 mod 6).
func Opposite(d int) int { return (d + 3) % 6 }

// Distance returns the cube distance between two hexes.
func Distance(a, b Hex) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	return (dq + dr + ds) / 2
}

// InLine reports whether b lies on one of the six straight axes through a.
// Two distinct hexes are in line iff one of dq, dr, ds is zero and the other
// two are nonzero opposites.
func InLine(a, b Hex) bool {
	dq := b.Q - a.Q
	dr := b.R - a.R
	ds := -dq - dr
	if dq == 0 && dr == 0 {
		return false
	}
	return dq == 0 || dr == 0 || ds == 0
}

// DirectionBetween returns the direction index from a toward b, or -1 if the
// two hexes are not in line.
func DirectionBetween(a, b Hex) int {
	if !InLine(a, b) {
		return -1
	}
	dist := Distance(a, b)
	step := Hex{(b.Q - a.Q) / dist, (b.R - a.R) / dist}
	for d, dir := range Directions {
		if dir == step {
			return d
		}
	}
	return -1
}

// Line returns the hexes from a to b inclusive. The two hexes must be in
// line; Line returns nil otherwise.
func Line(a, b Hex) []Hex {
	d := DirectionBetween(a, b)
	if d < 0 {
		return nil
	}
	dist := Distance(a, b)
	line := make([]Hex, 0, dist+1)
	cur := a
	for i := 0; i <= dist; i++ {
		line = append(line, cur)
		cur = cur.Neighbor(d)
	}
	return line
}

// OnBoard reports whether h lies within a centered hex board of the given
// radius.
func OnBoard(h Hex, radius int) bool {
	return Distance(h, Throne) <= radius
}

// BoardHexes returns every cell of a radius-R board: 3R^2+3R+1 hexes.
func BoardHexes(radius int) []Hex {
	var hexes []Hex
	for q := -radius; q <= radius; q++ {
		for r := -radius; r <= radius; r++ {
			h := Hex{q, r}
			if OnBoard(h, radius) {
				hexes = append(hexes, h)
			}
		}
	}
	return hexes
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
