package jarls

import "testing"

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b Hex
		want int
	}{
		{Hex{0, 0}, Hex{0, 0}, 0},
		{Hex{0, 0}, Hex{1, 0}, 1},
		{Hex{0, 0}, Hex{3, 0}, 3},
		{Hex{0, 0}, Hex{2, -2}, 2},
		{Hex{0, 0}, Hex{1, 1}, 2},
		{Hex{-2, 1}, Hex{2, -1}, 4},
		{Hex{3, -3}, Hex{-3, 3}, 6},
	}
	for _, tt := range tests {
		if got := Distance(tt.a, tt.b); got != tt.want {
			t.Errorf("Distance(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCubeInvariant(t *testing.T) {
	for d, dir := range Directions {
		if dir.Q+dir.R+dir.S() != 0 {
			t.Errorf("direction %d breaks q+r+s=0: %v", d, dir)
		}
	}
	if Opposite(0) != 3 || Opposite(5) != 2 {
		t.Error("Opposite should rotate by three")
	}
	for d := range Directions {
		if Directions[d].Add(Directions[Opposite(d)]) != (Hex{0, 0}) {
			t.Errorf("direction %d and its opposite do not cancel", d)
		}
	}
}

func TestInLine(t *testing.T) {
	tests := []struct {
		a, b Hex
		want bool
	}{
		{Hex{0, 0}, Hex{3, 0}, true},   // east axis
		{Hex{0, 0}, Hex{0, -2}, true},  // NW axis
		{Hex{0, 0}, Hex{2, -2}, true},  // NE axis
		{Hex{0, 0}, Hex{2, -1}, false}, // off-axis
		{Hex{0, 0}, Hex{1, 1}, false},
		{Hex{1, 1}, Hex{1, 1}, false}, // same hex
		{Hex{2, -1}, Hex{-1, 2}, true},
	}
	for _, tt := range tests {
		if got := InLine(tt.a, tt.b); got != tt.want {
			t.Errorf("InLine(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestLine(t *testing.T) {
	line := Line(Hex{-1, 0}, Hex{2, 0})
	want := []Hex{{-1, 0}, {0, 0}, {1, 0}, {2, 0}}
	if len(line) != len(want) {
		t.Fatalf("Line length = %d, want %d", len(line), len(want))
	}
	for i := range want {
		if line[i] != want[i] {
			t.Errorf("Line[%d] = %v, want %v", i, line[i], want[i])
		}
	}
	if Line(Hex{0, 0}, Hex{2, -1}) != nil {
		t.Error("Line of off-axis hexes should be nil")
	}
}

func TestDirectionBetween(t *testing.T) {
	tests := []struct {
		a, b Hex
		want int
	}{
		{Hex{0, 0}, Hex{2, 0}, 0},
		{Hex{0, 0}, Hex{1, -1}, 1},
		{Hex{0, 0}, Hex{0, -3}, 2},
		{Hex{0, 0}, Hex{-1, 0}, 3},
		{Hex{0, 0}, Hex{-2, 2}, 4},
		{Hex{0, 0}, Hex{0, 2}, 5},
		{Hex{0, 0}, Hex{1, 1}, -1},
	}
	for _, tt := range tests {
		if got := DirectionBetween(tt.a, tt.b); got != tt.want {
			t.Errorf("DirectionBetween(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestBoardHexes(t *testing.T) {
	for radius := 2; radius <= 6; radius++ {
		want := 3*radius*radius + 3*radius + 1
		if got := len(BoardHexes(radius)); got != want {
			t.Errorf("radius %d board has %d cells, want %d", radius, got, want)
		}
	}
}

func TestOnBoard(t *testing.T) {
	if !OnBoard(Hex{3, 0}, 3) {
		t.Error("(3,0) should be on a radius-3 board")
	}
	if OnBoard(Hex{4, 0}, 3) {
		t.Error("(4,0) should be off a radius-3 board")
	}
	if OnBoard(Hex{3, 1}, 3) {
		t.Error("(3,1) has cube distance 4, should be off a radius-3 board")
	}
}
