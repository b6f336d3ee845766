package jarls

import "testing"

func TestCalculateAttackBreakdown(t *testing.T) {
	// Attacker w1 at (2,0) striking east; jarl supports from (1,0).
	gs := testState(3, wr("w1", "p1", 2, 0), jl("p1", 1, 0), wr("e1", "p2", 3, 0), jl("p2", -3, 0))
	atk := gs.PieceByID("w1")
	side := CalculateAttack(gs, atk, Hex{2, 0}, 0, false)
	if side.BaseStrength != 1 || side.Support != 2 || side.Momentum != 0 {
		t.Errorf("breakdown = %+v, want base 1 support 2 momentum 0", side)
	}
	if side.Total != 3 {
		t.Errorf("total = %d, want 3", side.Total)
	}
}

func TestAttackMomentum(t *testing.T) {
	gs := testState(3, wr("w1", "p1", 2, 0), wr("e1", "p2", 3, 0), jl("p1", 0, -3), jl("p2", -3, 0))
	side := CalculateAttack(gs, gs.PieceByID("w1"), Hex{2, 0}, 0, true)
	if side.Momentum != 1 || side.Total != 2 {
		t.Errorf("breakdown = %+v, want momentum 1 total 2", side)
	}
}

func TestSupportStopsAtGap(t *testing.T) {
	// Support walk: (1,0) friendly, (0,0) empty throne stops the walk, so
	// the warrior at (-1,0) does not count.
	gs := testState(3, wr("w1", "p1", 2, 0), wr("w2", "p1", 1, 0), wr("w3", "p1", -1, 0),
		wr("e1", "p2", 3, 0), jl("p1", 0, -3), jl("p2", -3, 0))
	if got := findInlineSupport(gs, "p1", Hex{2, 0}, 0); got != 1 {
		t.Errorf("support = %d, want 1 (gap stops the walk)", got)
	}
}

func TestSupportStopsAtShieldAndEnemy(t *testing.T) {
	gs := testState(3, wr("w1", "p1", 2, 0), sh("s1", 1, 0), wr("w2", "p1", 0, 1),
		wr("e1", "p2", 3, 0), jl("p1", 0, -3), jl("p2", -3, 0))
	if got := findInlineSupport(gs, "p1", Hex{2, 0}, 0); got != 0 {
		t.Errorf("support = %d, want 0 (shield stops the walk)", got)
	}
	gs2 := testState(3, wr("w1", "p1", 2, 0), wr("e2", "p2", 1, 0), wr("w2", "p1", -1, 0),
		wr("e1", "p2", 3, 0), jl("p1", 0, -3), jl("p2", -3, 0))
	if got := findInlineSupport(gs2, "p1", Hex{2, 0}, 0); got != 0 {
		t.Errorf("support = %d, want 0 (enemy stops the walk)", got)
	}
}

func TestCalculateDefenseBracing(t *testing.T) {
	// Defender e1 at (3,0) pushed east has no room to brace; pushed west it
	// braces on e2 at (2,0)? No: bracing lies along the push direction.
	gs := testState(3, wr("e1", "p2", 2, 0), wr("e2", "p2", 3, 0), jl("p2", -3, 0), jl("p1", 0, 3))
	def := CalculateDefense(gs, gs.PieceByID("e1"), 0)
	if def.BaseStrength != 1 || def.Support != 1 || def.Total != 2 {
		t.Errorf("defense = %+v, want base 1 support 1 total 2", def)
	}
	if def.Momentum != 0 {
		t.Error("defense never has momentum")
	}
}

func TestCombatTieFavorsDefender(t *testing.T) {
	// 1 vs 1: blocked.
	gs := testState(3, wr("w1", "p1", 2, 0), wr("e1", "p2", 3, 0), jl("p1", 0, -3), jl("p2", -3, 0))
	c := CalculateCombat(gs, gs.PieceByID("w1"), Hex{2, 0}, gs.PieceByID("e1"), 0, false)
	if c.Outcome != OutcomeBlocked {
		t.Errorf("outcome = %s, want blocked on tie", c.Outcome)
	}
	// With momentum, 2 vs 1: push.
	c = CalculateCombat(gs, gs.PieceByID("w1"), Hex{2, 0}, gs.PieceByID("e1"), 0, true)
	if c.Outcome != OutcomePush {
		t.Errorf("outcome = %s, want push", c.Outcome)
	}
	if c.PushDirection != 0 {
		t.Errorf("pushDirection = %d, want 0", c.PushDirection)
	}
}

func TestShieldAlwaysBlocks(t *testing.T) {
	gs := testState(3, jl("p1", 2, 0), wr("w1", "p1", 1, 0),
		sh("s1", 3, 0), jl("p2", -3, 0))
	c := CalculateCombat(gs, gs.PieceByID("jarl-p1"), Hex{2, 0}, gs.PieceAt(Hex{3, 0}), 0, true)
	if c.Outcome != OutcomeBlocked {
		t.Errorf("outcome = %s, want blocked against shield", c.Outcome)
	}
}
