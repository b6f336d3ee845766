package game

import (
	"math/rand"
	"sort"

	"github.com/freeeve/throneofjarls/api/pkg/jarls"
)

// Strategy picks moves for an AI seat. Implementations must be safe to call
// from a mover goroutine on a private state copy.
type Strategy interface {
	Name() string
	ChooseMove(gs *jarls.GameState, playerID string) *jarls.MoveCommand
	ChooseStarvation(gs *jarls.GameState, playerID string, candidates []string) string
}

// AIDifficulties lists the accepted difficulty names.
var AIDifficulties = []string{"random", "heuristic", "neural", "groq"}

// StrategyForDifficulty returns the strategy for a difficulty level, or nil
// for an unknown one.
func StrategyForDifficulty(difficulty string) Strategy {
	switch difficulty {
	case "random":
		return RandomStrategy{}
	case "heuristic":
		return HeuristicStrategy{}
	case "neural":
		return newGonnxOrFallback()
	case "groq":
		return newGroqOrFallback()
	default:
		return nil
	}
}

// --- RandomStrategy ---

// RandomStrategy plays a uniformly random valid move.
type RandomStrategy struct{}

func (RandomStrategy) Name() string { return "random" }

func (RandomStrategy) ChooseMove(gs *jarls.GameState, playerID string) *jarls.MoveCommand {
	moves := jarls.AllValidMoves(gs, playerID)
	if len(moves) == 0 {
		return nil
	}
	m := moves[rand.Intn(len(moves))]
	return &jarls.MoveCommand{PieceID: m.PieceID, Destination: m.Destination}
}

func (RandomStrategy) ChooseStarvation(_ *jarls.GameState, _ string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	return candidates[rand.Intn(len(candidates))]
}

// --- HeuristicStrategy ---

// HeuristicStrategy greedily plays the move whose resulting position scores
// best under a 1-ply material-and-distance evaluation.
type HeuristicStrategy struct{}

func (HeuristicStrategy) Name() string { return "heuristic" }

func (HeuristicStrategy) ChooseMove(gs *jarls.GameState, playerID string) *jarls.MoveCommand {
	moves := jarls.AllValidMoves(gs, playerID)
	if len(moves) == 0 {
		return nil
	}
	sortMoves(moves)

	var best *jarls.MoveCommand
	bestScore := 0.0
	for _, m := range moves {
		cmd := jarls.MoveCommand{PieceID: m.PieceID, Destination: m.Destination}
		res, err := jarls.ApplyMove(gs, playerID, cmd)
		if err != nil {
			continue
		}
		score := evaluate(res.State, playerID)
		if best == nil || score > bestScore {
			c := cmd
			best = &c
			bestScore = score
		}
	}
	return best
}

func (HeuristicStrategy) ChooseStarvation(_ *jarls.GameState, _ string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	// Candidates are equidistant from the throne; take the lowest ID so the
	// choice is reproducible.
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)
	return sorted[0]
}

// evaluate scores a position for the given player. Higher is better.
func evaluate(gs *jarls.GameState, playerID string) float64 {
	if gs.Phase == jarls.PhaseEnded {
		if gs.WinnerID == playerID {
			return 10000
		}
		return -10000
	}

	score := 0.0
	for _, p := range gs.Pieces {
		switch {
		case p.Type == jarls.Shield:
		case p.PlayerID == playerID:
			if p.Type == jarls.Jarl {
				score += 100
				// Closing on the throne is the main plan.
				score -= 5 * float64(jarls.Distance(p.Position, jarls.Throne))
			} else {
				score += 10
				score -= 0.5 * float64(jarls.Distance(p.Position, jarls.Throne))
			}
		default:
			if p.Type == jarls.Jarl {
				score -= 100
				// An enemy jarl far from the throne is a safer board.
				score += 2 * float64(jarls.Distance(p.Position, jarls.Throne))
			} else {
				score -= 10
			}
		}
	}
	return score
}

// sortMoves orders candidates by (pieceID, destination) so greedy tie-breaks
// are deterministic.
func sortMoves(moves []jarls.ValidMove) {
	sort.Slice(moves, func(i, j int) bool {
		if moves[i].PieceID != moves[j].PieceID {
			return moves[i].PieceID < moves[j].PieceID
		}
		if moves[i].Destination.Q != moves[j].Destination.Q {
			return moves[i].Destination.Q < moves[j].Destination.Q
		}
		return moves[i].Destination.R < moves[j].Destination.R
	})
}
