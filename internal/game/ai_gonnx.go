package game

import (
	"fmt"
	"sort"
	"sync"

	gonnx "github.com/advancedclimatesystems/gonnx"
	"github.com/rs/zerolog/log"
	"gorgonia.org/tensor"

	"github.com/freeeve/throneofjarls/api/pkg/jarls"
)

// GonnxModelPath is the path to the value ONNX model used by the "neural"
// difficulty. Set at startup from the GONNX_MODEL_PATH env var.
var GonnxModelPath string

// Feature planes of the board encoding, one float per hex per plane.
const (
	planeOwnJarl = iota
	planeOwnWarrior
	planeEnemyJarl
	planeEnemyWarrior
	planeShield
	planeHole
	numPlanes
)

// newGonnxOrFallback attempts to load the value model. Without a model the
// neural seat plays the heuristic so the game can proceed.
func newGonnxOrFallback() Strategy {
	if GonnxModelPath == "" {
		log.Warn().Msg("neural difficulty requested but GONNX_MODEL_PATH not set; falling back to heuristic")
		return HeuristicStrategy{}
	}
	s, err := newGonnxStrategy(GonnxModelPath)
	if err != nil {
		log.Warn().Err(err).Str("path", GonnxModelPath).Msg("value model load failed; falling back to heuristic")
		return HeuristicStrategy{}
	}
	return s
}

// GonnxStrategy scores each candidate move by running a value network over
// the resulting position and plays the best one. Inference runs in-process
// via gonnx (pure Go ONNX runtime).
type GonnxStrategy struct {
	value *gonnx.Model
	mu    sync.Mutex
}

func newGonnxStrategy(path string) (*GonnxStrategy, error) {
	value, err := gonnx.NewModelFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load value model: %w", err)
	}
	return &GonnxStrategy{value: value}, nil
}

func (s *GonnxStrategy) Name() string { return "neural" }

func (s *GonnxStrategy) ChooseMove(gs *jarls.GameState, playerID string) *jarls.MoveCommand {
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
		score, err := s.scorePosition(res.State, playerID)
		if err != nil {
			log.Warn().Err(err).Msg("value inference failed; falling back to heuristic")
			return HeuristicStrategy{}.ChooseMove(gs, playerID)
		}
		// A won position needs no network opinion.
		if res.State.Phase == jarls.PhaseEnded && res.State.WinnerID == playerID {
			return &cmd
		}
		if best == nil || score > bestScore {
			c := cmd
			best = &c
			bestScore = score
		}
	}
	return best
}

func (s *GonnxStrategy) ChooseStarvation(gs *jarls.GameState, playerID string, candidates []string) string {
	return HeuristicStrategy{}.ChooseStarvation(gs, playerID, candidates)
}

// scorePosition encodes the position from the player's perspective and runs
// the value model, returning a single scalar appraisal.
func (s *GonnxStrategy) scorePosition(gs *jarls.GameState, playerID string) (float64, error) {
	board := encodeBoard(gs, playerID)
	cells := len(board) / numPlanes

	boardTensor := tensor.New(
		tensor.WithShape(1, cells, numPlanes),
		tensor.Of(tensor.Float32),
		tensor.WithBacking(board),
	)

	inputs := gonnx.Tensors{"board": boardTensor}

	s.mu.Lock()
	outputs, err := s.value.Run(inputs)
	s.mu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("value run: %w", err)
	}

	out, ok := outputs["value"]
	if !ok {
		for _, v := range outputs {
			out = v
			break
		}
	}
	if out == nil {
		return 0, fmt.Errorf("no output tensor from value model")
	}
	switch d := out.Data().(type) {
	case []float32:
		if len(d) == 0 {
			return 0, fmt.Errorf("empty value output")
		}
		return float64(d[0]), nil
	case []float64:
		if len(d) == 0 {
			return 0, fmt.Errorf("empty value output")
		}
		return d[0], nil
	case float32:
		return float64(d), nil
	case float64:
		return d, nil
	default:
		return 0, fmt.Errorf("unexpected value output type %T", out.Data())
	}
}

// encodeBoard flattens the board into per-hex feature planes in a fixed hex
// order so identical positions always encode identically.
func encodeBoard(gs *jarls.GameState, playerID string) []float32 {
	hexes := jarls.BoardHexes(gs.Config.BoardRadius)
	sort.Slice(hexes, func(i, j int) bool {
		if hexes[i].Q != hexes[j].Q {
			return hexes[i].Q < hexes[j].Q
		}
		return hexes[i].R < hexes[j].R
	})
	index := make(map[jarls.Hex]int, len(hexes))
	for i, h := range hexes {
		index[h] = i
	}

	data := make([]float32, len(hexes)*numPlanes)
	set := func(h jarls.Hex, plane int) {
		if i, ok := index[h]; ok {
			data[i*numPlanes+plane] = 1
		}
	}
	for _, p := range gs.Pieces {
		switch {
		case p.Type == jarls.Shield:
			set(p.Position, planeShield)
		case p.PlayerID == playerID && p.Type == jarls.Jarl:
			set(p.Position, planeOwnJarl)
		case p.PlayerID == playerID:
			set(p.Position, planeOwnWarrior)
		case p.Type == jarls.Jarl:
			set(p.Position, planeEnemyJarl)
		default:
			set(p.Position, planeEnemyWarrior)
		}
	}
	for _, h := range gs.Holes {
		set(h, planeHole)
	}
	return data
}
