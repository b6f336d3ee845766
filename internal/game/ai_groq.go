package game

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/throneofjarls/api/pkg/jarls"
)

// Groq configuration, set at startup from GROQ_API_KEY / GROQ_MODEL.
var (
	GroqAPIKey string
	GroqModel  string
)

const (
	groqEndpoint   = "https://api.groq.com/openai/v1/chat/completions"
	groqRetries    = 2
	groqRetryDelay = 2 * time.Second
)

// newGroqOrFallback returns the Groq strategy, or random when no API key is
// configured.
func newGroqOrFallback() Strategy {
	if GroqAPIKey == "" {
		log.Warn().Msg("groq difficulty requested but GROQ_API_KEY not set; falling back to random")
		return RandomStrategy{}
	}
	model := GroqModel
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	return &GroqStrategy{
		apiKey: GroqAPIKey,
		model:  model,
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

// GroqStrategy asks a Groq-hosted chat model to pick among the valid moves.
// Every failure path degrades to a random valid move so an AI turn can never
// stall the game.
type GroqStrategy struct {
	apiKey string
	model  string
	client *http.Client
}

func (s *GroqStrategy) Name() string { return "groq" }

func (s *GroqStrategy) ChooseMove(gs *jarls.GameState, playerID string) *jarls.MoveCommand {
	moves := jarls.AllValidMoves(gs, playerID)
	if len(moves) == 0 {
		return nil
	}
	sortMoves(moves)

	idx, err := s.pickMove(gs, playerID, moves)
	if err != nil {
		log.Warn().Err(err).Str("playerId", playerID).Msg("groq move failed; falling back to random")
		return RandomStrategy{}.ChooseMove(gs, playerID)
	}
	m := moves[idx]
	return &jarls.MoveCommand{PieceID: m.PieceID, Destination: m.Destination}
}

func (s *GroqStrategy) ChooseStarvation(gs *jarls.GameState, playerID string, candidates []string) string {
	return RandomStrategy{}.ChooseStarvation(gs, playerID, candidates)
}

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqResponse struct {
	Choices []struct {
		Message groqMessage `json:"message"`
	} `json:"choices"`
}

// pickMove asks the model for the index of the best move, retrying a bounded
// number of times on rate limits and server errors.
func (s *GroqStrategy) pickMove(gs *jarls.GameState, playerID string, moves []jarls.ValidMove) (int, error) {
	prompt := buildPrompt(gs, playerID, moves)
	body, err := json.Marshal(groqRequest{
		Model: s.model,
		Messages: []groqMessage{
			{Role: "system", Content: "You are a strategist for a hex-board pushing game. Answer with a single move number and nothing else."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.2,
		MaxTokens:   16,
	})
	if err != nil {
		return 0, err
	}

	var lastErr error
	for attempt := 0; attempt <= groqRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(groqRetryDelay * time.Duration(attempt))
		}
		idx, retryable, err := s.tryOnce(body, len(moves))
		if err == nil {
			return idx, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return 0, lastErr
}

func (s *GroqStrategy) tryOnce(body []byte, numMoves int) (idx int, retryable bool, err error) {
	req, err := http.NewRequest(http.MethodPost, groqEndpoint, bytes.NewReader(body))
	if err != nil {
		return 0, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return 0, true, fmt.Errorf("groq status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, false, fmt.Errorf("groq status %d", resp.StatusCode)
	}

	var gr groqResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return 0, false, fmt.Errorf("decode groq response: %w", err)
	}
	if len(gr.Choices) == 0 {
		return 0, false, fmt.Errorf("empty groq response")
	}
	idx, err = parseMoveIndex(gr.Choices[0].Message.Content, numMoves)
	if err != nil {
		return 0, false, err
	}
	return idx, false, nil
}

// parseMoveIndex extracts the first integer in the reply and checks it
// against the 1-based move list.
func parseMoveIndex(content string, numMoves int) (int, error) {
	fields := strings.FieldsFunc(content, func(r rune) bool {
		return r < '0' || r > '9'
	})
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			continue
		}
		if n >= 1 && n <= numMoves {
			return n - 1, nil
		}
	}
	return 0, fmt.Errorf("no usable move number in %q", content)
}

func buildPrompt(gs *jarls.GameState, playerID string, moves []jarls.ValidMove) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You play as %s. Board radius %d; the throne is at (0,0); a jarl reaching it wins.\n", playerID, gs.Config.BoardRadius)
	b.WriteString("Pieces (type owner q r):\n")
	for _, p := range gs.Pieces {
		owner := p.PlayerID
		if owner == "" {
			owner = "-"
		}
		fmt.Fprintf(&b, "  %s %s %d %d\n", p.Type, owner, p.Position.Q, p.Position.R)
	}
	if n := len(gs.MoveHistory); n > 0 {
		start := n - 6
		if start < 0 {
			start = 0
		}
		b.WriteString("Recent moves:\n")
		for _, r := range gs.MoveHistory[start:] {
			fmt.Fprintf(&b, "  turn %d: %s moved %s (%d,%d) to (%d,%d)\n",
				r.TurnNumber, r.PlayerID, r.PieceID, r.From.Q, r.From.R, r.To.Q, r.To.R)
		}
	}
	b.WriteString("Valid moves:\n")
	for i, m := range moves {
		kind := "move"
		if m.IsAttack {
			kind = "attack"
		}
		fmt.Fprintf(&b, "  %d. %s %s to (%d,%d)\n", i+1, kind, m.PieceID, m.Destination.Q, m.Destination.R)
	}
	b.WriteString("Reply with the number of the best move.")
	return b.String()
}
