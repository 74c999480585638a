// Package games holds the typed per-game state and the rules of the
// mini-games: tic-tac-toe with an AI opponent and the truth-or-dare turn machine.
package games

import (
	"bytes"
	"encoding/json"

	"github.com/go-playground/validator/v10"

	"connectibles/internal/apperr"
)

// Game types.
const (
	TicTacToe         = "tic_tac_toe"
	RockPaperScissors = "rock_paper_scissors"
	Memory            = "memory"
)

// State is one variant of the per-game state union.
type State interface {
	GameType() string
}

type TicTacToeState struct {
	Board Board  `json:"board" validate:"dive,omitempty,oneof=X O"`
	Turn  string `json:"turn" validate:"oneof=X O"`
}

func (TicTacToeState) GameType() string { return TicTacToe }

type RPSRound struct {
	Player   string `json:"player" validate:"oneof=rock paper scissors"`
	Opponent string `json:"opponent" validate:"oneof=rock paper scissors"`
}

type RockPaperScissorsState struct {
	BestOf        int        `json:"bestOf" validate:"oneof=1 3 5 7"`
	Rounds        []RPSRound `json:"rounds" validate:"max=50,dive"`
	PlayerScore   int        `json:"playerScore" validate:"gte=0"`
	OpponentScore int        `json:"opponentScore" validate:"gte=0"`
}

func (RockPaperScissorsState) GameType() string { return RockPaperScissors }

type MemoryState struct {
	Cards   []string `json:"cards" validate:"required,min=2,max=64,dive,required"`
	Flipped []int    `json:"flipped" validate:"max=2,dive,gte=0"`
	Matched []int    `json:"matched" validate:"dive,gte=0"`
	Moves   int      `json:"moves" validate:"gte=0"`
}

func (MemoryState) GameType() string { return Memory }

var validate = validator.New()

// IsKnown reports whether gameType names a supported game.
func IsKnown(gameType string) bool {
	switch gameType {
	case TicTacToe, RockPaperScissors, Memory:
		return true
	}
	return false
}

// InitialState returns the starting state for a new session.
func InitialState(gameType string) (State, error) {
	switch gameType {
	case TicTacToe:
		return TicTacToeState{Turn: Human}, nil
	case RockPaperScissors:
		return RockPaperScissorsState{BestOf: 3, Rounds: []RPSRound{}}, nil
	case Memory:
		return MemoryState{Cards: defaultMemoryCards(), Flipped: []int{}, Matched: []int{}}, nil
	}
	return nil, apperr.InvalidGameType.Withf("unknown game type %q", gameType)
}

// DecodeState parses and validates raw state for gameType. Unknown fields are
// rejected.
func DecodeState(gameType string, raw []byte) (State, error) {
	var state State
	var err error
	switch gameType {
	case TicTacToe:
		var s TicTacToeState
		err = decodeStrict(raw, &s)
		state = s
	case RockPaperScissors:
		var s RockPaperScissorsState
		err = decodeStrict(raw, &s)
		state = s
	case Memory:
		var s MemoryState
		err = decodeStrict(raw, &s)
		state = s
	default:
		return nil, apperr.InvalidGameType.Withf("unknown game type %q", gameType)
	}
	if err != nil {
		return nil, apperr.InvalidState.Withf("invalid %s state: %v", gameType, err)
	}
	if err := validate.Struct(state); err != nil {
		return nil, apperr.InvalidState.Withf("invalid %s state: %v", gameType, err)
	}
	if err := checkConsistency(state); err != nil {
		return nil, err
	}
	return state, nil
}

// EncodeState serializes a state for storage.
func EncodeState(state State) ([]byte, error) {
	return json.Marshal(state)
}

func decodeStrict(raw []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func checkConsistency(state State) error {
	switch s := state.(type) {
	case MemoryState:
		for _, idx := range append(append([]int{}, s.Flipped...), s.Matched...) {
			if idx >= len(s.Cards) {
				return apperr.InvalidState.Withf("card index %d out of range", idx)
			}
		}
	case RockPaperScissorsState:
		if s.PlayerScore+s.OpponentScore > len(s.Rounds) {
			return apperr.InvalidState.Withf("scores exceed rounds played")
		}
	}
	return nil
}

func defaultMemoryCards() []string {
	faces := []string{"book", "coffee", "guitar", "laptop", "ball", "camera", "palette", "headphones"}
	cards := make([]string, 0, len(faces)*2)
	cards = append(cards, faces...)
	return append(cards, faces...)
}
