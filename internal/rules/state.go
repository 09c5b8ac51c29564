// Package rules executes moves and evaluates check, win and loss.
package rules

import (
	"fmt"

	"github.com/justinabrahms/gambitrogue/internal/board"
	"github.com/justinabrahms/gambitrogue/internal/boss"
	"github.com/justinabrahms/gambitrogue/internal/movegen"
)

// Card is an opaque card identifier owned by the deck layer.
type Card string

// CurseCard is injected into the deck by curse abilities.
const CurseCard Card = "curse"

// Resources is the card and economy state a move may consult.
type Resources struct {
	Deck  []Card
	Hand  []Card
	Midas bool
}

type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeLoss
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "active"
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	default:
		return fmt.Sprintf("outcome(%d)", o)
	}
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Outcome) UnmarshalText(text []byte) error {
	for _, v := range []Outcome{OutcomeNone, OutcomeWin, OutcomeLoss} {
		if v.String() == string(text) {
			*o = v
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}

// TrailLifetime is the number of moves a Dragon trail survives. It is placed
// on the Dragon's move and reverts on the Dragon side's next move.
const TrailLifetime = 2

// TempTile is a hazard that reverts to Original after Remaining moves.
type TempTile struct {
	Pos              board.Position   `json:"pos"`
	Effect           board.TileEffect `json:"effect"`
	Original         board.TileEffect `json:"original"`
	OriginalTeleport int              `json:"originalTeleport,omitempty"`
	Remaining        int              `json:"remaining"`
}

// TurnState is everything outside the board a move depends on.
type TurnState struct {
	Turn      board.Side         `json:"turn"`
	TurnCount int                `json:"turnCount"`
	EnPassant board.Target       `json:"enPassant"`
	LastMoved [2]board.PieceType `json:"lastMoved"`
	Boss      boss.ID            `json:"boss"`
	TempTiles []TempTile         `json:"tempTiles,omitempty"`
	BossTiles []board.Position   `json:"bossTiles,omitempty"`
	Terminal  bool               `json:"terminal"`
	Outcome   Outcome            `json:"outcome"`
}

// NewTurnState is the state at the start of a level: White to move, turn 1.
func NewTurnState(id boss.ID) TurnState {
	return TurnState{
		Turn:      board.White,
		TurnCount: 1,
		LastMoved: [2]board.PieceType{board.NoPiece, board.NoPiece},
		Boss:      id,
	}
}

func (s TurnState) Clone() TurnState {
	out := s
	out.TempTiles = append([]TempTile(nil), s.TempTiles...)
	out.BossTiles = append([]board.Position(nil), s.BossTiles...)
	return out
}

// MoveContext is the generator context for side's pieces.
func (s TurnState) MoveContext(side board.Side) movegen.Context {
	return movegen.Context{
		EnPassant:          s.EnPassant,
		LastMovedEnemyType: s.LastMoved[side.Opposite().Index()],
		Boss:               s.Boss,
	}
}
