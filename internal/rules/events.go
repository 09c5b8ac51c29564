package rules

import (
	"github.com/justinabrahms/gambitrogue/internal/board"
	"github.com/justinabrahms/gambitrogue/internal/boss"
)

type DeathCause uint8

const (
	CauseLava DeathCause = iota
	CauseTrap
	CauseExpired
)

func (c DeathCause) String() string {
	switch c {
	case CauseLava:
		return "lava"
	case CauseTrap:
		return "trap"
	case CauseExpired:
		return "expired"
	default:
		return "unknown"
	}
}

func (c DeathCause) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Capture is an enemy piece removed by the mover.
type Capture struct {
	Type      board.PieceType `json:"type"`
	Side      board.Side      `json:"side"`
	Pos       board.Position  `json:"pos"`
	EnPassant bool            `json:"enPassant,omitempty"`
	Gold      int             `json:"gold,omitempty"`
}

// Death is a piece lost to something other than an enemy capture.
type Death struct {
	Type  board.PieceType `json:"type"`
	Side  board.Side      `json:"side"`
	Pos   board.Position  `json:"pos"`
	Cause DeathCause      `json:"cause"`
}

// Events describes everything a single move did, for presentation and for
// the orchestration layer's bookkeeping.
type Events struct {
	Mover         board.PieceType  `json:"mover"`
	Side          board.Side       `json:"side"`
	From          board.Position   `json:"from"`
	To            board.Position   `json:"to"`
	Captures      []Capture        `json:"captures,omitempty"`
	Deaths        []Death          `json:"deaths,omitempty"`
	Gold          int              `json:"gold,omitempty"`
	WallsBroken   []board.Position `json:"wallsBroken,omitempty"`
	Swarm         []board.Position `json:"swarm,omitempty"`
	TrailPlaced   bool             `json:"trailPlaced,omitempty"`
	Teleported    bool             `json:"teleported,omitempty"`
	Frozen        bool             `json:"frozen,omitempty"`
	Promoted      board.PieceType  `json:"promoted"`
	Mimicked      bool             `json:"mimicked,omitempty"`
	RevertedTiles []board.Position `json:"revertedTiles,omitempty"`
	WhiteInCheck  bool             `json:"whiteInCheck"`
	BlackInCheck  bool             `json:"blackInCheck"`
	Outcome       Outcome          `json:"outcome"`
}

func (e Events) Captured() bool { return len(e.Captures) > 0 }

// Kills converts captures into the form reactive boss abilities consume.
func (e Events) Kills() []boss.Kill {
	if len(e.Captures) == 0 {
		return nil
	}
	out := make([]boss.Kill, 0, len(e.Captures))
	for _, c := range e.Captures {
		out = append(out, boss.Kill{Type: c.Type, Side: c.Side, Pos: c.Pos})
	}
	return out
}

// Result is the outcome of ApplyMove. Board and State are fresh values.
type Result struct {
	Board  *board.Board
	State  TurnState
	Events Events
}
