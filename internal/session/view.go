package session

import (
	"slices"

	"github.com/justinabrahms/gambitrogue/internal/board"
	"github.com/justinabrahms/gambitrogue/internal/boss"
	"github.com/justinabrahms/gambitrogue/internal/rules"
)

// CellView is a non-empty square as sent to clients.
type CellView struct {
	Pos        board.Position   `json:"pos"`
	Tile       board.TileEffect `json:"tile"`
	TeleportID int              `json:"teleportId,omitempty"`
	Piece      *board.Piece     `json:"piece,omitempty"`
}

// View is the client-facing state of a level.
type View struct {
	ID           string              `json:"id"`
	Size         int                 `json:"size"`
	Cells        []CellView          `json:"cells"`
	Turn         board.Side          `json:"turn"`
	TurnCount    int                 `json:"turnCount"`
	Boss         boss.ID             `json:"boss"`
	EnPassant    board.Target        `json:"enPassant"`
	Gold         int                 `json:"gold"`
	DeckSize     int                 `json:"deckSize"`
	HandSize     int                 `json:"handSize"`
	Dead         []board.PieceType   `json:"dead"`
	Material     board.MaterialCount `json:"material"`
	WhiteInCheck bool                `json:"whiteInCheck"`
	BlackInCheck bool                `json:"blackInCheck"`
	Terminal     bool                `json:"terminal"`
	Outcome      rules.Outcome       `json:"outcome"`
}

func (g *Game) View() View {
	g.mu.Lock()
	defer g.mu.Unlock()

	v := View{
		ID:           g.ID,
		Size:         g.board.Size(),
		Turn:         g.state.Turn,
		TurnCount:    g.state.TurnCount,
		Boss:         g.state.Boss,
		EnPassant:    g.state.EnPassant,
		Gold:         g.gold,
		DeckSize:     len(g.deck),
		HandSize:     len(g.hand),
		Dead:         slices.Clone(g.dead),
		Material:     board.Material(g.board),
		WhiteInCheck: rules.IsInCheck(g.board, board.White),
		BlackInCheck: rules.IsInCheck(g.board, board.Black),
		Terminal:     g.state.Terminal,
		Outcome:      g.state.Outcome,
	}
	for r := 0; r < g.board.Size(); r++ {
		for c := 0; c < g.board.Size(); c++ {
			p := board.Position{Row: r, Col: c}
			cell := g.board.Cell(p)
			if cell.Piece == nil && cell.Tile == board.TileNone {
				continue
			}
			cv := CellView{Pos: p, Tile: cell.Tile, TeleportID: cell.TeleportID}
			if cell.Piece != nil {
				pc := *cell.Piece
				cv.Piece = &pc
			}
			v.Cells = append(v.Cells, cv)
		}
	}
	return v
}

func (g *Game) Gold() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gold
}

// Dead lists the player's fallen piece types, oldest first, for revival.
func (g *Game) Dead() []board.PieceType {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.dead)
}
