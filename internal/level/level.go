// Package level builds starting boards: classic layouts, FEN-authored
// positions and generated terrain.
package level

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/notnil/chess"

	"github.com/justinabrahms/gambitrogue/internal/board"
	"github.com/justinabrahms/gambitrogue/internal/boss"
)

var (
	ErrKingCount    = errors.New("each side must have exactly one king")
	ErrTeleportPair = errors.New("teleport tiles must come in pairs")
	ErrBlockedPiece = errors.New("piece starts on an impassable tile")
)

// Config describes a level to generate.
type Config struct {
	Size    int
	Boss    boss.ID
	Terrain bool
}

// Standard returns the classic two-army layout scaled to size. Rooks take the
// corners, the king sits at size/2 with the queen beside it, and knights and
// bishops fill inwards from the rooks. Boards of 10 or more files add a
// Chancellor and an Archbishop next to the rooks.
func Standard(size int) *board.Board {
	b := board.New(size)
	rank := backRank(size)
	for col, pt := range rank {
		b.Place(board.Position{Row: 0, Col: col}, board.Black, pt)
		b.Place(board.Position{Row: size - 1, Col: col}, board.White, pt)
		b.Place(board.Position{Row: 1, Col: col}, board.Black, board.Pawn)
		b.Place(board.Position{Row: size - 2, Col: col}, board.White, board.Pawn)
	}
	return b
}

func backRank(size int) []board.PieceType {
	rank := make([]board.PieceType, size)
	for i := range rank {
		rank[i] = board.NoPiece
	}
	rank[0], rank[size-1] = board.Rook, board.Rook
	rank[size/2] = board.King
	rank[size/2-1] = board.Queen
	if size >= 10 {
		rank[1], rank[size-2] = board.Chancellor, board.Archbishop
	}

	fill := []board.PieceType{board.Knight, board.Bishop}
	next := 0
	for col := 0; col < size/2-1; col++ {
		if rank[col] == board.NoPiece {
			rank[col] = fill[next%2]
			next++
		}
	}
	next = 0
	for col := size - 1; col > size/2; col-- {
		if rank[col] == board.NoPiece {
			rank[col] = fill[next%2]
			next++
		}
	}
	return rank
}

// FromFEN loads an 8x8 position from a FEN string. Only piece placement is
// used; pawns off their start rank are marked as moved.
func FromFEN(fen string) (*board.Board, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("invalid FEN: %w", err)
	}
	game := chess.NewGame(opt)

	b := board.New(8)
	for sq, p := range game.Position().Board().SquareMap() {
		pt, ok := pieceFromChess(p.Type())
		if !ok {
			continue
		}
		side := board.White
		if p.Color() == chess.Black {
			side = board.Black
		}
		at := board.Position{Row: 7 - int(sq.Rank()), Col: int(sq.File())}
		pc := b.Place(at, side, pt)
		if pt == board.Pawn && at.Row != b.StartRank(side) {
			pc.HasMoved = true
		}
	}

	if err := Validate(b); err != nil {
		return nil, err
	}
	return b, nil
}

func pieceFromChess(t chess.PieceType) (board.PieceType, bool) {
	switch t {
	case chess.King:
		return board.King, true
	case chess.Queen:
		return board.Queen, true
	case chess.Rook:
		return board.Rook, true
	case chess.Bishop:
		return board.Bishop, true
	case chess.Knight:
		return board.Knight, true
	case chess.Pawn:
		return board.Pawn, true
	default:
		return board.NoPiece, false
	}
}

// Generate builds a level for cfg. Terrain is drawn from rng in this order:
// walls, holes, the teleport pair, then the promotion tile, each drawing one
// square index at a time from the empty middle rows.
func Generate(cfg Config, rng *rand.Rand) (*board.Board, error) {
	if cfg.Size < board.MinSize || cfg.Size > board.MaxSize {
		return nil, fmt.Errorf("board size %d outside [%d, %d]", cfg.Size, board.MinSize, board.MaxSize)
	}
	b := Standard(cfg.Size)
	addEscort(b, cfg.Boss)

	if cfg.Terrain {
		free := middleSquares(b)
		take := func() (board.Position, bool) {
			if len(free) == 0 {
				return board.Position{}, false
			}
			idx := rng.Intn(len(free))
			p := free[idx]
			free = append(free[:idx], free[idx+1:]...)
			return p, true
		}

		for i := 0; i < cfg.Size/3; i++ {
			if p, ok := take(); ok {
				b.SetTile(p, board.TileWall)
			}
		}
		for i := 0; i < cfg.Size/4; i++ {
			if p, ok := take(); ok {
				b.SetTile(p, board.TileHole)
			}
		}
		a, okA := take()
		c, okC := take()
		if okA && okC {
			b.SetTeleport(a, 1)
			b.SetTeleport(c, 1)
		}
		if p, ok := take(); ok {
			b.SetTile(p, board.TilePromotion)
		}
	}

	if err := Validate(b); err != nil {
		return nil, err
	}
	return b, nil
}

// addEscort swaps the enemy queen for the boss's escort piece. The Stone
// Golem also fields an elephant phalanx in front of its king.
func addEscort(b *board.Board, id boss.ID) {
	prof := id.Profile()
	size := b.Size()
	if prof.Escort != board.NoPiece {
		pc := b.Place(board.Position{Row: 0, Col: size/2 - 1}, board.Black, prof.Escort)
		pc.Variant = prof.EscortVariant
	}
	if id == boss.StoneGolem {
		for col := size/2 - 1; col <= size/2+1; col++ {
			b.Place(board.Position{Row: 1, Col: col}, board.Black, board.Elephant)
		}
	}
}

func middleSquares(b *board.Board) []board.Position {
	var out []board.Position
	for _, p := range b.Empty(board.TileNone) {
		if p.Row >= 2 && p.Row <= b.Size()-3 {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the structural invariants of a starting board.
func Validate(b *board.Board) error {
	for _, side := range []board.Side{board.White, board.Black} {
		if n := b.CountKings(side); n != 1 {
			return fmt.Errorf("%w: %s has %d", ErrKingCount, side, n)
		}
	}

	pairs := map[int]int{}
	var problem error
	for r := 0; r < b.Size(); r++ {
		for c := 0; c < b.Size(); c++ {
			p := board.Position{Row: r, Col: c}
			cell := b.Cell(p)
			if cell.Tile == board.TileTeleport {
				pairs[cell.TeleportID]++
			}
			if cell.Piece != nil && (cell.Tile == board.TileWall || cell.Tile == board.TileHole) && problem == nil {
				problem = fmt.Errorf("%w: %s %s at %s", ErrBlockedPiece, cell.Piece.Side, cell.Piece.Type, p)
			}
		}
	}
	if problem != nil {
		return problem
	}
	for id, n := range pairs {
		if n != 2 {
			return fmt.Errorf("%w: id %d has %d tiles", ErrTeleportPair, id, n)
		}
	}
	return nil
}
