// Package movegen produces pseudo-legal destinations for a single piece.
package movegen

import (
	"fmt"
	"slices"

	"github.com/justinabrahms/gambitrogue/internal/board"
	"github.com/justinabrahms/gambitrogue/internal/boss"
)

// Family is a set of movement rules. Piece types combine families.
type Family uint16

const (
	PawnStep Family = 1 << iota
	RookSlide
	BishopSlide
	KnightJump
	KingStep
	ElephantStep
	ShipSlide
	ZebraLeap
	ChampionLeap
)

var (
	rookDirs   = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	bishopDirs = [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	kingSteps  = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}

	knightJumps = [][2]int{
		{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1},
	}
	zebraLeaps = [][2]int{
		{-3, -2}, {-3, 2}, {-2, -3}, {-2, 3}, {2, -3}, {2, 3}, {3, -2}, {3, 2},
	}
	championLeaps = [][2]int{
		{-2, 0}, {2, 0}, {0, -2}, {0, 2}, {-2, -2}, {-2, 2}, {2, -2}, {2, 2},
	}
)

// Families returns the movement families of a piece type.
func Families(t board.PieceType) Family {
	switch t {
	case board.Pawn:
		return PawnStep
	case board.Knight:
		return KnightJump
	case board.Bishop:
		return BishopSlide
	case board.Rook:
		return RookSlide
	case board.Queen:
		return RookSlide | BishopSlide
	case board.King, board.Mann:
		return KingStep
	case board.Elephant:
		return ElephantStep
	case board.Dragon:
		return KnightJump
	case board.Chancellor:
		return RookSlide | KnightJump
	case board.Archbishop:
		return BishopSlide | KnightJump
	case board.Amazon:
		return RookSlide | BishopSlide | KnightJump
	case board.Centaur:
		return KingStep | KnightJump
	case board.Zebra:
		return PawnStep | ZebraLeap
	case board.Champion:
		return PawnStep | ChampionLeap
	case board.Fool:
		return KingStep
	case board.Ship:
		return ShipSlide
	case board.NoPiece:
		return 0
	default:
		return 0
	}
}

// CanBreakWalls reports whether a piece type may enter and clear a wall.
func CanBreakWalls(t board.PieceType) bool {
	return t == board.Elephant || t == board.Ship
}

// IgnoresTerrain reports whether a piece type disregards hole, lava and wall
// legality and tile triggers.
func IgnoresTerrain(t board.PieceType) bool {
	return t == board.Dragon
}

// EffectiveType is the type a piece moves as this turn.
func EffectiveType(pc *board.Piece, lastEnemy board.PieceType) board.PieceType {
	if pc.TempOverride != board.NoPiece {
		return pc.TempOverride
	}
	if pc.Type == board.Fool {
		if lastEnemy == board.NoPiece || lastEnemy == board.Fool {
			return board.Mann
		}
		return lastEnemy
	}
	return pc.Type
}

// Context carries the turn state movement depends on.
type Context struct {
	EnPassant          board.Target
	LastMovedEnemyType board.PieceType
	Boss               boss.ID
}

// Restricted reports whether the active boss disables a WHITE piece moving as
// t.
func Restricted(id boss.ID, t board.PieceType) bool {
	fam := Families(t)
	switch id.Profile().Restriction {
	case boss.RestrictKnight:
		return fam&KnightJump != 0
	case boss.RestrictRook:
		return fam&(RookSlide|ShipSlide) != 0
	case boss.RestrictBishop:
		return fam&BishopSlide != 0
	case boss.RestrictNone:
		return false
	default:
		return false
	}
}

// Generate returns the squares the piece at from may move to. It never
// mutates b and panics on a nil piece.
func Generate(b *board.Board, pc *board.Piece, from board.Position, ctx Context) []board.Position {
	if pc == nil {
		panic(fmt.Sprintf("movegen: nil piece at %s", from))
	}
	if pc.Frozen() {
		return nil
	}
	eff := EffectiveType(pc, ctx.LastMovedEnemyType)
	if pc.Side == board.White && Restricted(ctx.Boss, eff) {
		return nil
	}

	g := generator{
		b:       b,
		pc:      pc,
		from:    from,
		breaks:  CanBreakWalls(eff),
		ignores: IgnoresTerrain(eff),
	}
	fam := Families(eff)
	if fam&PawnStep != 0 {
		g.pawn(ctx.EnPassant)
	}
	if fam&RookSlide != 0 {
		g.slide(rookDirs, true)
	}
	if fam&BishopSlide != 0 {
		g.slide(bishopDirs, true)
	}
	if fam&ShipSlide != 0 {
		g.slide(rookDirs, false)
	}
	if fam&KnightJump != 0 {
		g.leap(knightJumps)
	}
	if fam&KingStep != 0 {
		g.leap(kingSteps)
	}
	if fam&ZebraLeap != 0 {
		g.leap(zebraLeaps)
	}
	if fam&ChampionLeap != 0 {
		g.leap(championLeaps)
	}
	if fam&ElephantStep != 0 {
		g.leap([][2]int{{board.ForwardDir(pc.Side), 0}})
	}
	return g.out
}

type generator struct {
	b       *board.Board
	pc      *board.Piece
	from    board.Position
	breaks  bool
	ignores bool
	out     []board.Position
}

func (g *generator) add(p board.Position) {
	if !slices.Contains(g.out, p) {
		g.out = append(g.out, p)
	}
}

// landable reports whether the tile alone permits finishing a move there.
func (g *generator) landable(c *board.Cell) bool {
	switch c.Tile {
	case board.TileWall:
		return g.breaks || g.ignores
	case board.TileHole:
		return g.ignores
	case board.TileNone, board.TileFrozen, board.TileLava, board.TilePromotion, board.TileTeleport:
		return true
	default:
		return true
	}
}

func (g *generator) capturable(target *board.Piece) bool {
	return target.Side != g.pc.Side && !target.Immortal()
}

func (g *generator) slide(dirs [][2]int, capture bool) {
	for _, d := range dirs {
		to := g.from.Add(d[0], d[1])
		for g.b.InBounds(to) {
			c := g.b.Cell(to)
			if c.Piece != nil {
				if capture && g.capturable(c.Piece) && g.landable(c) {
					g.add(to)
				}
				break
			}
			if c.Tile == board.TileWall && !g.ignores {
				if g.breaks {
					g.add(to)
				}
				break
			}
			if g.landable(c) {
				g.add(to)
			}
			to = to.Add(d[0], d[1])
		}
	}
}

func (g *generator) leap(offsets [][2]int) {
	for _, d := range offsets {
		to := g.from.Add(d[0], d[1])
		c := g.b.Cell(to)
		if c == nil || !g.landable(c) {
			continue
		}
		if c.Piece == nil || g.capturable(c.Piece) {
			g.add(to)
		}
	}
}

func (g *generator) pawn(ep board.Target) {
	dir := board.ForwardDir(g.pc.Side)

	one := g.from.Add(dir, 0)
	if c := g.b.Cell(one); c != nil && c.Piece == nil && g.landable(c) {
		g.add(one)
		if !g.pc.HasMoved && g.from.Row == g.b.StartRank(g.pc.Side) {
			two := one.Add(dir, 0)
			if c2 := g.b.Cell(two); c2 != nil && c2.Piece == nil && g.landable(c2) {
				g.add(two)
			}
		}
	}

	for _, dc := range []int{-1, 1} {
		to := g.from.Add(dir, dc)
		c := g.b.Cell(to)
		if c == nil || !g.landable(c) {
			continue
		}
		if c.Piece != nil {
			if g.capturable(c.Piece) {
				g.add(to)
			}
			continue
		}
		if !ep.Is(to) {
			continue
		}
		victim := g.b.At(board.Position{Row: g.from.Row, Col: to.Col})
		if victim != nil && g.capturable(victim) {
			g.add(to)
		}
	}
}
