// Package board holds the grid, cells and pieces the rules engine mutates.
package board

import "fmt"

const (
	MinSize = 6
	MaxSize = 12
)

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) Add(dr, dc int) Position { return Position{Row: p.Row + dr, Col: p.Col + dc} }

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.Row, p.Col) }

// Cell is one square of the grid. TeleportID pairs TileTeleport cells.
type Cell struct {
	Piece      *Piece     `json:"piece,omitempty"`
	Tile       TileEffect `json:"tile"`
	TeleportID int        `json:"teleportId,omitempty"`
}

// Board is a square grid of cells. The zero value is not usable; use New.
type Board struct {
	size   int
	cells  []Cell
	nextID int
}

// New creates an empty board. It panics when size is outside [MinSize, MaxSize].
func New(size int) *Board {
	if size < MinSize || size > MaxSize {
		panic(fmt.Sprintf("board: size %d outside [%d, %d]", size, MinSize, MaxSize))
	}
	return &Board{
		size:   size,
		cells:  make([]Cell, size*size),
		nextID: 1,
	}
}

func (b *Board) Size() int { return b.size }

func (b *Board) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < b.size && p.Col >= 0 && p.Col < b.size
}

// Cell returns the cell at p, or nil when p is off the board.
func (b *Board) Cell(p Position) *Cell {
	if !b.InBounds(p) {
		return nil
	}
	return &b.cells[p.Row*b.size+p.Col]
}

// At returns the piece at p, or nil.
func (b *Board) At(p Position) *Piece {
	if c := b.Cell(p); c != nil {
		return c.Piece
	}
	return nil
}

func (b *Board) Tile(p Position) TileEffect {
	if c := b.Cell(p); c != nil {
		return c.Tile
	}
	return TileNone
}

func (b *Board) SetTile(p Position, t TileEffect) {
	c := b.mustCell(p)
	c.Tile = t
	if t != TileTeleport {
		c.TeleportID = 0
	}
}

// SetTeleport marks p as a teleport tile belonging to pair id.
func (b *Board) SetTeleport(p Position, id int) {
	c := b.mustCell(p)
	c.Tile = TileTeleport
	c.TeleportID = id
}

// TeleportPair returns the other teleport tile sharing p's identifier.
func (b *Board) TeleportPair(p Position) (Position, bool) {
	c := b.Cell(p)
	if c == nil || c.Tile != TileTeleport {
		return Position{}, false
	}
	for idx := range b.cells {
		other := &b.cells[idx]
		if other == c || other.Tile != TileTeleport || other.TeleportID != c.TeleportID {
			continue
		}
		return b.position(idx), true
	}
	return Position{}, false
}

// Place creates a new piece at p with a fresh ID, replacing any occupant.
func (b *Board) Place(p Position, side Side, pt PieceType) *Piece {
	pc := &Piece{ID: b.nextID, Type: pt, Side: side, TempOverride: NoPiece}
	b.nextID++
	b.mustCell(p).Piece = pc
	return pc
}

// Spawn places a copy of tmpl at p under a fresh ID.
func (b *Board) Spawn(p Position, tmpl Piece) *Piece {
	pc := tmpl
	pc.ID = b.nextID
	b.nextID++
	b.mustCell(p).Piece = &pc
	return &pc
}

// Put sets the occupant of p without touching its identity.
func (b *Board) Put(p Position, pc *Piece) { b.mustCell(p).Piece = pc }

// Remove clears p and returns the piece that stood there.
func (b *Board) Remove(p Position) *Piece {
	c := b.Cell(p)
	if c == nil {
		return nil
	}
	pc := c.Piece
	c.Piece = nil
	return pc
}

// Move relocates the occupant of from to to, discarding whatever stood at to.
func (b *Board) Move(from, to Position) {
	pc := b.Remove(from)
	b.mustCell(to).Piece = pc
}

// Each calls fn for every occupied cell in row-major order. fn may remove the
// piece it is handed.
func (b *Board) Each(fn func(Position, *Piece)) {
	for idx := range b.cells {
		if pc := b.cells[idx].Piece; pc != nil {
			fn(b.position(idx), pc)
		}
	}
}

// Located pairs a piece with its square.
type Located struct {
	Pos   Position
	Piece *Piece
}

func (b *Board) Pieces(side Side) []Located {
	var out []Located
	b.Each(func(p Position, pc *Piece) {
		if pc.Side == side {
			out = append(out, Located{Pos: p, Piece: pc})
		}
	})
	return out
}

func (b *Board) FindKing(side Side) (Position, bool) {
	for idx := range b.cells {
		pc := b.cells[idx].Piece
		if pc != nil && pc.Side == side && pc.Type == King {
			return b.position(idx), true
		}
	}
	return Position{}, false
}

func (b *Board) CountKings(side Side) int {
	n := 0
	b.Each(func(_ Position, pc *Piece) {
		if pc.Side == side && pc.Type == King {
			n++
		}
	})
	return n
}

func (b *Board) CountNonKing(side Side) int {
	n := 0
	b.Each(func(_ Position, pc *Piece) {
		if pc.Side == side && pc.Type != King {
			n++
		}
	})
	return n
}

// Empty lists squares with no piece whose tile is in allowed. A nil allowed
// accepts any tile.
func (b *Board) Empty(allowed ...TileEffect) []Position {
	var out []Position
	for idx := range b.cells {
		c := &b.cells[idx]
		if c.Piece != nil {
			continue
		}
		if len(allowed) > 0 && !containsTile(allowed, c.Tile) {
			continue
		}
		out = append(out, b.position(idx))
	}
	return out
}

// Clone returns a deep copy. All pieces of the copy live in one allocation so
// search can clone boards cheaply.
func (b *Board) Clone() *Board {
	nb := &Board{
		size:   b.size,
		cells:  make([]Cell, len(b.cells)),
		nextID: b.nextID,
	}
	copy(nb.cells, b.cells)

	count := 0
	for idx := range b.cells {
		if b.cells[idx].Piece != nil {
			count++
		}
	}
	slab := make([]Piece, 0, count)
	for idx := range nb.cells {
		if src := nb.cells[idx].Piece; src != nil {
			slab = append(slab, *src)
			nb.cells[idx].Piece = &slab[len(slab)-1]
		}
	}
	return nb
}

// ForwardDir is the row delta a side's pawns advance by.
func ForwardDir(side Side) int {
	if side == White {
		return -1
	}
	return 1
}

// StartRank is the row a side's pawns begin on.
func (b *Board) StartRank(side Side) int {
	if side == White {
		return b.size - 2
	}
	return 1
}

// FarRank is the promotion row for a side.
func (b *Board) FarRank(side Side) int {
	if side == White {
		return 0
	}
	return b.size - 1
}

func (b *Board) position(idx int) Position {
	return Position{Row: idx / b.size, Col: idx % b.size}
}

func (b *Board) mustCell(p Position) *Cell {
	c := b.Cell(p)
	if c == nil {
		panic(fmt.Sprintf("board: %s off a %dx%d board", p, b.size, b.size))
	}
	return c
}

func containsTile(list []TileEffect, t TileEffect) bool {
	for _, x := range list {
		if x == t {
			return true
		}
	}
	return false
}
