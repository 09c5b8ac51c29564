package board

// BossImmortality is the immortal counter granted by boss abilities. Values at
// or above it never decay and are only cleared by the granting boss.
const BossImmortality = 100

// Piece is a single unit on the board. A piece is owned by exactly one cell.
type Piece struct {
	ID            int       `json:"id"`
	Type          PieceType `json:"type"`
	Side          Side      `json:"side"`
	HasMoved      bool      `json:"hasMoved"`
	TempOverride  PieceType `json:"tempOverride"`
	FrozenTurns   int       `json:"frozenTurns"`
	ImmortalTurns int       `json:"immortalTurns"`
	AscendedTurns int       `json:"ascendedTurns"`
	Variant       Variant   `json:"variant"`
	Trapped       bool      `json:"trapped"`
	Mimic         bool      `json:"mimic"`
}

func (p *Piece) Frozen() bool { return p.FrozenTurns > 0 }

func (p *Piece) Immortal() bool { return p.ImmortalTurns > 0 }

// BossImmortal reports whether the immortality was granted by a boss.
func (p *Piece) BossImmortal() bool { return p.ImmortalTurns >= BossImmortality }

// Enemy reports whether other belongs to the opposing side.
func (p *Piece) Enemy(other *Piece) bool {
	return other != nil && other.Side != p.Side
}
