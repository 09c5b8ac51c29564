package board

// Value returns the material worth of a piece type in centipawns.
func (p PieceType) Value() int {
	switch p {
	case Pawn:
		return 100
	case Knight, Bishop, Mann, Fool:
		return 300
	case Rook:
		return 500
	case Queen:
		return 900
	case King, NoPiece:
		return 0
	case Elephant:
		return 200
	case Dragon, Centaur:
		return 600
	case Chancellor:
		return 800
	case Archbishop:
		return 700
	case Amazon:
		return 1200
	case Zebra:
		return 250
	case Champion:
		return 450
	case Ship:
		return 350
	default:
		return 0
	}
}

// MaterialCount represents the material on board for each side.
type MaterialCount struct {
	White      int `json:"white"`
	Black      int `json:"black"`
	Difference int `json:"difference"`
}

func Material(b *Board) MaterialCount {
	var mc MaterialCount
	b.Each(func(_ Position, pc *Piece) {
		if pc.Side == White {
			mc.White += pc.Type.Value()
		} else {
			mc.Black += pc.Type.Value()
		}
	})
	mc.Difference = mc.White - mc.Black
	return mc
}
