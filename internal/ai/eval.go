package ai

import (
	"github.com/justinabrahms/gambitrogue/internal/board"
	"github.com/justinabrahms/gambitrogue/internal/boss"
	"github.com/justinabrahms/gambitrogue/internal/movegen"
)

const (
	// WinScore is the magnitude of a decided position.
	WinScore = 1_000_000
	// LavaPenalty is charged for each non-immune piece standing on lava.
	LavaPenalty = 500
	// CenterWeight scales the per-piece centralisation term.
	CenterWeight = 1.0
)

// Evaluate scores a position from BLACK's point of view.
func Evaluate(b *board.Board, id boss.ID) float64 {
	prof := id.Profile()
	size := b.Size()
	center := float64(size-1) / 2

	var score float64
	b.Each(func(p board.Position, pc *board.Piece) {
		material := float64(pc.Type.Value())
		positional := CenterWeight * (float64(size) - (absf(float64(p.Row)-center) + absf(float64(p.Col)-center)))

		var hazard float64
		if b.Tile(p) == board.TileLava && !pc.Immortal() && !movegen.IgnoresTerrain(pc.Type) {
			hazard = LavaPenalty
		}

		if pc.Side == board.Black {
			score += material*prof.Defense + positional - hazard
		} else {
			score -= material*prof.Aggression + positional - hazard
		}
	})
	return score
}

// terminalScore returns a decided score when a king is missing. depth is the
// remaining search depth so faster wins score higher.
func terminalScore(b *board.Board, depth int) (float64, bool) {
	if _, ok := b.FindKing(board.Black); !ok {
		return -WinScore - float64(depth), true
	}
	if _, ok := b.FindKing(board.White); !ok {
		return WinScore + float64(depth), true
	}
	return 0, false
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
