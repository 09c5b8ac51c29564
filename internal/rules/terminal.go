package rules

import (
	"github.com/justinabrahms/gambitrogue/internal/board"
	"github.com/justinabrahms/gambitrogue/internal/movegen"
)

// IsInCheck reports whether any enemy piece can reach side's king. A side
// without a king is never in check.
func IsInCheck(b *board.Board, side board.Side) bool {
	king, ok := b.FindKing(side)
	if !ok {
		return false
	}
	ctx := movegen.Context{LastMovedEnemyType: board.NoPiece}
	for _, l := range b.Pieces(side.Opposite()) {
		for _, to := range movegen.Generate(b, l.Piece, l.Pos, ctx) {
			if to == king {
				return true
			}
		}
	}
	return false
}

// CheckWin reports a player victory: the player's king stands and the enemy
// has lost its king or every other piece.
func CheckWin(b *board.Board) bool {
	if _, ok := b.FindKing(board.White); !ok {
		return false
	}
	if _, ok := b.FindKing(board.Black); !ok {
		return true
	}
	return b.CountNonKing(board.Black) == 0
}

// CheckLoss reports a player defeat: the king is gone, or the player is out
// of cards and has only the king left. A position that is a win is never a
// loss.
func CheckLoss(b *board.Board, deck, hand []Card) bool {
	if _, ok := b.FindKing(board.White); !ok {
		return true
	}
	if CheckWin(b) {
		return false
	}
	return len(deck) == 0 && len(hand) == 0 && b.CountNonKing(board.White) == 0
}

func Evaluate(b *board.Board, deck, hand []Card) Outcome {
	switch {
	case CheckWin(b):
		return OutcomeWin
	case CheckLoss(b, deck, hand):
		return OutcomeLoss
	default:
		return OutcomeNone
	}
}
