// Package ai picks the enemy's move with a depth-limited alpha-beta search.
package ai

import (
	"math"
	"math/rand"
	"sort"

	"github.com/rs/zerolog"

	"github.com/justinabrahms/gambitrogue/internal/board"
	"github.com/justinabrahms/gambitrogue/internal/boss"
	"github.com/justinabrahms/gambitrogue/internal/movegen"
)

// DefaultDepth is the search depth in plies.
const DefaultDepth = 2

type Move struct {
	From board.Position `json:"from"`
	To   board.Position `json:"to"`
}

// candidate is a move annotated for ordering and simulation.
type candidate struct {
	Move
	effective board.PieceType
	base      board.PieceType
	captured  int
	recapture bool
}

// Searcher chooses moves for BLACK. It is not safe for concurrent use; the
// rng it owns is shared with nothing else.
type Searcher struct {
	depth int
	rng   *rand.Rand
	log   zerolog.Logger
	nodes int
}

func NewSearcher(depth int, rng *rand.Rand, logger zerolog.Logger) *Searcher {
	if depth < 1 {
		depth = DefaultDepth
	}
	return &Searcher{depth: depth, rng: rng, log: logger}
}

func (s *Searcher) Depth() int { return s.depth }

// ChooseMove returns the best BLACK move, or false when BLACK has none.
// lastPlayerMove is the square the player's last move landed on; captures
// there are tried first among equals. lastMoved is the type the player moved,
// which Fools borrow.
func (s *Searcher) ChooseMove(b *board.Board, id boss.ID, lastPlayerMove board.Target, lastMoved board.PieceType) (Move, bool) {
	s.nodes = 0
	ctx := movegen.Context{LastMovedEnemyType: lastMoved, Boss: id}
	moves := s.orderedMoves(b, board.Black, ctx, lastPlayerMove)
	if len(moves) == 0 {
		s.log.Debug().Msg("Enemy has no legal moves")
		return Move{}, false
	}

	best := moves[0]
	bestScore := math.Inf(-1)
	alpha, beta := math.Inf(-1), math.Inf(1)
	for _, m := range moves {
		score := s.minimax(simulate(b, m), s.depth-1, alpha, beta, false, m.base, id)
		if score > bestScore {
			best, bestScore = m, score
		}
		alpha = math.Max(alpha, score)
	}

	s.log.Debug().
		Str("from", best.From.String()).
		Str("to", best.To.String()).
		Float64("score", bestScore).
		Int("nodes", s.nodes).
		Int("candidates", len(moves)).
		Msg("Enemy move chosen")
	return best.Move, true
}

func (s *Searcher) minimax(b *board.Board, depth int, alpha, beta float64, maximizing bool, lastMoved board.PieceType, id boss.ID) float64 {
	s.nodes++
	if score, over := terminalScore(b, depth); over {
		return score
	}
	if depth == 0 {
		return Evaluate(b, id)
	}

	side := board.White
	if maximizing {
		side = board.Black
	}
	moves := s.orderedMoves(b, side, movegen.Context{LastMovedEnemyType: lastMoved, Boss: id}, board.NoTarget())
	if len(moves) == 0 {
		return Evaluate(b, id)
	}

	if maximizing {
		best := math.Inf(-1)
		for _, m := range moves {
			best = math.Max(best, s.minimax(simulate(b, m), depth-1, alpha, beta, false, m.base, id))
			alpha = math.Max(alpha, best)
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := math.Inf(1)
	for _, m := range moves {
		best = math.Min(best, s.minimax(simulate(b, m), depth-1, alpha, beta, true, m.base, id))
		beta = math.Min(beta, best)
		if beta <= alpha {
			break
		}
	}
	return best
}

// orderedMoves collects every move of side, shuffles them so equal moves are
// picked at random, then sorts captures of valuable pieces first.
func (s *Searcher) orderedMoves(b *board.Board, side board.Side, ctx movegen.Context, hint board.Target) []candidate {
	var out []candidate
	for _, l := range b.Pieces(side) {
		eff := movegen.EffectiveType(l.Piece, ctx.LastMovedEnemyType)
		for _, to := range movegen.Generate(b, l.Piece, l.Pos, ctx) {
			c := candidate{
				Move:      Move{From: l.Pos, To: to},
				effective: eff,
				base:      l.Piece.Type,
			}
			if victim := b.At(to); victim != nil && victim.Side != side {
				c.captured = victim.Type.Value()
				if victim.Type == board.King {
					c.captured = WinScore
				}
				c.recapture = hint.Is(to)
			}
			out = append(out, c)
		}
	}

	s.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].captured != out[j].captured {
			return out[i].captured > out[j].captured
		}
		return out[i].recapture && !out[j].recapture
	})
	return out
}

// simulate plays a move on a copy with captures, relocation and wall breaks
// only. Tile triggers and abilities are left to the real executor.
func simulate(b *board.Board, m candidate) *board.Board {
	nb := b.Clone()
	pc := nb.Remove(m.From)
	pc.HasMoved = true
	if nb.Tile(m.To) == board.TileWall && movegen.CanBreakWalls(m.effective) {
		nb.SetTile(m.To, board.TileNone)
	}
	nb.Remove(m.To)
	nb.Put(m.To, pc)
	return nb
}
