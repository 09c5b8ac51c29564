package rules

import (
	"fmt"

	"github.com/justinabrahms/gambitrogue/internal/board"
	"github.com/justinabrahms/gambitrogue/internal/movegen"
)

const (
	// FreezeDuration is the frozen counter a FROZEN tile applies.
	FreezeDuration = 2
	// SwarmSize is the smallest elephant chain that moves together.
	SwarmSize = 3
)

// GoldReward is the gold the player earns for capturing a piece type.
func GoldReward(t board.PieceType) int {
	if t == board.King || t == board.NoPiece {
		return 0
	}
	return max(1, t.Value()/100)
}

// tilePromotion is the upgrade a PROMOTION tile grants, or NoPiece.
func tilePromotion(t board.PieceType) board.PieceType {
	switch t {
	case board.Knight:
		return board.Amazon
	case board.Pawn, board.Rook, board.Bishop:
		return board.Queen
	default:
		return board.NoPiece
	}
}

// ApplyMove plays from->to on a copy of b and returns the new board, the
// advanced state and what happened. to must come from movegen.Generate for the
// same piece and context; the move is not re-validated.
func ApplyMove(b *board.Board, from, to board.Position, st TurnState, res Resources) Result {
	nb := b.Clone()
	ns := st.Clone()

	mover := nb.At(from)
	if mover == nil {
		panic(fmt.Sprintf("rules: no piece at %s", from))
	}
	side := mover.Side
	eff := movegen.EffectiveType(mover, ns.LastMoved[side.Opposite().Index()])
	ev := Events{
		Mover:    mover.Type,
		Side:     side,
		From:     from,
		To:       to,
		Promoted: board.NoPiece,
	}

	ev.RevertedTiles = ageTempTiles(nb, &ns)

	var swarm []swarmStep
	if mover.Type == board.Elephant {
		swarm = planSwarm(nb, from, to, side)
	}
	nb.Remove(from)

	for _, s := range swarm {
		nb.Remove(s.from)
	}
	for _, s := range swarm {
		if c := nb.Cell(s.to); c.Tile == board.TileWall {
			c.Tile = board.TileNone
			ev.WallsBroken = append(ev.WallsBroken, s.to)
		}
		s.piece.HasMoved = true
		nb.Put(s.to, s.piece)
		ev.Swarm = append(ev.Swarm, s.to)
	}

	if mover.Type == board.Dragon && mover.Variant != board.VariantNone {
		placeTrail(nb, &ns, from, mover.Variant.Trail())
		ev.TrailPlaced = true
	}

	dest := nb.Cell(to)
	if dest.Tile == board.TileWall && movegen.CanBreakWalls(eff) {
		dest.Tile = board.TileNone
		ev.WallsBroken = append(ev.WallsBroken, to)
	}

	pawnMove := movegen.Families(eff)&movegen.PawnStep != 0
	dir := board.ForwardDir(side)
	if pawnMove && dest.Piece == nil && to.Row-from.Row == dir && abs(to.Col-from.Col) == 1 && ns.EnPassant.Is(to) {
		victimPos := board.Position{Row: from.Row, Col: to.Col}
		if victim := nb.Remove(victimPos); victim != nil {
			ev.Captures = append(ev.Captures, capture(victim, victimPos, true, side, res))
		}
	}

	skipped := board.Position{Row: from.Row + dir, Col: from.Col}
	doubleStep := pawnMove && !mover.HasMoved && from.Row == nb.StartRank(side) &&
		from.Col == to.Col && to.Row-from.Row == 2*dir && nb.At(skipped) == nil
	if doubleStep {
		ns.EnPassant = board.NewTarget(skipped)
	} else {
		ns.EnPassant = board.NoTarget()
	}

	if target := dest.Piece; target != nil && target.Side != side {
		dest.Piece = nil
		ev.Captures = append(ev.Captures, capture(target, to, false, side, res))
		if target.Trapped {
			ev.Deaths = append(ev.Deaths, Death{Type: mover.Type, Side: side, Pos: from, Cause: CauseTrap})
			return finish(nb, ns, ev, res)
		}
		if mover.Mimic && target.Type != board.King {
			mover.Type = target.Type
			mover.Mimic = false
			ev.Mimicked = true
		}
	}

	mover.TempOverride = board.NoPiece
	mover.HasMoved = true
	nb.Put(to, mover)
	at := to

	ignores := movegen.IgnoresTerrain(eff)
	if !ignores && nb.Tile(at) == board.TileTeleport {
		if pair, ok := nb.TeleportPair(at); ok && nb.At(pair) == nil {
			nb.Move(at, pair)
			at = pair
			ev.Teleported = true
		}
	}
	ev.To = at

	if !ignores {
		switch nb.Tile(at) {
		case board.TileLava:
			if !mover.Immortal() {
				nb.Remove(at)
				ev.Deaths = append(ev.Deaths, Death{Type: mover.Type, Side: side, Pos: at, Cause: CauseLava})
				return finish(nb, ns, ev, res)
			}
		case board.TileFrozen:
			mover.FrozenTurns = FreezeDuration
			ev.Frozen = true
		case board.TilePromotion:
			if up := tilePromotion(mover.Type); up != board.NoPiece {
				mover.Type = up
				ev.Promoted = up
			}
		case board.TileNone, board.TileHole, board.TileWall, board.TileTeleport:
		}
	}

	if movegen.Families(mover.Type)&movegen.PawnStep != 0 && at.Row == nb.FarRank(side) {
		mover.Type = board.Queen
		ev.Promoted = board.Queen
	}

	return finish(nb, ns, ev, res)
}

// Pass ends the turn of the side to move without a move. Temporary tiles
// still age, the en-passant window closes and the side's counters decay.
func Pass(b *board.Board, st TurnState, res Resources) Result {
	nb := b.Clone()
	ns := st.Clone()
	ev := Events{
		Mover:    board.NoPiece,
		Side:     ns.Turn,
		Promoted: board.NoPiece,
	}

	ev.RevertedTiles = ageTempTiles(nb, &ns)
	ns.EnPassant = board.NoTarget()
	ev.Deaths = decay(nb, ev.Side)
	return conclude(nb, ns, ev, res)
}

// finish runs the end-of-move steps shared by every path: status decay for
// the mover's side, turn hand-off and terminal evaluation.
func finish(nb *board.Board, ns TurnState, ev Events, res Resources) Result {
	ev.Deaths = append(ev.Deaths, decay(nb, ev.Side)...)
	ns.LastMoved[ev.Side.Index()] = ev.Mover
	return conclude(nb, ns, ev, res)
}

func conclude(nb *board.Board, ns TurnState, ev Events, res Resources) Result {
	ns.Turn = ev.Side.Opposite()

	ev.WhiteInCheck = IsInCheck(nb, board.White)
	ev.BlackInCheck = IsInCheck(nb, board.Black)
	ev.Outcome = Evaluate(nb, res.Deck, res.Hand)
	if ev.Outcome != OutcomeNone {
		ns.Terminal = true
		ns.Outcome = ev.Outcome
	}
	return Result{Board: nb, State: ns, Events: ev}
}

func capture(victim *board.Piece, at board.Position, enPassant bool, by board.Side, res Resources) Capture {
	c := Capture{Type: victim.Type, Side: victim.Side, Pos: at, EnPassant: enPassant}
	if by == board.White {
		c.Gold = GoldReward(victim.Type)
		if res.Midas {
			c.Gold *= 2
		}
	}
	return c
}

// decay ticks the status counters of side's pieces after side moved.
func decay(b *board.Board, side board.Side) []Death {
	var deaths []Death
	b.Each(func(p board.Position, pc *board.Piece) {
		if pc.Side != side {
			return
		}
		if pc.FrozenTurns > 0 {
			pc.FrozenTurns--
		}
		if pc.ImmortalTurns > 0 && pc.ImmortalTurns < board.BossImmortality {
			pc.ImmortalTurns--
		}
		if pc.AscendedTurns > 0 {
			pc.AscendedTurns--
			if pc.AscendedTurns == 0 {
				b.Remove(p)
				deaths = append(deaths, Death{Type: pc.Type, Side: side, Pos: p, Cause: CauseExpired})
			}
		}
	})
	return deaths
}

// ageTempTiles counts down pending temporary tiles and reverts the expired
// ones, provided the tile still carries the effect that was placed.
func ageTempTiles(b *board.Board, st *TurnState) []board.Position {
	var reverted []board.Position
	kept := st.TempTiles[:0]
	for _, t := range st.TempTiles {
		t.Remaining--
		if t.Remaining > 0 {
			kept = append(kept, t)
			continue
		}
		if c := b.Cell(t.Pos); c != nil && c.Tile == t.Effect {
			c.Tile = t.Original
			c.TeleportID = t.OriginalTeleport
			reverted = append(reverted, t.Pos)
		}
	}
	st.TempTiles = kept
	return reverted
}

func placeTrail(b *board.Board, st *TurnState, at board.Position, effect board.TileEffect) {
	c := b.Cell(at)
	original, teleport := c.Tile, c.TeleportID
	for i, t := range st.TempTiles {
		if t.Pos == at {
			original, teleport = t.Original, t.OriginalTeleport
			st.TempTiles = append(st.TempTiles[:i], st.TempTiles[i+1:]...)
			break
		}
	}
	c.Tile = effect
	c.TeleportID = 0
	st.TempTiles = append(st.TempTiles, TempTile{
		Pos:              at,
		Effect:           effect,
		Original:         original,
		OriginalTeleport: teleport,
		Remaining:        TrailLifetime,
	})
}

type swarmStep struct {
	piece    *board.Piece
	from, to board.Position
}

// planSwarm finds the elephants chained orthogonally to the mover and returns
// the ones that can follow it by the same delta. A follower moves only if its
// destination is empty (or a wall) or is vacated by another follower or by the
// mover itself.
func planSwarm(b *board.Board, from, to board.Position, side board.Side) []swarmStep {
	chain := elephantChain(b, from, side)
	if len(chain) < SwarmSize {
		return nil
	}
	dr, dc := to.Row-from.Row, to.Col-from.Col

	inChain := make(map[board.Position]bool, len(chain))
	for _, p := range chain {
		inChain[p] = true
	}

	approved := make(map[board.Position]bool, len(chain))
	for _, p := range chain {
		if p == from {
			continue
		}
		d := p.Add(dr, dc)
		c := b.Cell(d)
		if c == nil || d == to || c.Tile == board.TileHole || c.Tile == board.TileLava {
			continue
		}
		if c.Piece != nil && !inChain[d] {
			continue
		}
		approved[p] = true
	}

	for changed := true; changed; {
		changed = false
		for p := range approved {
			d := p.Add(dr, dc)
			if inChain[d] && d != from && !approved[d] {
				delete(approved, p)
				changed = true
			}
		}
	}

	var steps []swarmStep
	for _, p := range chain {
		if approved[p] {
			steps = append(steps, swarmStep{piece: b.At(p), from: p, to: p.Add(dr, dc)})
		}
	}
	return steps
}

// elephantChain returns the orthogonally connected same-side elephants
// containing start, in discovery order.
func elephantChain(b *board.Board, start board.Position, side board.Side) []board.Position {
	seen := map[board.Position]bool{start: true}
	queue := []board.Position{start}
	for i := 0; i < len(queue); i++ {
		for _, d := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			n := queue[i].Add(d[0], d[1])
			if seen[n] {
				continue
			}
			pc := b.At(n)
			if pc == nil || pc.Side != side || pc.Type != board.Elephant {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return queue
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
