package boss

import (
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/justinabrahms/gambitrogue/internal/board"
)

const (
	// Period is the turn interval of periodic abilities.
	Period = 5
	// ReactChance is the probability a reactive ability fires on a kill.
	ReactChance = 0.5
	// AscendedLifetime is how long a Necromancer thrall lasts.
	AscendedLifetime = 5
	// TempestFreeze is the frozen counter Tempest applies.
	TempestFreeze = 2
)

var chaosPool = []board.PieceType{
	board.Knight, board.Bishop, board.Rook, board.Zebra, board.Champion, board.Centaur,
}

// Kill is a capture the reactive abilities respond to.
type Kill struct {
	Type board.PieceType `json:"type"`
	Side board.Side      `json:"side"`
	Pos  board.Position  `json:"pos"`
}

// Effects records what an ability did to the board.
type Effects struct {
	Spawned  []board.Position `json:"spawned,omitempty"`
	Hijacked []board.Position `json:"hijacked,omitempty"`
	Granted  []board.Position `json:"granted,omitempty"`
	Revoked  []board.Position `json:"revoked,omitempty"`
	Frozen   []board.Position `json:"frozen,omitempty"`
	Stamped  []board.Position `json:"stamped,omitempty"`
	Cleared  []board.Position `json:"cleared,omitempty"`
	Curses   int              `json:"curses,omitempty"`
}

func (e Effects) Empty() bool {
	return len(e.Spawned) == 0 && len(e.Hijacked) == 0 && len(e.Granted) == 0 &&
		len(e.Revoked) == 0 && len(e.Frozen) == 0 && len(e.Stamped) == 0 &&
		len(e.Cleared) == 0 && e.Curses == 0
}

// Merge appends o into e.
func (e *Effects) Merge(o Effects) {
	e.Spawned = append(e.Spawned, o.Spawned...)
	e.Hijacked = append(e.Hijacked, o.Hijacked...)
	e.Granted = append(e.Granted, o.Granted...)
	e.Revoked = append(e.Revoked, o.Revoked...)
	e.Frozen = append(e.Frozen, o.Frozen...)
	e.Stamped = append(e.Stamped, o.Stamped...)
	e.Cleared = append(e.Cleared, o.Cleared...)
	e.Curses += o.Curses
}

// Resolution is the outcome of running abilities. Board is a new board; the
// input is never mutated.
type Resolution struct {
	Board   *board.Board
	Tracked []board.Position
	Effects Effects
}

// Resolver applies boss abilities. All randomness comes from rng.
type Resolver struct {
	rng *rand.Rand
	log zerolog.Logger
}

func NewResolver(rng *rand.Rand, logger zerolog.Logger) *Resolver {
	return &Resolver{rng: rng, log: logger}
}

// Resolve runs the once-per-enemy-turn abilities. tracked holds the overlay
// tiles stamped on the previous cycle.
//
// Draw order: overlay bosses draw the stamp count then one index per tile.
// Periodic abilities draw one index per chosen piece or square, in the order
// the ability picks them.
func (r *Resolver) Resolve(b *board.Board, id ID, tracked []board.Position, turnCount int) Resolution {
	res := Resolution{
		Board:   b.Clone(),
		Tracked: append([]board.Position(nil), tracked...),
	}
	prof := id.Profile()

	if prof.Trigger == TriggerOverlay {
		r.overlay(&res, prof.Signature)
	}

	if prof.Trigger == TriggerPeriodic && turnCount > 0 && turnCount%Period == 0 {
		switch id {
		case ChaosLord:
			r.chaosSpawn(&res)
		case UndeadLord:
			r.rotateImmortality(&res)
		case MindController:
			r.hijack(&res)
		case StoneGolem:
			r.raiseWalls(&res)
		case MirrorMage:
			r.mirror(&res)
		case Necromancer:
			r.raiseThrall(&res)
		case Tempest:
			r.freeze(&res)
		case None, BlizzardWitch, VoidBringer, LavaTitan, BloodKing, Hydra,
			SoulCorruptor, DoomBringer, KnightSnare, RookBreaker, BishopBane,
			IronWarden, Warlord:
		}
	}

	if !res.Effects.Empty() {
		r.log.Debug().
			Str("boss", id.String()).
			Int("turn", turnCount).
			Int("spawned", len(res.Effects.Spawned)).
			Int("stamped", len(res.Effects.Stamped)).
			Int("cleared", len(res.Effects.Cleared)).
			Msg("Boss ability resolved")
	}
	return res
}

// React runs kill-triggered abilities. Each kill draws one Float64; a spawn
// then draws one index per placed piece.
func (r *Resolver) React(b *board.Board, id ID, kills []Kill) Resolution {
	if id.Profile().Trigger != TriggerReactive || len(kills) == 0 {
		return Resolution{Board: b}
	}
	res := Resolution{Board: b.Clone()}
	for _, k := range kills {
		if k.Type == board.King {
			continue
		}
		switch id {
		case BloodKing:
			if k.Side == board.Black && r.roll() {
				r.spawnOn(&res, blackHalf(res.Board), board.Piece{Type: board.Pawn, Side: board.Black, TempOverride: board.NoPiece})
			}
		case Hydra:
			if k.Side == board.Black && r.roll() {
				for i := 0; i < 2; i++ {
					r.spawnOn(&res, adjacentEmpty(res.Board, k.Pos), board.Piece{Type: board.Pawn, Side: board.Black, TempOverride: board.NoPiece})
				}
			}
		case SoulCorruptor:
			if k.Side == board.White && r.roll() {
				res.Effects.Curses++
			}
		case DoomBringer:
			if k.Side == board.Black && r.roll() {
				res.Effects.Curses++
			}
		case None, ChaosLord, UndeadLord, MindController, StoneGolem, BlizzardWitch,
			VoidBringer, LavaTitan, KnightSnare, RookBreaker, BishopBane, MirrorMage,
			IronWarden, Warlord, Necromancer, Tempest:
		}
	}
	if !res.Effects.Empty() {
		r.log.Debug().
			Str("boss", id.String()).
			Int("kills", len(kills)).
			Int("spawned", len(res.Effects.Spawned)).
			Int("curses", res.Effects.Curses).
			Msg("Boss reaction resolved")
	}
	return res
}

func (r *Resolver) roll() bool { return r.rng.Float64() < ReactChance }

// overlay clears last cycle's tiles that still carry the signature, then
// stamps 2-4 new ones on empty plain squares.
func (r *Resolver) overlay(res *Resolution, sig board.TileEffect) {
	for _, p := range res.Tracked {
		if c := res.Board.Cell(p); c != nil && c.Tile == sig {
			c.Tile = board.TileNone
			res.Effects.Cleared = append(res.Effects.Cleared, p)
		}
	}
	res.Tracked = r.stamp(res.Board, sig, r.rng.Intn(3)+2)
	res.Effects.Stamped = append(res.Effects.Stamped, res.Tracked...)
}

func (r *Resolver) stamp(b *board.Board, sig board.TileEffect, n int) []board.Position {
	candidates := b.Empty(board.TileNone)
	var out []board.Position
	for i := 0; i < n && len(candidates) > 0; i++ {
		idx := r.rng.Intn(len(candidates))
		p := candidates[idx]
		candidates = append(candidates[:idx], candidates[idx+1:]...)
		b.SetTile(p, sig)
		out = append(out, p)
	}
	return out
}

func (r *Resolver) raiseWalls(res *Resolution) {
	res.Effects.Stamped = append(res.Effects.Stamped, r.stamp(res.Board, board.TileWall, r.rng.Intn(3)+2)...)
}

func (r *Resolver) chaosSpawn(res *Resolution) {
	squares := blackHalf(res.Board)
	if len(squares) == 0 {
		return
	}
	p := squares[r.rng.Intn(len(squares))]
	pt := chaosPool[r.rng.Intn(len(chaosPool))]
	res.Board.Spawn(p, board.Piece{Type: pt, Side: board.Black, TempOverride: board.NoPiece})
	res.Effects.Spawned = append(res.Effects.Spawned, p)
}

func (r *Resolver) rotateImmortality(res *Resolution) {
	for _, l := range res.Board.Pieces(board.Black) {
		if l.Piece.BossImmortal() {
			l.Piece.ImmortalTurns = 0
			res.Effects.Revoked = append(res.Effects.Revoked, l.Pos)
		}
	}
	own := nonKings(res.Board, board.Black)
	if len(own) == 0 {
		return
	}
	l := own[r.rng.Intn(len(own))]
	l.Piece.ImmortalTurns = board.BossImmortality
	res.Effects.Granted = append(res.Effects.Granted, l.Pos)
}

func (r *Resolver) hijack(res *Resolution) {
	theirs := nonKings(res.Board, board.White)
	if len(theirs) == 0 {
		return
	}
	l := theirs[r.rng.Intn(len(theirs))]
	l.Piece.Side = board.Black
	res.Effects.Hijacked = append(res.Effects.Hijacked, l.Pos)
}

func (r *Resolver) mirror(res *Resolution) {
	own := nonKings(res.Board, board.Black)
	if len(own) == 0 {
		return
	}
	src := own[r.rng.Intn(len(own))]
	r.spawnOn(res, adjacentEmpty(res.Board, src.Pos), board.Piece{
		Type:         src.Piece.Type,
		Side:         board.Black,
		Variant:      src.Piece.Variant,
		TempOverride: board.NoPiece,
	})
}

func (r *Resolver) raiseThrall(res *Resolution) {
	r.spawnOn(res, blackHalf(res.Board), board.Piece{
		Type:          board.Mann,
		Side:          board.Black,
		AscendedTurns: AscendedLifetime,
		TempOverride:  board.NoPiece,
	})
}

func (r *Resolver) freeze(res *Resolution) {
	var targets []board.Located
	for _, l := range nonKings(res.Board, board.White) {
		if !l.Piece.Frozen() {
			targets = append(targets, l)
		}
	}
	if len(targets) == 0 {
		return
	}
	l := targets[r.rng.Intn(len(targets))]
	l.Piece.FrozenTurns = TempestFreeze
	res.Effects.Frozen = append(res.Effects.Frozen, l.Pos)
}

func (r *Resolver) spawnOn(res *Resolution, squares []board.Position, tmpl board.Piece) {
	var free []board.Position
	for _, p := range squares {
		if res.Board.At(p) == nil {
			free = append(free, p)
		}
	}
	if len(free) == 0 {
		return
	}
	p := free[r.rng.Intn(len(free))]
	res.Board.Spawn(p, tmpl)
	res.Effects.Spawned = append(res.Effects.Spawned, p)
}

func nonKings(b *board.Board, side board.Side) []board.Located {
	var out []board.Located
	for _, l := range b.Pieces(side) {
		if l.Piece.Type != board.King {
			out = append(out, l)
		}
	}
	return out
}

// blackHalf lists empty plain squares on the enemy's side of the board.
func blackHalf(b *board.Board) []board.Position {
	var out []board.Position
	for _, p := range b.Empty(board.TileNone) {
		if p.Row < b.Size()/2 {
			out = append(out, p)
		}
	}
	return out
}

func adjacentEmpty(b *board.Board, around board.Position) []board.Position {
	var out []board.Position
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			p := around.Add(dr, dc)
			if c := b.Cell(p); c != nil && c.Piece == nil && c.Tile == board.TileNone {
				out = append(out, p)
			}
		}
	}
	return out
}
