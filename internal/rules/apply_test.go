package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinabrahms/gambitrogue/internal/board"
	"github.com/justinabrahms/gambitrogue/internal/boss"
)

func pos(r, c int) board.Position { return board.Position{Row: r, Col: c} }

// withKings returns an 8x8 board with the kings tucked in opposite corners.
func withKings() *board.Board {
	b := board.New(8)
	b.Place(pos(0, 7), board.Black, board.King)
	b.Place(pos(7, 0), board.White, board.King)
	return b
}

func someCards() Resources { return Resources{Deck: []Card{"strike"}} }

func TestLavaKillsMover(t *testing.T) {
	b := withKings()
	b.Place(pos(7, 3), board.White, board.Rook)
	b.Place(pos(1, 1), board.White, board.Pawn)
	b.SetTile(pos(4, 3), board.TileLava)

	r := ApplyMove(b, pos(7, 3), pos(4, 3), NewTurnState(boss.None), someCards())

	assert.Nil(t, r.Board.At(pos(4, 3)))
	assert.Nil(t, r.Board.At(pos(7, 3)))
	require.Len(t, r.Events.Deaths, 1)
	assert.Equal(t, Death{Type: board.Rook, Side: board.White, Pos: pos(4, 3), Cause: CauseLava}, r.Events.Deaths[0])
	assert.Equal(t, board.Black, r.State.Turn)
}

func TestLavaSparesImmortalAndDragon(t *testing.T) {
	b := withKings()
	rook := b.Place(pos(7, 3), board.White, board.Rook)
	rook.ImmortalTurns = 3
	b.Place(pos(2, 2), board.Black, board.Dragon)
	b.SetTile(pos(4, 3), board.TileLava)

	r := ApplyMove(b, pos(7, 3), pos(4, 3), NewTurnState(boss.None), someCards())
	require.NotNil(t, r.Board.At(pos(4, 3)))
	assert.Equal(t, 2, r.Board.At(pos(4, 3)).ImmortalTurns)

	r.Board.SetTile(pos(3, 4), board.TileLava)
	r = ApplyMove(r.Board, pos(2, 2), pos(3, 4), r.State, someCards())
	assert.NotNil(t, r.Board.At(pos(3, 4)))
	assert.Empty(t, r.Events.Deaths)
}

func TestApplyMoveDoesNotMutateInput(t *testing.T) {
	b := withKings()
	b.Place(pos(6, 4), board.White, board.Pawn)
	st := NewTurnState(boss.None)

	r := ApplyMove(b, pos(6, 4), pos(4, 4), st, someCards())

	assert.NotNil(t, b.At(pos(6, 4)))
	assert.False(t, b.At(pos(6, 4)).HasMoved)
	assert.Nil(t, b.At(pos(4, 4)))
	assert.False(t, st.EnPassant.Valid())
	assert.True(t, r.Board.At(pos(4, 4)).HasMoved)
}

func TestEnPassantWindow(t *testing.T) {
	b := withKings()
	b.Place(pos(1, 3), board.Black, board.Pawn)
	wp := b.Place(pos(3, 4), board.White, board.Pawn)
	wp.HasMoved = true
	b.Place(pos(6, 6), board.White, board.Rook)
	st := NewTurnState(boss.None)
	st.Turn = board.Black

	r := ApplyMove(b, pos(1, 3), pos(3, 3), st, someCards())
	sq, ok := r.State.EnPassant.Square()
	require.True(t, ok)
	assert.Equal(t, pos(2, 3), sq)

	t.Run("captured on the next turn", func(t *testing.T) {
		next := ApplyMove(r.Board, pos(3, 4), pos(2, 3), r.State, someCards())
		assert.Nil(t, next.Board.At(pos(3, 3)))
		require.Len(t, next.Events.Captures, 1)
		assert.True(t, next.Events.Captures[0].EnPassant)
		assert.Equal(t, pos(3, 3), next.Events.Captures[0].Pos)
		assert.False(t, next.State.EnPassant.Valid())
	})

	t.Run("expires after one turn", func(t *testing.T) {
		next := ApplyMove(r.Board, pos(6, 6), pos(5, 6), r.State, someCards())
		assert.False(t, next.State.EnPassant.Valid())
	})
}

func TestEnPassantOnlyFromRealDoubleStep(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(b *board.Board)
		from   board.Position
		to     board.Position
		window bool
	}{
		{
			name:   "pawn double step",
			setup:  func(b *board.Board) { b.Place(pos(6, 4), board.White, board.Pawn) },
			from:   pos(6, 4),
			to:     pos(4, 4),
			window: true,
		},
		{
			name: "moved champion leaps forward two",
			setup: func(b *board.Board) {
				c := b.Place(pos(5, 4), board.White, board.Champion)
				c.HasMoved = true
			},
			from: pos(5, 4),
			to:   pos(3, 4),
		},
		{
			name: "unmoved champion leaps over a piece",
			setup: func(b *board.Board) {
				b.Place(pos(6, 4), board.White, board.Champion)
				b.Place(pos(5, 4), board.White, board.Knight)
			},
			from: pos(6, 4),
			to:   pos(4, 4),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := withKings()
			tt.setup(b)

			r := ApplyMove(b, tt.from, tt.to, NewTurnState(boss.None), someCards())
			assert.Equal(t, tt.window, r.State.EnPassant.Valid())
		})
	}
}

func TestPassAgesTilesAndClosesWindow(t *testing.T) {
	b := withKings()
	d := b.Place(pos(5, 4), board.White, board.Dragon)
	d.Variant = board.VariantLava
	b.Place(pos(4, 1), board.White, board.Pawn).HasMoved = true
	b.Place(pos(1, 1), board.Black, board.Pawn).FrozenTurns = 2

	r := ApplyMove(b, pos(5, 4), pos(3, 5), NewTurnState(boss.None), someCards())
	require.Equal(t, board.TileLava, r.Board.Tile(pos(5, 4)))
	st := r.State.Clone()
	st.EnPassant = board.NewTarget(pos(5, 1))

	p := Pass(r.Board, st, someCards())
	assert.Equal(t, board.White, p.State.Turn)
	assert.Equal(t, board.Black, p.Events.Side)
	assert.False(t, p.State.EnPassant.Valid())
	assert.Equal(t, 1, p.Board.At(pos(1, 1)).FrozenTurns)
	assert.Equal(t, board.NoPiece, p.State.LastMoved[board.Black.Index()])
	assert.Equal(t, board.TileLava, p.Board.Tile(pos(5, 4)), "trail survives the pass")
	require.Len(t, p.State.TempTiles, 1)
	assert.Equal(t, 1, p.State.TempTiles[0].Remaining)

	assert.Equal(t, 2, r.Board.At(pos(1, 1)).FrozenTurns, "input board untouched")
	assert.True(t, st.EnPassant.Valid(), "input state untouched")
	assert.Equal(t, 2, st.TempTiles[0].Remaining)

	next := ApplyMove(p.Board, pos(7, 0), pos(7, 1), p.State, someCards())
	assert.Equal(t, board.TileNone, next.Board.Tile(pos(5, 4)))
	assert.Contains(t, next.Events.RevertedTiles, pos(5, 4))
}

func TestDragonTrailRevertsAfterOneCycle(t *testing.T) {
	b := withKings()
	d := b.Place(pos(2, 2), board.Black, board.Dragon)
	d.Variant = board.VariantLava
	st := NewTurnState(boss.None)
	st.Turn = board.Black

	r := ApplyMove(b, pos(2, 2), pos(4, 3), st, someCards())
	assert.Equal(t, board.TileLava, r.Board.Tile(pos(2, 2)))
	assert.True(t, r.Events.TrailPlaced)

	r = ApplyMove(r.Board, pos(7, 0), pos(6, 0), r.State, someCards())
	assert.Equal(t, board.TileLava, r.Board.Tile(pos(2, 2)), "trail survives the opponent's reply")

	r = ApplyMove(r.Board, pos(0, 7), pos(0, 6), r.State, someCards())
	assert.Equal(t, board.TileNone, r.Board.Tile(pos(2, 2)))
	assert.Contains(t, r.Events.RevertedTiles, pos(2, 2))
	assert.Empty(t, r.State.TempTiles)
}

func TestTrailNotRevertedWhenOverwritten(t *testing.T) {
	b := withKings()
	d := b.Place(pos(2, 2), board.Black, board.Dragon)
	d.Variant = board.VariantAbyss
	st := NewTurnState(boss.None)
	st.Turn = board.Black

	r := ApplyMove(b, pos(2, 2), pos(4, 3), st, someCards())
	assert.Equal(t, board.TileHole, r.Board.Tile(pos(2, 2)))

	r.Board.SetTile(pos(2, 2), board.TileWall)
	r = ApplyMove(r.Board, pos(7, 0), pos(6, 0), r.State, someCards())
	r = ApplyMove(r.Board, pos(0, 7), pos(0, 6), r.State, someCards())
	assert.Equal(t, board.TileWall, r.Board.Tile(pos(2, 2)))
}

func TestTrappedCaptureDestroysAttacker(t *testing.T) {
	b := withKings()
	b.Place(pos(5, 2), board.White, board.Rook)
	b.Place(pos(4, 3), board.White, board.Pawn)
	bait := b.Place(pos(2, 2), board.Black, board.Knight)
	bait.Trapped = true

	r := ApplyMove(b, pos(5, 2), pos(2, 2), NewTurnState(boss.None), someCards())

	assert.Nil(t, r.Board.At(pos(2, 2)))
	assert.Nil(t, r.Board.At(pos(5, 2)))
	require.Len(t, r.Events.Captures, 1)
	require.Len(t, r.Events.Deaths, 1)
	assert.Equal(t, CauseTrap, r.Events.Deaths[0].Cause)
}

func TestMimicTakesCapturedType(t *testing.T) {
	b := withKings()
	m := b.Place(pos(5, 2), board.White, board.Pawn)
	m.Mimic = true
	m.HasMoved = true
	b.Place(pos(4, 3), board.Black, board.Rook)

	r := ApplyMove(b, pos(5, 2), pos(4, 3), NewTurnState(boss.None), someCards())

	got := r.Board.At(pos(4, 3))
	require.NotNil(t, got)
	assert.Equal(t, board.Rook, got.Type)
	assert.False(t, got.Mimic)
	assert.True(t, r.Events.Mimicked)
}

func TestGoldRewardAndMidas(t *testing.T) {
	b := withKings()
	b.Place(pos(5, 2), board.White, board.Rook)
	b.Place(pos(2, 2), board.Black, board.Queen)
	b.Place(pos(2, 5), board.Black, board.Pawn)

	r := ApplyMove(b, pos(5, 2), pos(2, 2), NewTurnState(boss.None), someCards())
	assert.Equal(t, 9, r.Events.Captures[0].Gold)

	res := someCards()
	res.Midas = true
	r = ApplyMove(b, pos(5, 2), pos(2, 2), NewTurnState(boss.None), res)
	assert.Equal(t, 18, r.Events.Captures[0].Gold)
}

func TestTeleport(t *testing.T) {
	b := withKings()
	b.Place(pos(6, 3), board.White, board.Rook)
	b.SetTeleport(pos(4, 3), 1)
	b.SetTeleport(pos(2, 5), 1)

	r := ApplyMove(b, pos(6, 3), pos(4, 3), NewTurnState(boss.None), someCards())
	assert.Nil(t, r.Board.At(pos(4, 3)))
	assert.NotNil(t, r.Board.At(pos(2, 5)))
	assert.True(t, r.Events.Teleported)
	assert.Equal(t, pos(2, 5), r.Events.To)

	b.Place(pos(2, 5), board.Black, board.Pawn)
	r = ApplyMove(b, pos(6, 3), pos(4, 3), NewTurnState(boss.None), someCards())
	assert.NotNil(t, r.Board.At(pos(4, 3)), "occupied pair blocks the teleport")
}

func TestFrozenTile(t *testing.T) {
	b := withKings()
	b.Place(pos(6, 3), board.White, board.Rook)
	b.SetTile(pos(3, 3), board.TileFrozen)

	r := ApplyMove(b, pos(6, 3), pos(3, 3), NewTurnState(boss.None), someCards())
	// set to FreezeDuration, then ticked once by the mover's own decay
	assert.Equal(t, FreezeDuration-1, r.Board.At(pos(3, 3)).FrozenTurns)
	assert.True(t, r.Events.Frozen)
}

func TestPromotions(t *testing.T) {
	t.Run("promotion tile", func(t *testing.T) {
		b := withKings()
		b.Place(pos(6, 3), board.White, board.Knight)
		b.SetTile(pos(4, 4), board.TilePromotion)

		r := ApplyMove(b, pos(6, 3), pos(4, 4), NewTurnState(boss.None), someCards())
		assert.Equal(t, board.Amazon, r.Board.At(pos(4, 4)).Type)
		assert.Equal(t, board.Amazon, r.Events.Promoted)
	})

	t.Run("far rank", func(t *testing.T) {
		b := withKings()
		p := b.Place(pos(1, 3), board.White, board.Pawn)
		p.HasMoved = true

		r := ApplyMove(b, pos(1, 3), pos(0, 3), NewTurnState(boss.None), someCards())
		assert.Equal(t, board.Queen, r.Board.At(pos(0, 3)).Type)
	})
}

func TestElephantBreaksWall(t *testing.T) {
	b := withKings()
	b.Place(pos(6, 3), board.White, board.Elephant)
	b.SetTile(pos(5, 3), board.TileWall)

	r := ApplyMove(b, pos(6, 3), pos(5, 3), NewTurnState(boss.None), someCards())
	assert.Equal(t, board.TileNone, r.Board.Tile(pos(5, 3)))
	assert.Equal(t, []board.Position{pos(5, 3)}, r.Events.WallsBroken)
}

func TestElephantSwarm(t *testing.T) {
	st := NewTurnState(boss.None)
	st.Turn = board.Black

	t.Run("lateral chain advances together", func(t *testing.T) {
		b := withKings()
		for c := 2; c <= 4; c++ {
			b.Place(pos(1, c), board.Black, board.Elephant)
		}

		r := ApplyMove(b, pos(1, 3), pos(2, 3), st, someCards())
		for c := 2; c <= 4; c++ {
			assert.Nil(t, r.Board.At(pos(1, c)))
			require.NotNil(t, r.Board.At(pos(2, c)))
			assert.Equal(t, board.Elephant, r.Board.At(pos(2, c)).Type)
		}
		assert.Len(t, r.Events.Swarm, 2)
	})

	t.Run("column follows into vacated squares", func(t *testing.T) {
		b := withKings()
		for r := 1; r <= 3; r++ {
			b.Place(pos(r, 3), board.Black, board.Elephant)
		}

		r := ApplyMove(b, pos(3, 3), pos(4, 3), st, someCards())
		assert.Nil(t, r.Board.At(pos(1, 3)))
		for row := 2; row <= 4; row++ {
			assert.NotNil(t, r.Board.At(pos(row, 3)))
		}
	})

	t.Run("blocked member stays", func(t *testing.T) {
		b := withKings()
		for c := 2; c <= 4; c++ {
			b.Place(pos(1, c), board.Black, board.Elephant)
		}
		b.Place(pos(2, 2), board.White, board.Pawn)

		r := ApplyMove(b, pos(1, 3), pos(2, 3), st, someCards())
		assert.NotNil(t, r.Board.At(pos(1, 2)))
		assert.Equal(t, board.White, r.Board.At(pos(2, 2)).Side)
		assert.NotNil(t, r.Board.At(pos(2, 4)))
	})

	t.Run("pairs do not swarm", func(t *testing.T) {
		b := withKings()
		b.Place(pos(1, 2), board.Black, board.Elephant)
		b.Place(pos(1, 3), board.Black, board.Elephant)

		r := ApplyMove(b, pos(1, 3), pos(2, 3), st, someCards())
		assert.NotNil(t, r.Board.At(pos(1, 2)))
		assert.Empty(t, r.Events.Swarm)
	})
}

func TestStatusDecay(t *testing.T) {
	b := withKings()
	thrall := b.Place(pos(5, 5), board.White, board.Mann)
	thrall.AscendedTurns = 1
	shield := b.Place(pos(5, 1), board.White, board.Rook)
	shield.ImmortalTurns = board.BossImmortality
	enemy := b.Place(pos(2, 2), board.Black, board.Rook)
	enemy.FrozenTurns = 2

	r := ApplyMove(b, pos(7, 0), pos(7, 1), NewTurnState(boss.None), someCards())

	assert.Nil(t, r.Board.At(pos(5, 5)))
	require.Len(t, r.Events.Deaths, 1)
	assert.Equal(t, CauseExpired, r.Events.Deaths[0].Cause)
	assert.Equal(t, board.BossImmortality, r.Board.At(pos(5, 1)).ImmortalTurns)
	assert.Equal(t, 2, r.Board.At(pos(2, 2)).FrozenTurns, "only the moving side decays")
}

func TestCaptureKingEndsGame(t *testing.T) {
	b := withKings()
	b.Place(pos(5, 7), board.White, board.Rook)
	b.Place(pos(3, 3), board.Black, board.Pawn)

	r := ApplyMove(b, pos(5, 7), pos(0, 7), NewTurnState(boss.None), someCards())
	assert.Equal(t, OutcomeWin, r.Events.Outcome)
	assert.True(t, r.State.Terminal)
}

func TestCheckFlags(t *testing.T) {
	b := withKings()
	b.Place(pos(5, 6), board.White, board.Rook)
	b.Place(pos(3, 3), board.Black, board.Pawn)

	r := ApplyMove(b, pos(5, 6), pos(5, 7), NewTurnState(boss.None), someCards())
	assert.True(t, r.Events.BlackInCheck)
	assert.False(t, r.Events.WhiteInCheck)
	assert.Equal(t, OutcomeNone, r.Events.Outcome)
}
