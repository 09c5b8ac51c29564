package level

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinabrahms/gambitrogue/internal/board"
	"github.com/justinabrahms/gambitrogue/internal/boss"
)

func TestStandardLayout(t *testing.T) {
	b := Standard(8)
	want := []board.PieceType{
		board.Rook, board.Knight, board.Bishop, board.Queen,
		board.King, board.Bishop, board.Knight, board.Rook,
	}
	for col, pt := range want {
		black := b.At(board.Position{Row: 0, Col: col})
		white := b.At(board.Position{Row: 7, Col: col})
		require.NotNil(t, black)
		require.NotNil(t, white)
		assert.Equal(t, pt, black.Type)
		assert.Equal(t, pt, white.Type)
		assert.Equal(t, board.Black, black.Side)
		assert.Equal(t, board.White, white.Side)
	}
	assert.Equal(t, board.Pawn, b.At(board.Position{Row: 6, Col: 3}).Type)
	assert.Equal(t, 15, b.CountNonKing(board.White))
}

func TestStandardKeepsKingInvariantForEverySize(t *testing.T) {
	for size := board.MinSize; size <= board.MaxSize; size++ {
		b := Standard(size)
		assert.NoError(t, Validate(b), "size %d", size)
		mc := board.Material(b)
		assert.Zero(t, mc.Difference, "size %d", size)
	}
}

func TestFromFEN(t *testing.T) {
	b, err := FromFEN("4k3/8/8/3p4/8/8/4P3/4K3 w - - 0 1")
	require.NoError(t, err)

	king := b.At(board.Position{Row: 7, Col: 4})
	require.NotNil(t, king)
	assert.Equal(t, board.King, king.Type)
	assert.Equal(t, board.White, king.Side)

	pawn := b.At(board.Position{Row: 6, Col: 4})
	require.NotNil(t, pawn)
	assert.False(t, pawn.HasMoved)

	advanced := b.At(board.Position{Row: 3, Col: 3})
	require.NotNil(t, advanced)
	assert.Equal(t, board.Black, advanced.Side)
	assert.True(t, advanced.HasMoved)
}

func TestFromFENRejectsBadInput(t *testing.T) {
	_, err := FromFEN("not a fen")
	assert.Error(t, err)

	_, err = FromFEN("8/8/8/8/8/8/8/4K3 w - - 0 1")
	assert.Error(t, err, "a position without a black king is not a level")
}

func TestGenerateTerrain(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		for _, size := range []int{6, 8, 12} {
			b, err := Generate(Config{Size: size, Boss: boss.LavaTitan, Terrain: true}, rand.New(rand.NewSource(seed)))
			require.NoError(t, err)

			walls, holes, teleports := 0, 0, 0
			for r := 0; r < size; r++ {
				for c := 0; c < size; c++ {
					switch b.Tile(board.Position{Row: r, Col: c}) {
					case board.TileWall:
						walls++
					case board.TileHole:
						holes++
					case board.TileTeleport:
						teleports++
					}
				}
			}
			assert.Equal(t, size/3, walls)
			assert.Equal(t, size/4, holes)
			assert.Equal(t, 2, teleports)
		}
	}
}

func TestGenerateBossEscort(t *testing.T) {
	b, err := Generate(Config{Size: 8, Boss: boss.VoidBringer}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	escort := b.At(board.Position{Row: 0, Col: 3})
	assert.Equal(t, board.Dragon, escort.Type)
	assert.Equal(t, board.VariantAbyss, escort.Variant)

	b, err = Generate(Config{Size: 8, Boss: boss.StoneGolem}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	for col := 3; col <= 5; col++ {
		assert.Equal(t, board.Elephant, b.At(board.Position{Row: 1, Col: col}).Type)
	}
}

func TestGenerateRejectsBadSize(t *testing.T) {
	_, err := Generate(Config{Size: 4}, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	b := Standard(8)
	b.SetTeleport(board.Position{Row: 4, Col: 4}, 3)
	assert.True(t, errors.Is(Validate(b), ErrTeleportPair))

	b = Standard(8)
	b.SetTile(board.Position{Row: 6, Col: 0}, board.TileWall)
	assert.True(t, errors.Is(Validate(b), ErrBlockedPiece))

	b = Standard(8)
	b.Place(board.Position{Row: 4, Col: 4}, board.Black, board.King)
	assert.True(t, errors.Is(Validate(b), ErrKingCount))
}
