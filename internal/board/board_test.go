package board

import (
	"encoding/json"
	"testing"
)

func TestNewPanicsOutsideRange(t *testing.T) {
	for _, size := range []int{0, 5, 13} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Expected panic for size %d", size)
				}
			}()
			New(size)
		}()
	}

	for size := MinSize; size <= MaxSize; size++ {
		if b := New(size); b.Size() != size {
			t.Errorf("Expected size %d, got %d", size, b.Size())
		}
	}
}

func TestPlaceAssignsDistinctIDs(t *testing.T) {
	b := New(8)
	a := b.Place(Position{0, 0}, Black, Rook)
	c := b.Place(Position{7, 7}, White, Rook)

	if a.ID == c.ID {
		t.Fatalf("Expected distinct IDs, both got %d", a.ID)
	}
	if a.TempOverride != NoPiece {
		t.Errorf("Expected no override, got %s", a.TempOverride)
	}
	if b.At(Position{0, 0}) != a {
		t.Error("Expected placed piece at (0,0)")
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	b := New(8)
	b.Place(Position{0, 4}, Black, King)
	b.Place(Position{7, 4}, White, King)
	b.Place(Position{6, 0}, White, Pawn)
	b.SetTile(Position{3, 3}, TileLava)

	c := b.Clone()
	c.At(Position{6, 0}).HasMoved = true
	c.Move(Position{6, 0}, Position{5, 0})
	c.SetTile(Position{3, 3}, TileNone)

	if b.At(Position{6, 0}) == nil || b.At(Position{6, 0}).HasMoved {
		t.Error("Expected original pawn untouched")
	}
	if b.At(Position{5, 0}) != nil {
		t.Error("Expected original (5,0) empty")
	}
	if b.Tile(Position{3, 3}) != TileLava {
		t.Error("Expected original lava tile to remain")
	}
	if c.At(Position{5, 0}).ID != b.At(Position{6, 0}).ID {
		t.Error("Expected clone to keep piece identity")
	}
}

func TestTeleportPair(t *testing.T) {
	b := New(6)
	b.SetTeleport(Position{1, 1}, 7)
	b.SetTeleport(Position{4, 4}, 7)
	b.SetTeleport(Position{2, 2}, 9)

	got, ok := b.TeleportPair(Position{1, 1})
	if !ok || got != (Position{4, 4}) {
		t.Errorf("Expected pair (4,4), got %s ok=%v", got, ok)
	}
	if _, ok := b.TeleportPair(Position{2, 2}); ok {
		t.Error("Expected unpaired teleport to have no partner")
	}
	if _, ok := b.TeleportPair(Position{0, 0}); ok {
		t.Error("Expected plain tile to have no partner")
	}
}

func TestMaterial(t *testing.T) {
	b := New(8)
	b.Place(Position{0, 4}, Black, King)
	b.Place(Position{0, 3}, Black, Queen)
	b.Place(Position{7, 4}, White, King)
	b.Place(Position{7, 0}, White, Rook)
	b.Place(Position{6, 0}, White, Pawn)

	mc := Material(b)
	if mc.White != 600 || mc.Black != 900 || mc.Difference != -300 {
		t.Errorf("Unexpected material %+v", mc)
	}
}

func TestTargetJSON(t *testing.T) {
	data, err := json.Marshal(NoTarget())
	if err != nil || string(data) != "null" {
		t.Fatalf("Expected null, got %s (%v)", data, err)
	}

	var tgt Target
	if err := json.Unmarshal([]byte(`{"row":2,"col":5}`), &tgt); err != nil {
		t.Fatal(err)
	}
	if !tgt.Is(Position{2, 5}) {
		t.Errorf("Expected target (2,5), got %+v", tgt)
	}
}

func TestEnumText(t *testing.T) {
	for _, pt := range PieceTypes {
		parsed, ok := ParsePieceType(pt.String())
		if !ok || parsed != pt {
			t.Errorf("Piece type %s did not parse back", pt)
		}
	}

	var s Side
	if err := s.UnmarshalText([]byte("black")); err != nil || s != Black {
		t.Errorf("Expected black, got %s (%v)", s, err)
	}
	if White.Opposite() != Black || Black.Opposite() != White {
		t.Error("Opposite is not an involution")
	}
	if _, ok := ParseTileEffect("quicksand"); ok {
		t.Error("Expected unknown tile to fail")
	}
}
