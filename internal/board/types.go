package board

import (
	"fmt"
	"strings"
)

type Side uint8

const (
	White Side = iota
	Black
)

func (s Side) Opposite() Side {
	if s == White {
		return Black
	}
	return White
}

func (s Side) Index() int { return int(s) }

func (s Side) String() string {
	if s == White {
		return "white"
	}
	return "black"
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Side) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "white", "w":
		*s = White
	case "black", "b":
		*s = Black
	default:
		return fmt.Errorf("invalid side %q", string(text))
	}
	return nil
}

// PieceType is the movement archetype of a piece.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	Elephant
	Dragon
	Chancellor
	Archbishop
	Mann
	Amazon
	Centaur
	Zebra
	Champion
	Fool
	Ship
	NoPiece PieceType = 255
)

// PieceTypes lists every real piece type in declaration order.
var PieceTypes = []PieceType{
	Pawn, Knight, Bishop, Rook, Queen, King, Elephant, Dragon, Chancellor,
	Archbishop, Mann, Amazon, Centaur, Zebra, Champion, Fool, Ship,
}

func (p PieceType) String() string {
	switch p {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	case Elephant:
		return "elephant"
	case Dragon:
		return "dragon"
	case Chancellor:
		return "chancellor"
	case Archbishop:
		return "archbishop"
	case Mann:
		return "mann"
	case Amazon:
		return "amazon"
	case Centaur:
		return "centaur"
	case Zebra:
		return "zebra"
	case Champion:
		return "champion"
	case Fool:
		return "fool"
	case Ship:
		return "ship"
	case NoPiece:
		return "none"
	default:
		return fmt.Sprintf("piece(%d)", p)
	}
}

func ParsePieceType(s string) (PieceType, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" || trimmed == "none" {
		return NoPiece, true
	}
	for _, pt := range PieceTypes {
		if pt.String() == trimmed {
			return pt, true
		}
	}
	return NoPiece, false
}

func (p PieceType) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *PieceType) UnmarshalText(text []byte) error {
	parsed, ok := ParsePieceType(string(text))
	if !ok {
		return fmt.Errorf("invalid piece type %q", string(text))
	}
	*p = parsed
	return nil
}

// TileEffect is the terrain carried by a cell.
type TileEffect uint8

const (
	TileNone TileEffect = iota
	TileHole
	TileWall
	TileFrozen
	TileLava
	TilePromotion
	TileTeleport
)

func (t TileEffect) String() string {
	switch t {
	case TileNone:
		return "none"
	case TileHole:
		return "hole"
	case TileWall:
		return "wall"
	case TileFrozen:
		return "frozen"
	case TileLava:
		return "lava"
	case TilePromotion:
		return "promotion"
	case TileTeleport:
		return "teleport"
	default:
		return fmt.Sprintf("tile(%d)", t)
	}
}

func ParseTileEffect(s string) (TileEffect, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return TileNone, true
	case "hole":
		return TileHole, true
	case "wall":
		return TileWall, true
	case "frozen":
		return TileFrozen, true
	case "lava":
		return TileLava, true
	case "promotion":
		return TilePromotion, true
	case "teleport":
		return TileTeleport, true
	default:
		return TileNone, false
	}
}

func (t TileEffect) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TileEffect) UnmarshalText(text []byte) error {
	parsed, ok := ParseTileEffect(string(text))
	if !ok {
		return fmt.Errorf("invalid tile effect %q", string(text))
	}
	*t = parsed
	return nil
}

// Variant is the elemental tag of a Dragon.
type Variant uint8

const (
	VariantNone Variant = iota
	VariantLava
	VariantAbyss
	VariantFrozen
)

func (v Variant) String() string {
	switch v {
	case VariantNone:
		return "none"
	case VariantLava:
		return "lava"
	case VariantAbyss:
		return "abyss"
	case VariantFrozen:
		return "frozen"
	default:
		return "?"
	}
}

// Trail is the hazard a variant Dragon leaves on the square it departs.
func (v Variant) Trail() TileEffect {
	switch v {
	case VariantLava:
		return TileLava
	case VariantAbyss:
		return TileHole
	case VariantFrozen:
		return TileFrozen
	default:
		return TileNone
	}
}

func (v Variant) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *Variant) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "none":
		*v = VariantNone
	case "lava":
		*v = VariantLava
	case "abyss":
		*v = VariantAbyss
	case "frozen":
		*v = VariantFrozen
	default:
		return fmt.Errorf("invalid variant %q", string(text))
	}
	return nil
}
