// Package boss describes the enemy commanders and resolves their abilities.
package boss

import (
	"fmt"
	"strings"

	"github.com/justinabrahms/gambitrogue/internal/board"
)

type ID uint8

const (
	None ID = iota
	ChaosLord
	UndeadLord
	MindController
	StoneGolem
	BlizzardWitch
	VoidBringer
	LavaTitan
	BloodKing
	Hydra
	SoulCorruptor
	DoomBringer
	KnightSnare
	RookBreaker
	BishopBane
	MirrorMage
	IronWarden
	Warlord
	Necromancer
	Tempest
)

// All lists every boss identity in declaration order.
var All = []ID{
	None, ChaosLord, UndeadLord, MindController, StoneGolem, BlizzardWitch,
	VoidBringer, LavaTitan, BloodKing, Hydra, SoulCorruptor, DoomBringer,
	KnightSnare, RookBreaker, BishopBane, MirrorMage, IronWarden, Warlord,
	Necromancer, Tempest,
}

func (id ID) String() string {
	switch id {
	case None:
		return "none"
	case ChaosLord:
		return "chaos_lord"
	case UndeadLord:
		return "undead_lord"
	case MindController:
		return "mind_controller"
	case StoneGolem:
		return "stone_golem"
	case BlizzardWitch:
		return "blizzard_witch"
	case VoidBringer:
		return "void_bringer"
	case LavaTitan:
		return "lava_titan"
	case BloodKing:
		return "blood_king"
	case Hydra:
		return "hydra"
	case SoulCorruptor:
		return "soul_corruptor"
	case DoomBringer:
		return "doom_bringer"
	case KnightSnare:
		return "knight_snare"
	case RookBreaker:
		return "rook_breaker"
	case BishopBane:
		return "bishop_bane"
	case MirrorMage:
		return "mirror_mage"
	case IronWarden:
		return "iron_warden"
	case Warlord:
		return "warlord"
	case Necromancer:
		return "necromancer"
	case Tempest:
		return "tempest"
	default:
		return fmt.Sprintf("boss(%d)", id)
	}
}

// ParseID accepts the snake_case names produced by String.
func ParseID(s string) (ID, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return None, nil
	}
	name = strings.ReplaceAll(name, "-", "_")
	for _, id := range All {
		if id.String() == name {
			return id, nil
		}
	}
	return None, fmt.Errorf("unknown boss %q", s)
}

func (id ID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Restriction names a movement family a boss disables for the player.
type Restriction uint8

const (
	RestrictNone Restriction = iota
	RestrictKnight
	RestrictRook
	RestrictBishop
)

// Trigger classifies when an ability fires.
type Trigger uint8

const (
	TriggerNone Trigger = iota
	TriggerPeriodic
	TriggerOverlay
	TriggerReactive
	TriggerPassive
)

// Profile is the static description of a boss.
type Profile struct {
	Aggression  float64
	Defense     float64
	Restriction Restriction
	Signature   board.TileEffect
	Trigger     Trigger
	// Escort replaces the enemy queen when a level is generated.
	Escort        board.PieceType
	EscortVariant board.Variant
}

func (id ID) Profile() Profile {
	p := Profile{Aggression: 1, Defense: 1, Escort: board.NoPiece}
	switch id {
	case None:
		p.Trigger = TriggerNone
	case ChaosLord:
		p.Trigger = TriggerPeriodic
		p.Aggression = 1.2
		p.Escort = board.Amazon
	case UndeadLord:
		p.Trigger = TriggerPeriodic
		p.Defense = 1.2
	case MindController:
		p.Trigger = TriggerPeriodic
	case StoneGolem:
		p.Trigger = TriggerPeriodic
		p.Signature = board.TileWall
		p.Defense = 1.3
		p.Escort = board.Elephant
	case BlizzardWitch:
		p.Trigger = TriggerOverlay
		p.Signature = board.TileFrozen
		p.Escort = board.Dragon
		p.EscortVariant = board.VariantFrozen
	case VoidBringer:
		p.Trigger = TriggerOverlay
		p.Signature = board.TileHole
		p.Escort = board.Dragon
		p.EscortVariant = board.VariantAbyss
	case LavaTitan:
		p.Trigger = TriggerOverlay
		p.Signature = board.TileLava
		p.Aggression = 1.1
		p.Escort = board.Dragon
		p.EscortVariant = board.VariantLava
	case BloodKing, Hydra:
		p.Trigger = TriggerReactive
		p.Defense = 0.9
	case SoulCorruptor, DoomBringer:
		p.Trigger = TriggerReactive
		p.Aggression = 1.1
	case KnightSnare:
		p.Trigger = TriggerPassive
		p.Restriction = RestrictKnight
	case RookBreaker:
		p.Trigger = TriggerPassive
		p.Restriction = RestrictRook
	case BishopBane:
		p.Trigger = TriggerPassive
		p.Restriction = RestrictBishop
	case MirrorMage:
		p.Trigger = TriggerPeriodic
	case IronWarden:
		p.Trigger = TriggerPassive
		p.Defense = 1.5
	case Warlord:
		p.Trigger = TriggerPassive
		p.Aggression = 1.5
		p.Escort = board.Chancellor
	case Necromancer:
		p.Trigger = TriggerPeriodic
	case Tempest:
		p.Trigger = TriggerPeriodic
		p.Signature = board.TileFrozen
	}
	return p
}
