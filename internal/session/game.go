// Package session runs a single level: it owns the canonical board and
// sequences the player move, the enemy reply and boss abilities.
package session

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/justinabrahms/gambitrogue/internal/ai"
	"github.com/justinabrahms/gambitrogue/internal/board"
	"github.com/justinabrahms/gambitrogue/internal/boss"
	"github.com/justinabrahms/gambitrogue/internal/level"
	"github.com/justinabrahms/gambitrogue/internal/movegen"
	"github.com/justinabrahms/gambitrogue/internal/rules"
)

var (
	ErrGameOver     = errors.New("game is over")
	ErrEmptySquare  = errors.New("no piece on that square")
	ErrNotYourPiece = errors.New("piece belongs to the enemy")
	ErrIllegalMove  = errors.New("illegal move")
	ErrOffBoard     = errors.New("square is off the board")
)

// Options configure a new level.
type Options struct {
	Size        int
	Boss        boss.ID
	Seed        int64
	SearchDepth int
	Terrain     bool
	Midas       bool
	Deck        []rules.Card
	Hand        []rules.Card
	// Board overrides level generation when set.
	Board *board.Board
}

// Game is one level of a run. All methods are safe for concurrent use.
type Game struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	active   time.Time
	board    *board.Board
	state    rules.TurnState
	deck     []rules.Card
	hand     []rules.Card
	gold     int
	midas    bool
	dead     []board.PieceType
	searcher *ai.Searcher
	resolver *boss.Resolver
	log      zerolog.Logger
}

// TurnReport is the result of one full cycle started by a player move.
type TurnReport struct {
	Player      rules.Events  `json:"player"`
	Enemy       *rules.Events `json:"enemy,omitempty"`
	EnemyPassed bool          `json:"enemyPassed,omitempty"`
	Boss        boss.Effects  `json:"boss"`
	Outcome     rules.Outcome `json:"outcome"`
	TurnCount   int           `json:"turnCount"`
}

// New builds a level from opts. A zero Seed seeds from the clock.
func New(id string, opts Options, logger zerolog.Logger) (*Game, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	// search and boss draws share one source so a seed replays a whole level
	rng := rand.New(rand.NewSource(seed))

	b := opts.Board
	if b == nil {
		var err error
		b, err = level.Generate(level.Config{Size: opts.Size, Boss: opts.Boss, Terrain: opts.Terrain}, rng)
		if err != nil {
			return nil, fmt.Errorf("failed to generate level: %w", err)
		}
	} else {
		if err := level.Validate(b); err != nil {
			return nil, fmt.Errorf("invalid starting board: %w", err)
		}
		b = b.Clone()
	}

	now := time.Now()
	glog := logger.With().Str("game", id).Str("boss", opts.Boss.String()).Logger()
	g := &Game{
		ID:        id,
		CreatedAt: now,
		active:    now,
		board:     b,
		state:     rules.NewTurnState(opts.Boss),
		deck:      slices.Clone(opts.Deck),
		hand:      slices.Clone(opts.Hand),
		midas:     opts.Midas,
		searcher:  ai.NewSearcher(opts.SearchDepth, rng, glog),
		resolver:  boss.NewResolver(rng, glog),
		log:       glog,
	}
	glog.Info().Int("size", b.Size()).Int("depth", g.searcher.Depth()).Int64("seed", seed).Msg("Level started")
	return g, nil
}

// LegalMoves lists the destinations of the player's piece at from.
func (g *Game) LegalMoves(from board.Position) ([]board.Position, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	pc, err := g.playerPiece(from)
	if err != nil {
		return nil, err
	}
	return movegen.Generate(g.board, pc, from, g.state.MoveContext(board.White)), nil
}

// Move plays the player's move and, unless the level ends, the enemy reply
// and the boss phase.
func (g *Game) Move(from, to board.Position) (*TurnReport, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = time.Now()

	if g.state.Terminal {
		return nil, ErrGameOver
	}
	pc, err := g.playerPiece(from)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(movegen.Generate(g.board, pc, from, g.state.MoveContext(board.White)), to) {
		return nil, fmt.Errorf("%w: %s from %s to %s", ErrIllegalMove, pc.Type, from, to)
	}

	report := &TurnReport{}
	player := g.apply(from, to)
	report.Player = player
	g.react(player, &report.Boss)

	if !g.state.Terminal {
		g.enemyTurn(player, report)
	}

	report.Outcome = g.state.Outcome
	report.TurnCount = g.state.TurnCount
	if g.state.Terminal {
		g.log.Info().Str("outcome", g.state.Outcome.String()).Int("turn", g.state.TurnCount).Msg("Level finished")
	}
	return report, nil
}

func (g *Game) enemyTurn(player rules.Events, report *TurnReport) {
	m, ok := g.searcher.ChooseMove(g.board, g.state.Boss, board.NewTarget(player.To), g.state.LastMoved[board.White.Index()])
	if ok {
		enemy := g.apply(m.From, m.To)
		report.Enemy = &enemy
		g.react(enemy, &report.Boss)
		if g.state.Terminal {
			return
		}
	} else {
		res := rules.Pass(g.board, g.state, g.resources())
		g.board = res.Board
		g.state = res.State
		report.EnemyPassed = true
		g.log.Debug().Int("reverted", len(res.Events.RevertedTiles)).Msg("Enemy passed")
		if g.state.Terminal {
			return
		}
	}

	res := g.resolver.Resolve(g.board, g.state.Boss, g.state.BossTiles, g.state.TurnCount)
	g.board = res.Board
	g.state.BossTiles = res.Tracked
	g.absorb(res.Effects, &report.Boss)
	g.evaluate()

	g.state.TurnCount++
}

// apply runs the executor and commits its result.
func (g *Game) apply(from, to board.Position) rules.Events {
	res := rules.ApplyMove(g.board, from, to, g.state, g.resources())
	g.board = res.Board
	g.state = res.State

	ev := res.Events
	for _, c := range ev.Captures {
		g.gold += c.Gold
		if c.Side == board.White {
			g.dead = append(g.dead, c.Type)
		}
	}
	for _, d := range ev.Deaths {
		if d.Side == board.White {
			g.dead = append(g.dead, d.Type)
		}
	}

	g.log.Debug().
		Str("side", ev.Side.String()).
		Str("piece", ev.Mover.String()).
		Str("from", from.String()).
		Str("to", ev.To.String()).
		Int("captures", len(ev.Captures)).
		Int("deaths", len(ev.Deaths)).
		Msg("Move applied")
	return ev
}

func (g *Game) react(ev rules.Events, into *boss.Effects) {
	kills := ev.Kills()
	if len(kills) == 0 {
		return
	}
	res := g.resolver.React(g.board, g.state.Boss, kills)
	g.board = res.Board
	g.absorb(res.Effects, into)
	g.evaluate()
}

func (g *Game) absorb(fx boss.Effects, into *boss.Effects) {
	for i := 0; i < fx.Curses; i++ {
		g.deck = append(g.deck, rules.CurseCard)
	}
	into.Merge(fx)
}

// evaluate refreshes the outcome after something other than a move changed
// the board.
func (g *Game) evaluate() {
	if g.state.Terminal {
		return
	}
	if out := rules.Evaluate(g.board, g.deck, g.hand); out != rules.OutcomeNone {
		g.state.Terminal = true
		g.state.Outcome = out
	}
}

func (g *Game) resources() rules.Resources {
	return rules.Resources{Deck: g.deck, Hand: g.hand, Midas: g.midas}
}

func (g *Game) playerPiece(from board.Position) (*board.Piece, error) {
	if !g.board.InBounds(from) {
		return nil, fmt.Errorf("%w: %s", ErrOffBoard, from)
	}
	pc := g.board.At(from)
	if pc == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmptySquare, from)
	}
	if pc.Side != board.White {
		return nil, fmt.Errorf("%w: %s", ErrNotYourPiece, from)
	}
	return pc, nil
}

// SetCards replaces the deck and hand, as reported by the card layer, and
// re-checks the exhaustion loss.
func (g *Game) SetCards(deck, hand []rules.Card) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = time.Now()
	g.deck = slices.Clone(deck)
	g.hand = slices.Clone(hand)
	g.evaluate()
}

// LastActive is when the game last received a move or card update.
func (g *Game) LastActive() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}
