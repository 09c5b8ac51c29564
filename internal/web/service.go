package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/justinabrahms/gambitrogue/internal/auth"
	"github.com/justinabrahms/gambitrogue/internal/board"
	"github.com/justinabrahms/gambitrogue/internal/boss"
	"github.com/justinabrahms/gambitrogue/internal/config"
	"github.com/justinabrahms/gambitrogue/internal/level"
	"github.com/justinabrahms/gambitrogue/internal/rules"
	"github.com/justinabrahms/gambitrogue/internal/session"
)

type Service struct {
	games  *session.Registry
	config *config.Config
	issuer *auth.Issuer
	hub    *Hub
	// after schedules the delayed enemy broadcast; swapped in tests
	after func(time.Duration, func())
}

func NewService(games *session.Registry, cfg *config.Config, issuer *auth.Issuer, hub *Hub) *Service {
	return &Service{
		games:  games,
		config: cfg,
		issuer: issuer,
		hub:    hub,
		after: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// NewRouter wires the API and WebSocket routes behind the CORS middleware.
func NewRouter(s *Service) *mux.Router {
	router := mux.NewRouter()

	// Add CORS middleware
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.HealthHandler).Methods("GET")
	api.HandleFunc("/games", s.CreateGameHandler).Methods("POST")
	api.HandleFunc("/games", s.GetActiveGamesHandler).Methods("GET")
	api.HandleFunc("/games/{id}", s.GetGameHandler).Methods("GET")
	api.HandleFunc("/games/{id}/moves", s.LegalMovesHandler).Methods("GET")
	api.HandleFunc("/games/{id}/moves", s.MakeMoveHandler).Methods("POST")
	api.HandleFunc("/games/{id}/cards", s.SetCardsHandler).Methods("PUT")
	// mux only runs middleware on matched routes, so preflights need a match
	api.PathPrefix("/").Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	router.HandleFunc("/ws", s.WebSocketHandler)
	return router
}

func (s *Service) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"games":  s.games.Len(),
	})
}

type CreateGameRequest struct {
	Boss    string       `json:"boss"`
	Size    int          `json:"size"`
	FEN     string       `json:"fen,omitempty"`
	Seed    int64        `json:"seed"`
	Terrain *bool        `json:"terrain,omitempty"`
	Midas   *bool        `json:"midas,omitempty"`
	Deck    []rules.Card `json:"deck"`
	Hand    []rules.Card `json:"hand"`
}

type CreateGameResponse struct {
	Token string       `json:"token"`
	Game  session.View `json:"game"`
}

// options fills the request's gaps from the engine config.
func (req CreateGameRequest) options(engine config.EngineConfig) (session.Options, error) {
	name := req.Boss
	if name == "" {
		name = engine.Boss
	}
	id, err := boss.ParseID(name)
	if err != nil {
		return session.Options{}, err
	}

	opts := session.Options{
		Size:        req.Size,
		Boss:        id,
		Seed:        req.Seed,
		SearchDepth: engine.SearchDepth,
		Terrain:     engine.Terrain,
		Midas:       engine.Midas,
		Deck:        req.Deck,
		Hand:        req.Hand,
	}
	if req.FEN != "" {
		b, err := level.FromFEN(req.FEN)
		if err != nil {
			return session.Options{}, err
		}
		opts.Board = b
		opts.Size = b.Size()
	}
	if opts.Size == 0 {
		opts.Size = engine.BoardSize
	}
	if opts.Size < board.MinSize || opts.Size > board.MaxSize {
		return session.Options{}, errors.New("board size out of range")
	}
	if opts.Seed == 0 {
		opts.Seed = engine.Seed
	}
	if req.Terrain != nil {
		opts.Terrain = *req.Terrain
	}
	if req.Midas != nil {
		opts.Midas = *req.Midas
	}
	return opts, nil
}

func (s *Service) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	opts, err := req.options(s.config.Engine)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	game, err := s.games.Create(opts)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create game")
		http.Error(w, "Failed to create game", http.StatusInternalServerError)
		return
	}

	token, err := s.issuer.Issue(game.ID)
	if err != nil {
		log.Error().Err(err).Str("gameID", game.ID).Msg("Failed to issue token")
		s.games.Remove(game.ID)
		http.Error(w, "Failed to create game", http.StatusInternalServerError)
		return
	}

	log.Info().Str("gameID", game.ID).Str("boss", opts.Boss.String()).Int("size", opts.Size).Msg("Game created")
	writeJSON(w, http.StatusCreated, CreateGameResponse{Token: token, Game: game.View()})
}

func (s *Service) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	game, err := s.games.Get(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game.View())
}

func (s *Service) LegalMovesHandler(w http.ResponseWriter, r *http.Request) {
	game, err := s.games.Get(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}

	q := r.URL.Query()
	row, rowErr := strconv.Atoi(q.Get("row"))
	col, colErr := strconv.Atoi(q.Get("col"))
	if rowErr != nil || colErr != nil {
		http.Error(w, "row and col are required integers", http.StatusBadRequest)
		return
	}

	from := board.Position{Row: row, Col: col}
	moves, err := game.LegalMoves(from)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if moves == nil {
		moves = []board.Position{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"from":  from,
		"moves": moves,
	})
}

type MakeMoveRequest struct {
	From board.Position `json:"from"`
	To   board.Position `json:"to"`
}

type MakeMoveResponse struct {
	Report *session.TurnReport `json:"report"`
	Game   session.View        `json:"game"`
}

func (s *Service) MakeMoveHandler(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	if _, err := s.issuer.Authorize(r, gameID); err != nil {
		s.writeError(w, err)
		return
	}
	game, err := s.games.Get(gameID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req MakeMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	report, err := game.Move(req.From, req.To)
	if err != nil {
		log.Debug().Err(err).Str("gameID", gameID).Str("from", req.From.String()).Str("to", req.To.String()).Msg("Move rejected")
		s.writeError(w, err)
		return
	}

	view := game.View()
	log.Info().
		Str("gameID", gameID).
		Str("from", req.From.String()).
		Str("to", req.To.String()).
		Int("turn", report.TurnCount).
		Str("outcome", report.Outcome.String()).
		Msg("Move executed successfully")

	s.publish(gameID, report, view)
	writeJSON(w, http.StatusOK, MakeMoveResponse{Report: report, Game: view})
}

// publish pushes the player's move at once and the enemy reply after the
// configured delay, so watchers see the two halves of the turn apart.
func (s *Service) publish(gameID string, report *session.TurnReport, view session.View) {
	s.hub.BroadcastGameUpdate(GameUpdate{GameID: gameID, Type: UpdatePlayerMove, Data: report.Player})

	s.after(s.config.Engine.AIDelay(), func() {
		if report.Enemy != nil || report.EnemyPassed || !report.Boss.Empty() {
			s.hub.BroadcastGameUpdate(GameUpdate{GameID: gameID, Type: UpdateEnemyMove, Data: report})
		}
		s.hub.BroadcastGameUpdate(GameUpdate{GameID: gameID, Type: UpdateState, Data: view})
		if view.Terminal {
			s.hub.BroadcastGameUpdate(GameUpdate{GameID: gameID, Type: UpdateGameEnd, Data: view.Outcome})
		}
	})
}

type SetCardsRequest struct {
	Deck []rules.Card `json:"deck"`
	Hand []rules.Card `json:"hand"`
}

// SetCardsHandler takes the card layer's deck and hand so the exhaustion
// loss can be judged.
func (s *Service) SetCardsHandler(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	if _, err := s.issuer.Authorize(r, gameID); err != nil {
		s.writeError(w, err)
		return
	}
	game, err := s.games.Get(gameID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req SetCardsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	game.SetCards(req.Deck, req.Hand)
	view := game.View()
	if view.Terminal {
		s.hub.BroadcastGameUpdate(GameUpdate{GameID: gameID, Type: UpdateGameEnd, Data: view.Outcome})
	}
	writeJSON(w, http.StatusOK, view)
}

// writeError maps domain errors onto status codes.
func (s *Service) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrUnknownGame):
		status = http.StatusNotFound
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, auth.ErrWrongGame), errors.Is(err, session.ErrNotYourPiece):
		status = http.StatusForbidden
	case errors.Is(err, session.ErrGameOver):
		status = http.StatusConflict
	case errors.Is(err, session.ErrIllegalMove),
		errors.Is(err, session.ErrEmptySquare),
		errors.Is(err, session.ErrOffBoard):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed")
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
