package web

import (
	"net/http"
	"time"

	"github.com/justinabrahms/gambitrogue/internal/board"
	"github.com/justinabrahms/gambitrogue/internal/boss"
	"github.com/justinabrahms/gambitrogue/internal/rules"
)

// GameIndex represents a game available for spectating
type GameIndex struct {
	GameID        string              `json:"gameId"`
	Boss          boss.ID             `json:"boss"`
	Size          int                 `json:"size"`
	TurnCount     int                 `json:"turnCount"`
	Outcome       rules.Outcome       `json:"outcome"`
	CreatedAt     time.Time           `json:"createdAt"`
	LastActive    time.Time           `json:"lastActive"`
	Watchers      int                 `json:"watchers"`
	MaterialCount board.MaterialCount `json:"materialCount"`
}

// GetActiveGamesHandler returns a list of live games for spectating
func (s *Service) GetActiveGamesHandler(w http.ResponseWriter, r *http.Request) {
	includeFinished := r.URL.Query().Get("all") == "true"

	games := []GameIndex{}
	for _, g := range s.games.List() {
		v := g.View()
		if v.Terminal && !includeFinished {
			continue
		}
		games = append(games, GameIndex{
			GameID:        g.ID,
			Boss:          v.Boss,
			Size:          v.Size,
			TurnCount:     v.TurnCount,
			Outcome:       v.Outcome,
			CreatedAt:     g.CreatedAt,
			LastActive:    g.LastActive(),
			Watchers:      s.hub.Watchers(g.ID),
			MaterialCount: v.Material,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"games": games,
		"total": len(games),
	})
}
