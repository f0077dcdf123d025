package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"cuatrola-game/internal/database"
	"cuatrola-game/internal/game"

	log "github.com/sirupsen/logrus"
)

// NewRouter registers the websocket endpoint, the results API and the static client.
// db may be nil, in which case the results API is not served.
func NewRouter(hub *Hub, db *database.Service, staticDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", ServeWs(hub))
	if db != nil {
		HandleRoutes(mux, db)
	}
	if staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}
	return mux
}

// HandleRoutes registers the results API on mux.
func HandleRoutes(mux *http.ServeMux, db *database.Service) {
	mux.HandleFunc("GET /api/results", func(w http.ResponseWriter, r *http.Request) {
		GetResultsHandler(db, w, r)
	})
	mux.HandleFunc("GET /api/results/{id}", func(w http.ResponseWriter, r *http.Request) {
		GetResultHandler(db, w, r)
	})
	mux.HandleFunc("GET /api/results/player/{name}", func(w http.ResponseWriter, r *http.Request) {
		GetResultsByPlayerHandler(db, w, r)
	})
	mux.HandleFunc("GET /api/results/player/{name}/stats", func(w http.ResponseWriter, r *http.Request) {
		GetPlayerStatsHandler(db, w, r)
	})
	log.Println("Registered routes: /api/results, /api/results/{id}, /api/results/player/{name}[/stats]")
}

func GetResultsHandler(db *database.Service, w http.ResponseWriter, r *http.Request) {
	results, err := db.GetAll()
	if err != nil {
		log.WithError(err).Error("Failed to fetch results.")
		http.Error(w, "Failed to fetch results", http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []database.GameResult{}
	}
	writeJSON(w, results)
}

func GetResultHandler(db *database.Service, w http.ResponseWriter, r *http.Request) {
	result, err := db.GetByID(r.PathValue("id"))
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Result not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.WithError(err).Error("Failed to fetch result.")
		http.Error(w, "Failed to fetch result", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result)
}

func GetResultsByPlayerHandler(db *database.Service, w http.ResponseWriter, r *http.Request) {
	player := r.PathValue("name")
	if player == "" {
		http.Error(w, "Player name is required", http.StatusBadRequest)
		return
	}

	results, err := db.GetByPlayer(player)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "No results found for player", http.StatusNotFound)
		return
	}
	if err != nil {
		log.WithError(err).WithField("player", player).Error("Failed to fetch results.")
		http.Error(w, "Failed to fetch results", http.StatusInternalServerError)
		return
	}
	writeJSON(w, results)
}

func GetPlayerStatsHandler(db *database.Service, w http.ResponseWriter, r *http.Request) {
	stats, err := db.StatsByPlayer(r.PathValue("name"))
	if err != nil {
		log.WithError(err).Error("Failed to fetch player stats.")
		http.Error(w, "Failed to fetch stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, stats)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Failed to encode response.")
	}
}

// Recorder archives finished matches in db.
func Recorder(db *database.Service) game.RecorderFunc {
	return func(r game.MatchResult) error {
		return db.Insert(database.GameResult{
			ID:         r.ID,
			CreatedAt:  r.FinishedAt.UTC().Format(time.RFC3339),
			TableID:    r.TableID,
			Variant:    string(r.Variant),
			Player:     r.PlayerName,
			Team1Score: r.Team1Score,
			Team2Score: r.Team2Score,
			Winner:     int(r.Winner),
			Hands:      r.Hands,
		})
	}
}
