package main

import (
	"net/http"

	"cuatrola-game/internal/config"
	"cuatrola-game/internal/database"
	"cuatrola-game/internal/game"
	"cuatrola-game/internal/server"

	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	cfg.ConfigureLogging()
	log.Println("Starting Cuatrola server...")

	db, err := database.New(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to open results archive: %v", err)
	}
	defer db.Close()

	var recorder game.ResultRecorder = server.Recorder(db)
	hub := server.NewHub(recorder, cfg.CuatrolaTarget)
	go hub.Run()

	mux := server.NewRouter(hub, db, cfg.StaticDir)
	log.WithField("addr", cfg.Addr()).Info("Listening.")
	log.Fatal(http.ListenAndServe(cfg.Addr(), mux))
}
