package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordscramble/internal/config"
	"github.com/robalobadob/wordscramble/internal/db"
	"github.com/robalobadob/wordscramble/internal/httpserver"
	"github.com/robalobadob/wordscramble/internal/store"
	"github.com/robalobadob/wordscramble/internal/words"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Production() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// No root words means no game: refuse to start rather than fall back.
	wl, err := words.Load(cfg.Words())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}
	if err := wl.Dictionary().Require(cfg.Language); err != nil {
		log.Fatal().Err(err).Msg("no dictionary for configured language")
	}
	cands, dict := wl.Stats()
	log.Info().Int("candidates", cands).Int("dictionary", dict).Str("language", cfg.Language).Msg("word lists loaded")

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer conn.Close()
	if err := db.Migrate(conn); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	srv := httpserver.New(cfg, store.NewMemoryStore(), wl, conn)
	log.Info().Str("port", cfg.Port).Msg("starting wordscramble server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
