// pawndropper plays chess against you in the terminal.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/hailam/pawndropper/internal/cli"
	"github.com/hailam/pawndropper/internal/config"
	"github.com/hailam/pawndropper/internal/logging"
	"github.com/hailam/pawndropper/internal/storage"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if _, err := logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log.Debug().
		Str("cpu_side", cfg.CPUSide.String()).
		Int("depth", cfg.Depth).
		Dur("move_time", cfg.MoveTime).
		Int("tt_size_mb", cfg.TTSizeMB).
		Str("data_dir", cfg.DataDir).
		Str("config_file", cfg.ConfigFile).
		Bool("no_store", cfg.NoStore).
		Msg("loaded config")

	var store *storage.Storage
	if !cfg.NoStore {
		dbDir, err := storage.DatabaseDir(cfg.DataDir)
		if err != nil {
			log.Fatal().Err(err).Msg("creating database directory")
		}
		store, err = storage.Open(dbDir)
		if err != nil {
			log.Fatal().Err(err).Msg("opening game database")
		}
	}

	sess, err := cli.NewSession(cfg, store, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("starting session")
	}
	runErr := sess.Run()

	if store != nil {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("closing game database")
		}
	}
	if runErr != nil {
		log.Error().Err(runErr).Msg("")
		os.Exit(1)
	}
}
