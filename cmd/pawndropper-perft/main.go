// pawndropper-perft counts move-generation leaves, rebuilds the magic
// tables from a seed, or times a fixed-depth search.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/hailam/pawndropper/internal/board"
	"github.com/hailam/pawndropper/internal/engine"
	"github.com/hailam/pawndropper/internal/logging"
)

func main() {
	fs := pflag.NewFlagSet("pawndropper-perft", pflag.ContinueOnError)
	fen := fs.String("fen", board.StartFEN, "position to examine")
	depth := fs.Int("depth", 5, "perft or search depth")
	divide := fs.Bool("divide", false, "print the count below each root move")
	magics := fs.Bool("magics", false, "build and verify magic tables instead of running perft")
	seed := fs.Uint64("magic-seed", board.DefaultMagicSeed, "seed for the magic candidate stream")
	trials := fs.Int("magic-trials", board.DefaultMagicTrials, "candidates tried per square before giving up")
	search := fs.Bool("search", false, "time a search to --depth instead of running perft")
	tt := fs.Int("tt-size-mb", 0, "transposition table size for --search (0 disables it)")
	debug := fs.Bool("debug", false, "debug logging and move generator assertions")

	err := fs.Parse(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
		board.DebugAssertions = true
	}
	if _, err := logging.Setup(os.Stderr, level, logging.FormatConsole); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if *magics {
		runMagics(*seed, *trials)
		return
	}

	pos, err := board.ParseFEN(*fen)
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}
	if *search {
		runSearch(pos, *depth, *tt)
		return
	}
	runPerft(pos, *depth, *divide)
}

func runMagics(seed uint64, trials int) {
	start := time.Now()
	t, err := board.BuildTables(seed, trials)
	if err != nil {
		log.Fatal().Err(err).Uint64("seed", seed).Msg("building magic tables")
	}
	built := time.Since(start)
	if err := t.Verify(); err != nil {
		log.Fatal().Err(err).Msg("verifying magic tables")
	}

	size := 0
	for sq := board.A1; sq <= board.H8; sq++ {
		size += len(t.Rook[sq].Attacks) + len(t.Bishop[sq].Attacks)
	}
	fmt.Printf("seed %#x: %d candidates, %d table entries, built in %s, verified\n",
		seed, t.Trials, size, built.Round(time.Millisecond))
}

func runPerft(pos *board.Position, depth int, divide bool) {
	start := time.Now()
	var nodes uint64
	if divide {
		for _, e := range pos.Divide(depth) {
			fmt.Printf("%s: %d\n", e.Move, e.Nodes)
			nodes += e.Nodes
		}
		fmt.Println()
	} else {
		nodes = pos.Perft(depth)
	}
	elapsed := time.Since(start)
	fmt.Printf("perft(%d) = %d\n", depth, nodes)
	log.Info().
		Dur("elapsed", elapsed).
		Float64("mnps", float64(nodes)/elapsed.Seconds()/1e6).
		Msg("perft")
}

func runSearch(pos *board.Position, depth, ttSizeMB int) {
	eng := engine.NewEngine(engine.Options{UseTT: ttSizeMB > 0, TTSizeMB: ttSizeMB})
	eng.OnInfo = func(info engine.SearchInfo) {
		fmt.Printf("depth %d score %s nodes %d time %s pv %s\n",
			info.Depth, engine.ScoreToString(info.Score), info.Nodes,
			info.Time.Round(time.Millisecond), engine.FormatPV(info.PV))
	}
	r := eng.Search(pos, engine.Limits{Depth: depth})
	if r.Move == board.NoMove {
		fmt.Printf("no legal moves: %s\n", r.Status)
		return
	}
	fmt.Printf("bestmove %s (%s)\n", r.Move, r.Move.SAN(pos))
}
