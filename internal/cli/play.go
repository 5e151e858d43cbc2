package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"quizdeck/internal/catalog"
	"quizdeck/internal/deck"
	"quizdeck/internal/logging"
	"quizdeck/internal/quiz"
	"quizdeck/internal/ui/play"
)

// playInput allows tests to override stdin for the player.
var playInput io.Reader = os.Stdin

// Test seams for the two player front ends.
var (
	runLivePlayer  = play.Run
	runPlainPlayer = play.RunPlain
)

// runPlay builds the handler for the play command.
func runPlay(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		configPath := flags.String("config", "", "Path to config file (default: search for .quizdeck/config.yml)")
		uiMode := flags.String("ui", "", "UI mode: auto|live|plain (default from config)")
		noColor := flags.Bool("no-color", false, "Disable colors")
		seed := flags.Uint64("seed", 0, "Shuffle seed for random decks (0 picks one)")
		if ok, code := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		if flags.NArg() != 1 {
			fmt.Fprintln(stderr, "Expected exactly one deck")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		cfg, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Config error:\n%v\n", err)
			return ExitError
		}
		mode := cfg.UI.Mode
		if strings.TrimSpace(*uiMode) != "" {
			mode = *uiMode
		}
		in := playInput
		if in == nil {
			in = os.Stdin
		}
		choice, err := resolveUIMode(mode, in, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitUsage
		}
		if choice.warning != "" {
			fmt.Fprintln(stderr, choice.warning)
		}

		logger := stderrLogger(stderr)
		defer logger.Sync()
		cat, err := openCatalog(cfg, logger)
		if err != nil {
			fmt.Fprintf(stderr, "Catalog error: %v\n", err)
			return ExitError
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		target := flags.Arg(0)
		d, prober, err := loadPlayDeck(ctx, target, cat, logger)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load deck %s: %s\n", target, describeDeckError(err))
			return ExitError
		}

		pacing := cfg.QuizPacing()
		opts := quiz.Options{Pacing: &pacing}
		if *seed != 0 {
			opts.Shuffle = rand.New(rand.NewPCG(*seed, *seed))
		}
		session := quiz.Start(d, opts)

		playerOpts := play.Options{
			NoColor: cfg.UI.NoColor || *noColor,
			Prober:  prober,
			Bell:    stderr,
		}
		if choice.live {
			session, err = runLivePlayer(ctx, session, in, stdout, playerOpts)
		} else {
			session, err = runPlainPlayer(ctx, session, in, stdout, playerOpts)
		}
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, play.ErrInputClosed):
			fmt.Fprintln(stderr, "Quiz stopped.")
			return ExitError
		case err != nil:
			fmt.Fprintf(stderr, "Player error: %v\n", err)
			return ExitError
		}
		if !session.Finished() {
			fmt.Fprintln(stderr, "Quiz stopped.")
			return ExitError
		}
		return ExitOK
	}
}

// loadPlayDeck loads a deck file, or a catalog deck when no such file exists.
// Images of a deck file resolve against the file's own directory.
func loadPlayDeck(ctx context.Context, target string, cat *catalog.Catalog, logger *logging.Logger) (deck.Deck, play.Prober, error) {
	info, err := os.Stat(target)
	if err != nil || info.IsDir() {
		d, err := cat.Deck(ctx, target)
		return d, cat, err
	}
	d, err := deck.Load(target)
	if err != nil {
		return deck.Deck{}, nil, err
	}
	return d, catalog.New(catalog.NewDirSource(filepath.Dir(target)), logger), nil
}
