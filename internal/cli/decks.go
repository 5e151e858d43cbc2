package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"quizdeck/internal/deck"
)

// runDecks builds the handler for the decks command.
func runDecks(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		configPath := flags.String("config", "", "Path to config file (default: search for .quizdeck/config.yml)")
		if ok, code := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		if flags.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(flags.Args(), " "))
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		cfg, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Config error:\n%v\n", err)
			return ExitError
		}
		logger := stderrLogger(stderr)
		defer logger.Sync()
		cat, err := openCatalog(cfg, logger)
		if err != nil {
			fmt.Fprintf(stderr, "Catalog error: %v\n", err)
			return ExitError
		}
		entries, err := cat.List(context.Background())
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load decks: %v\n", err)
			return ExitError
		}
		if len(entries) == 0 {
			fmt.Fprintln(stdout, "No decks in catalog.")
			return ExitOK
		}
		for _, entry := range entries {
			overview := deck.Summarize(entry.Deck)
			fmt.Fprintf(stdout, "%s  %-24s %2d questions  %-13s %s\n",
				entry.Icon, entry.Name, overview.ToAsk, overview.ModeLabel(), entry.File)
		}
		return ExitOK
	}
}
