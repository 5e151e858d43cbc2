package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"quizdeck/internal/config"
	"quizdeck/internal/deck"
)

// runValidate builds the handler for the validate command.
func runValidate(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		configPath := flags.String("config", "", "Path to config file (default: search for .quizdeck/config.yml)")
		strict := flags.Bool("strict", false, "Treat deck warnings as failures")
		if ok, code := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}

		if flags.NArg() == 0 {
			return validateConfig(*configPath, stdout, stderr)
		}

		code := ExitOK
		for _, path := range flags.Args() {
			d, err := deck.Load(path)
			if err != nil {
				fmt.Fprintf(stderr, "%s: %s\n", path, describeDeckError(err))
				code = ExitError
				continue
			}
			overview := deck.Summarize(d)
			printOverview(stdout, path, overview)
			if len(overview.Issues) > 0 && *strict {
				code = ExitError
			}
		}
		return code
	}
}

func validateConfig(configPath string, stdout, stderr io.Writer) int {
	resolved, err := resolveConfigPath(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Validation failed:\n%v\n", err)
		return ExitError
	}
	if resolved == "" {
		fmt.Fprintf(stderr, "Validation failed:\nno %s/%s found; run \"quizdeck init\"\n", config.ConfigDirName, config.ConfigFileName)
		return ExitError
	}
	if _, err := config.Load(resolved); err != nil {
		fmt.Fprintf(stderr, "Validation failed:\n%s\n", err.Error())
		return ExitError
	}
	fmt.Fprintln(stdout, "Config OK")
	return ExitOK
}

// describeDeckError renders a deck failure with its format issues.
func describeDeckError(err error) string {
	var formatErr *deck.FormatError
	if errors.As(err, &formatErr) {
		lines := []string{deck.ErrInvalidDeckFormat.Error()}
		for _, issue := range formatErr.Issues {
			lines = append(lines, "  - "+issue.String())
		}
		return strings.Join(lines, "\n")
	}
	return err.Error()
}

// printOverview prints the deck preview shown before a session starts.
func printOverview(w io.Writer, label string, overview deck.Overview) {
	fmt.Fprintf(w, "%s %s (%s)\n", overview.Icon, overview.Name, label)
	fmt.Fprintf(w, "  Questions: %d of %d\n", overview.ToAsk, overview.TotalSteps)
	fmt.Fprintf(w, "  Mode: %s\n", overview.ModeLabel())
	if overview.Random {
		fmt.Fprintln(w, "  Order: random")
	}
	fmt.Fprintf(w, "  Steps: %d text, %d choice, %d camera, %d with images, %d with clues\n",
		overview.TextSteps, overview.ChoiceSteps, overview.CameraSteps, overview.WithImages, overview.WithClues)
	if len(overview.Issues) == 0 {
		fmt.Fprintln(w, "  OK")
		return
	}
	fmt.Fprintf(w, "  Warnings (%d):\n", len(overview.Issues))
	for _, issue := range overview.Issues {
		fmt.Fprintf(w, "    - %s\n", issue.String())
	}
}

