package cli

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// playerChoice records which front end plays a deck.
type playerChoice struct {
	live    bool
	warning string
}

// isTerminal reports whether a stream is attached to a TTY.
var isTerminal = streamIsTerminal

// resolveUIMode picks the live player only when both the answers and the
// screen are terminals.
func resolveUIMode(mode string, in io.Reader, out io.Writer) (playerChoice, error) {
	interactive := isTerminal(in) && isTerminal(out)
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return playerChoice{live: interactive}, nil
	case "live":
		if interactive {
			return playerChoice{live: true}, nil
		}
		return playerChoice{
			warning: "Live player needs a terminal for input and output; using plain prompts.",
		}, nil
	case "plain":
		return playerChoice{}, nil
	default:
		return playerChoice{}, fmt.Errorf("invalid ui mode %q (expected auto|live|plain)", mode)
	}
}

// streamIsTerminal checks streams that expose a file descriptor.
func streamIsTerminal(stream any) bool {
	fder, ok := stream.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(fder.Fd()))
}
