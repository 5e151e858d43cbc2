package cli

import (
	"bytes"
	"strings"
	"testing"
)

// TestRootHelpListsCommands verifies --help prints every command.
func TestRootHelpListsCommands(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := Run([]string{"--help"}, &out, &errOut); code != ExitOK {
		t.Fatalf("expected exit %d, got %d", ExitOK, code)
	}
	if errOut.Len() != 0 {
		t.Fatalf("expected no stderr output, got %q", errOut.String())
	}
	output := out.String()
	if !strings.Contains(output, "quizdeck <command>") {
		t.Fatalf("expected usage header, got %q", output)
	}
	for _, name := range []string{"init", "validate", "decks", "play", "serve"} {
		if findCommand(name) == nil {
			t.Fatalf("command %q is not registered", name)
		}
		if !strings.Contains(output, name) {
			t.Fatalf("expected command %q in output", name)
		}
	}
}

// TestNoArgsShowsUsage exits with a usage error.
func TestNoArgsShowsUsage(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := Run(nil, &out, &errOut); code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if !strings.Contains(out.String(), "Usage:") {
		t.Fatalf("expected usage output, got %q", out.String())
	}
}

// TestUnknownCommand reports the name on stderr.
func TestUnknownCommand(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := Run([]string{"quiz"}, &out, &errOut); code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no stdout output, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "Unknown command: quiz") {
		t.Fatalf("expected unknown command error, got %q", errOut.String())
	}
}

// TestCommandHelp prints each command's usage lines.
func TestCommandHelp(t *testing.T) {
	for _, cmd := range commands {
		var out, errOut bytes.Buffer
		if code := Run([]string{cmd.Name, "-h"}, &out, &errOut); code != ExitOK {
			t.Fatalf("%s: expected exit %d, got %d", cmd.Name, ExitOK, code)
		}
		for _, line := range cmd.Usage {
			if !strings.Contains(out.String(), line) {
				t.Fatalf("%s: expected usage line %q in %q", cmd.Name, line, out.String())
			}
		}
	}
}
