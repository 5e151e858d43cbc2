package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"quizdeck/internal/logging"
	"quizdeck/internal/server"
)

// serveAPI is a test seam for running the HTTP server.
var serveAPI = server.Serve

// runServe builds the handler for the serve command.
func runServe(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		configPath := flags.String("config", "", "Path to config file (default: search for .quizdeck/config.yml)")
		addr := flags.String("addr", "", "Address to listen on (default from config)")
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
		if strings.TrimSpace(*addr) != "" {
			cfg.Server.Addr = strings.TrimSpace(*addr)
		}

		logger, err := logging.New(cfg.Log.Mode)
		if err != nil {
			fmt.Fprintf(stderr, "Logger error: %v\n", err)
			return ExitError
		}
		defer logger.Sync()
		cat, err := openCatalog(cfg, logger)
		if err != nil {
			fmt.Fprintf(stderr, "Catalog error: %v\n", err)
			return ExitError
		}

		pacing := cfg.QuizPacing()
		serverCfg := server.Config{
			Addr:           cfg.Server.Addr,
			Catalog:        cat,
			Logger:         logger,
			Pacing:         &pacing,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			SessionTTL:     cfg.Server.SessionTTL,
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(stdout, "Serving quizdeck at http://%s\n", serverCfg.Addr)
		if err := serveAPI(ctx, serverCfg); err != nil {
			fmt.Fprintf(stderr, "Server error: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}
