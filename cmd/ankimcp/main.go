package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/kpauljoseph/ankimcp/internal/anki"
	"github.com/kpauljoseph/ankimcp/internal/cards"
	"github.com/kpauljoseph/ankimcp/internal/config"
	"github.com/kpauljoseph/ankimcp/internal/mcp"
	"github.com/kpauljoseph/ankimcp/pkg/logger"
	"github.com/kpauljoseph/ankimcp/pkg/version"
)

func main() {
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	debug := flag.Bool("debug", false, "enable debug mode with trace logging")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetDetailedVersionInfo())
		return
	}

	logOptions := []logger.Option{
		logger.WithPrefix("[ankimcp] "),
	}

	log := logger.New(logOptions...)
	log.SetVerbose(*verbose)

	if *debug {
		log.SetLevel(logger.LevelTrace)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: %v", err)
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		log.SetVerbose(true)
	case "trace":
		log.SetVerbose(true)
		log.SetLevel(logger.LevelTrace)
	}

	var client anki.Client
	if cfg.MockMode {
		mock := anki.NewMockClient(log)
		if cfg.MockFixtures != "" {
			if err := mock.LoadFixtures(cfg.MockFixtures); err != nil {
				log.Fatal("Error loading mock fixtures: %v", err)
			}
		}
		log.Info("Mock mode enabled, no requests will reach AnkiConnect")
		client = mock
	} else {
		client = anki.NewConnectClient(cfg.AnkiConnectURL, cfg.AnkiConnectVersion, log)
	}

	// Reachability at startup is informational only. Anki may well be
	// started after this server, so tools re-check on every call.
	ctx := context.Background()
	if apiVersion, err := anki.ProbeVersion(ctx, client); err != nil {
		log.Warn("AnkiConnect is not reachable at %s yet: %v", cfg.AnkiConnectURL, err)
	} else {
		log.Info("Connected to AnkiConnect at %s (API version %d)", cfg.AnkiConnectURL, apiVersion)
		if apiVersion < cfg.AnkiConnectVersion {
			log.Warn("AnkiConnect reports API version %d but this server speaks %d; upgrade the add-on if calls fail",
				apiVersion, cfg.AnkiConnectVersion)
		}
	}

	hydrator := cards.NewHydrator(client, log)
	sampler := cards.NewSampler(nil)
	srv := mcp.NewServer(client, hydrator, sampler, log)

	log.Info("%s serving MCP on stdio", version.GetVersionInfo())
	if err := srv.ServeStdio(); err != nil {
		log.Fatal("Server error: %v", err)
	}
}
