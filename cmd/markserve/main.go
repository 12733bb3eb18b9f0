// Copyright 2026 The Markserve Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the bookmark search engine server and CLI [DBG]
application.

Markserve ranks a personal bookmark collection against free-text queries by
blending weighted fuzzy matching, dictionary-driven query expansion and
TF-IDF similarity, and computes time-decayed importance scores used for
sorting and stale-item detection. It can operate as a MessagePack IPC server
for integration with a browser-extension host process, or as a CLI
application for testing and debugging.

The engine holds no state on disk: the caller supplies the full bookmark
snapshot over IPC and every index is rebuilt in memory from it.

# Usage

Start the server with default settings:

	markserve

Force in-process execution (no worker context) and enable debug mode:

	markserve -sync -d

Run in CLI mode for interactive testing against a snapshot file is not
supported; CLI mode serves an empty engine until an init request arrives,
so it is mostly useful with -sync and a driving script.

# Configuration

Runtime configuration is managed through a TOML file:

	[search]
	score_threshold = 0.3
	max_results = 50
	title_weight = 1.0
	url_weight = 0.8
	summary_weight = 0.6
	tag_weight = 0.4

	[frecency]
	half_life_days = 30.0
	protection_days = 7.0
	protection_floor = 30

	[host]
	timeout_ms = 10000

The config file is automatically created with defaults if it doesn't exist.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. A search request:

	{"id": "req1", "cmd": "search", "q": "python", "l": 20}

comes back ordered by tier and composite score:

	{"id": "req1", "res": [{"bid": "b1", "title": "Python Tutorial", "score": 0.83, "tier": 1}], "c": 1, "t": 2}

See the server package docs for the full command set.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/markserve/markserve/internal/cli"
	"github.com/markserve/markserve/pkg/config"
	"github.com/markserve/markserve/pkg/engine"
	"github.com/markserve/markserve/pkg/server"
)

const (
	Version = "0.3.0-beta"
	AppName = "markserve"
	gh      = "https://github.com/markserve/markserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	// custom Flags
	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	configPath := flag.String("config", "", "Path to a config.toml (default: user config dir)")
	syncMode := flag.Bool("sync", false, "Run the engine in-process instead of the worker context")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of results to return in CLI mode")

	flag.Parse()

	if *showVersion {
		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    false,
			ReportTimestamp: false,
			Prefix:          "",
		})

		styles := log.DefaultStyles()

		styles.Values["version"] = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		styles.Values["version"] = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})

		styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

		logger.SetStyles(styles)

		logger.Print("")
		logger.Print("[ Markserve ] Serves really fast bookmark search!")
		logger.Print("", "version", Version)
		logger.Print("")
		logger.Print("use -h or --help to see available options")
		logger.Print("Github Repo", "gh", gh)

		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}
	if *syncMode {
		appConfig.Host.Sync = true
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	eng := engine.New(appConfig)
	defer eng.Close()

	// CLI would be mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"minQuery", appConfig.Server.MinQuery,
			"maxQuery", appConfig.Server.MaxQuery,
			"limit", *limit)

		inputHandler := cli.NewInputHandler(eng, appConfig.Server.MinQuery, appConfig.Server.MaxQuery, *limit)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
			os.Exit(1)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(eng, appConfig)

	showStartupInfo(*syncMode)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(syncMode bool) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	mode := "worker"
	if syncMode {
		mode = "sync"
	}

	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, " Markserve ")
	fmt.Fprintln(os.Stderr, "===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("execution mode: ( %s )", mode)
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
