/*
Package main implements the suggestd server and commandline interface.

suggestd answers autocomplete-style suggestion queries (city/POI search
with parent/child attribute expansion) over a MessagePack IPC channel on
stdin/stdout, or interactively from a terminal in debug CLI mode.

# Server Mode

The default mode loads every falcon, retrieval algorithm, deduper and
twiddler named in config.toml, wires them into a manager.Manager and a
pipeline.Pipeline, and serves requests from pkg/server until stdin closes.

# CLI Mode

The -c flag runs an interactive debug shell instead: each line you type is
run through the same pipeline in debug mode and printed with score/algo/
debug-info columns.

# Config

Runtime configuration is managed via a config.toml file, covering the IPC
edge, the manager's component names, logging level, and a JSON blob per
named falcon/algo/twiddle. A default configuration is created
automatically if one does not exist.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/room77/suggestd/internal/bootstrap"
	"github.com/room77/suggestd/internal/cli"
	"github.com/room77/suggestd/pkg/config"
	"github.com/room77/suggestd/pkg/pipeline"
	"github.com/room77/suggestd/pkg/server"
	"github.com/room77/suggestd/pkg/suggest"
)

const (
	Version = "0.1.0-beta"
	AppName = "suggestd"
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

	configFile := flag.String("config", "config.toml", "Path to config.toml file")
	debugMode := flag.Bool("v", false, "Toggle verbose mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	minPrefix := flag.Int("min", 0, "Minimum query length for the debug CLI")
	noFilter := flag.Bool("no-filter", false, "Disable input filtering in the debug CLI")
	mobile := flag.Bool("mobile", false, "Attribute debug CLI queries to a mobile channel")

	flag.Parse()

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cfg, err := config.InitConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
		os.Exit(1)
	}
	if cfg.Logging.Level != "" {
		if level, err := log.ParseLevel(cfg.Logging.Level); err == nil {
			log.SetLevel(level)
		}
	}

	m, _, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("failed to wire manager: %v", err)
		os.Exit(1)
	}

	p := pipeline.New(m, pipeline.Config{
		DefaultWebSuggestions: cfg.Server.DefaultNumSuggestions,
	})

	if *cliMode {
		log.SetReportTimestamp(false)
		channel := suggest.ChannelDesktopWeb
		if *mobile {
			channel = suggest.ChannelMobileWeb
		}
		handler := cli.NewInputHandler(p, channel, *minPrefix, *noFilter)
		if err := handler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
			os.Exit(1)
		}
		return
	}

	showStartupInfo()
	srv := server.NewServer(p)
	if err := srv.Start(); err != nil {
		log.Fatalf("server error: %v", err)
		os.Exit(1)
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo() {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("===========")
	println(" suggestd ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
