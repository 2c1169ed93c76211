package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lab1702/arena-bots/server"
	"github.com/lab1702/arena-bots/store"
	"github.com/lab1702/arena-bots/tuning"
)

func main() {
	port := flag.String("port", "8080", "Server port")
	mapName := flag.String("map", "yard", "Arena map ("+strings.Join(server.MapNames(), ", ")+")")
	mode := flag.String("mode", server.ModeDeathmatch, "Game mode (deathmatch, hold)")
	bots := flag.Int("bots", 4, "Bots added at start")
	teamPlay := flag.Bool("teamplay", false, "Bots assist human teammates")
	tuningPath := flag.String("tuning", "", "Bot tuning YAML file (compiled-in defaults when empty)")
	storePath := flag.String("store", "", "Waypoint store: a directory, or a .sqlite/.db file")
	level := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	debug := flag.Bool("debug", false, "Trace bot decisions at debug level")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "arena",
	})
	lvl, err := log.ParseLevel(*level)
	if err != nil {
		logger.Fatal("bad log level", "level", *level, "err", err)
	}
	logger.SetLevel(lvl)
	if *debug {
		logger.SetLevel(log.DebugLevel)
	}

	t := tuning.Default()
	if *tuningPath != "" {
		if t, err = tuning.Load(*tuningPath); err != nil {
			logger.Fatal("load tuning", "err", err)
		}
	}

	var st store.Store
	if *storePath != "" {
		if st, err = openStore(*storePath); err != nil {
			logger.Fatal("open waypoint store", "path", *storePath, "err", err)
		}
		defer st.Close()
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	gameServer, err := server.NewServer(ctx, server.Config{
		Map:      *mapName,
		Mode:     *mode,
		Bots:     *bots,
		TeamPlay: *teamPlay,
		Debug:    *debug,
		Tuning:   t,
		Store:    st,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal("create server", "err", err)
	}
	go gameServer.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gameServer.HandleWebSocket)
	mux.HandleFunc("/api/bots", gameServer.HandleBots)
	mux.HandleFunc("/api/scores", gameServer.HandleScores)
	mux.HandleFunc("/health", server.HandleHealth)

	srv := &http.Server{
		Addr:         ":" + *port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server running", "url", "http://localhost:"+*port, "map", *mapName, "mode", *mode)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", "err", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	gameServer.Shutdown()
	stop()

	if st != nil {
		if err := gameServer.SaveWaypoints(shutdownCtx); err != nil {
			logger.Error("save waypoints", "err", err)
		}
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "err", err)
	}

	logger.Info("server stopped")
}

// openStore picks the backend from the path: sqlite for .sqlite and .db
// files, a directory of compressed files otherwise.
func openStore(path string) (store.Store, error) {
	if strings.HasSuffix(path, ".sqlite") || strings.HasSuffix(path, ".db") {
		return store.OpenSQLite(path)
	}
	return store.OpenDir(path)
}
