package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

func main() {
	mode := flag.String("mode", "server", "server or cli")
	color := flag.String("color", "", "cli: your color, 1 (Black) or 2 (White)")
	rule := flag.String("rule", "", "opening rule, Pro or Standard")
	players := flag.String("players", "", "cli: 1 (1 vs 1), 2 (1 vs Bot) or 3 (Bot vs Bot)")
	flag.Parse()

	ruleSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "rule" {
			ruleSet = true
		}
	})

	cfg := ConfigFromEnv(DefaultConfig())
	if ruleSet {
		cfg.OpeningRule = NewOpeningRule(*rule).Name()
	}
	configStore.Update(cfg)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	var err error
	switch *mode {
	case "cli":
		err = runConsole(sigCtx, os.Stdin, os.Stdout, consoleOptions{
			Color:     *color,
			Rule:      *rule,
			RuleSet:   ruleSet,
			Players:   *players,
			TurnDelay: time.Duration(cfg.TurnDelayMs) * time.Millisecond,
		})
	case "server":
		err = runServer(sigCtx, cfg)
	default:
		log.Printf("[backend] unknown mode %q", *mode)
		os.Exit(2)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("[backend] exiting: %v", err)
		os.Exit(1)
	}
}

func runServer(sigCtx context.Context, cfg Config) error {
	archive := NewArchive(cfg.ArchivePath)
	if err := archive.Load(); err != nil {
		log.Printf("[archive] %v; starting with an empty archive", err)
	}
	var persistOnce sync.Once
	persistOnShutdown := func(reason string) {
		persistOnce.Do(func() {
			if !archive.Enabled() {
				return
			}
			log.Printf("[backend] persisting archive on %s", reason)
			if err := archive.Save(); err != nil {
				log.Printf("[archive] persist failed: %v", err)
			}
		})
	}
	defer persistOnShutdown("exit")

	controller := NewGameController(DefaultGameSettings(), archive)
	hub := NewHub()
	hintHub := NewHintHub()
	srv := &server{controller: controller, hub: hub, hintHub: hintHub, archive: archive}
	controller.OnAborted(func(err error) {
		log.Printf("[backend] game %s aborted: %v", controller.GameID(), err)
		hub.PublishStatus(controllerStatus(controller))
	})
	controller.OnFinished(func(record GameRecord) {
		log.Printf("[backend] archived game %s: %s after %d moves (%d stored)",
			record.ID, record.Status, len(record.Moves), archive.Count())
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx.Done())
	go hintHub.Run(ctx.Done())
	go srv.runTicker(ctx, time.Duration(cfg.TickIntervalMs)*time.Millisecond)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: newRouter(srv),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	log.Printf("[backend] listening on %s", cfg.ListenAddr)
	var runErr error
	select {
	case <-sigCtx.Done():
		log.Printf("[backend] shutdown signal received: %v", sigCtx.Err())
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			log.Printf("[backend] server error: %v", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[backend] graceful shutdown failed: %v", err)
		if closeErr := httpServer.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			log.Printf("[backend] forced close failed: %v", closeErr)
		}
	}

	cancel()
	persistOnShutdown("shutdown")
	return runErr
}

// runTicker advances the game and pushes every committed move and every new
// hint to the websocket hubs.
func (s *server) runTicker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	lastHintKey := -1
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.controller.Tick() {
				s.publishMove()
			}
			if !GetConfig().HintsEnabled || !s.hintHub.HasClients() {
				continue
			}
			hint := hintFromController(s.controller)
			if hint.HistoryLen == lastHintKey {
				continue
			}
			lastHintKey = hint.HistoryLen
			s.hintHub.Publish(hint)
		}
	}
}
