package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aruiz02/lava-rise-backend/internal/config"
	"github.com/aruiz02/lava-rise-backend/internal/httpapi"
	"github.com/aruiz02/lava-rise-backend/internal/hub"
	"github.com/aruiz02/lava-rise-backend/internal/room"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	h := hub.NewHub(ctx, room.Config{
		TickInterval:  cfg.LavaTick,
		SpeedupAfter:  cfg.LavaSpeedup,
		GameOverDelay: cfg.GameOverDelay,
	}, log)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: httpapi.SetupRoutes(h, log, cfg.AllowedOrigins),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		h.Inbox() <- hub.ShutdownHub{}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
