package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"content-optimizer-service/internal/config"
	"content-optimizer-service/internal/service"
	httptransport "content-optimizer-service/internal/transport/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, with an embedded worker pool unless disabled",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()
	rt.logConfig("serve")

	svc := service.NewContentService(rt.store, rt.queue)
	handler := httptransport.NewHandler(svc, rt.log)
	srv := &http.Server{
		Addr: ":" + rt.cfg.Port,
		Handler: httptransport.Routes(handler, httptransport.RouterConfig{
			CORSOrigins: rt.cfg.CORSOrigins,
			Logger:      rt.log.With().Str("component", "http").Logger(),
		}),
		ReadTimeout:  rt.cfg.HTTPReadTimeout,
		WriteTimeout: rt.cfg.HTTPWriteTimeout,
		IdleTimeout:  rt.cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rt.log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// без Redis или с memory store задачи видит только этот процесс
	embedded := rt.cfg.EmbeddedWorkers || !rt.distributed() || rt.cfg.StoreDriver == config.StoreMemory
	if embedded {
		pool, err := rt.newWorkerPool()
		if err != nil {
			stop()
			_ = g.Wait()
			return err
		}
		g.Go(func() error {
			pool.Run(gctx)
			return nil
		})
		if reaper := rt.newReaper(); reaper != nil {
			g.Go(func() error {
				reaper.Run(gctx)
				return nil
			})
		}
	}

	err = g.Wait()
	rt.log.Info().Msg("server stopped")
	return err
}
