package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"content-optimizer-service/internal/config"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run a standalone worker pool fed by the Redis queue",
	Args:  cobra.NoArgs,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	if !rt.distributed() {
		return fmt.Errorf("worker needs REDIS_ADDR: the in-process queue only serves `optimizer serve`")
	}
	if rt.cfg.StoreDriver == config.StoreMemory {
		return fmt.Errorf("worker needs a shared store: set POSTGRES_DSN or MONGO_URL")
	}
	rt.logConfig("worker")

	pool, err := rt.newWorkerPool()
	if err != nil {
		return err
	}

	// Reaper: периодически возвращает jobs из processing обратно в queue
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rt.newReaper().Run(gctx)
		return nil
	})
	g.Go(func() error {
		pool.Run(gctx)
		return nil
	})

	err = g.Wait()
	rt.log.Info().Msg("worker stopped")
	return err
}
