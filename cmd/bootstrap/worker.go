package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"pdv-terminal/internal/pkg/config"
	"pdv-terminal/internal/usecase/commands"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Invoke(
		StartSyncWorker,
	),
)

// StartSyncWorker runs the offline-queue drain loop for the lifetime of the
// application. Each tick replays one batch; dispatch errors are logged and
// the loop keeps going.
func StartSyncWorker(lc fx.Lifecycle, sync commands.SyncCommands, cfg config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go runSyncLoop(ctx, done, sync, cfg.Terminal)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

func runSyncLoop(ctx context.Context, done chan<- struct{}, sync commands.SyncCommands, cfg config.TerminalConfig) {
	defer close(done)

	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			dispatched, err := sync.DispatchPending(ctx, cfg.SyncBatchSize)
			if err != nil {
				slog.Warn("offline queue drain failed", "error", err.Error())
				continue
			}
			if dispatched > 0 {
				slog.Info("offline sales dispatched", "count", dispatched)
			}
		}
	}
}
