// Serve command runs the HTTP API for the desktop shell.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/modulo/internal/httpapi"
	"github.com/mesh-intelligence/modulo/internal/prefs"
	"github.com/mesh-intelligence/modulo/internal/recovery"
	"github.com/mesh-intelligence/modulo/internal/reminder"
	"github.com/mesh-intelligence/modulo/pkg/types"
)

// shutdownGrace bounds how long in-flight requests may run after a
// termination signal.
const shutdownGrace = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the board service HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		backend, err := attachBackend()
		if err != nil {
			sysExit("serve", err)
		}
		defer backend.Detach()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		scheduler := reminder.NewScheduler(reminder.NewLogNotifier(logger), logger)
		defer scheduler.Stop()
		rescheduleReminders(ctx, backend, scheduler, logger)

		e := httpapi.New(httpapi.Deps{
			Store:     backend,
			Prefs:     prefs.NewStore(runtimeConfig.DataDir, logger),
			Recovery:  recovery.NewStore(runtimeConfig.DataDir, logger),
			Reminders: scheduler,
			Logger:    logger,
		})

		errCh := make(chan error, 1)
		go func() {
			errCh <- e.Start(runtimeConfig.HTTPAddr)
		}()
		logger.WithField("addr", runtimeConfig.HTTPAddr).Info("serving")

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				sysExit("serve", err)
			}
		case <-ctx.Done():
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			if err := e.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("shutdown incomplete")
			}
		}

		logger.Info("stopped")
		return nil
	},
}

// rescheduleReminders re-arms a timer for every stored reminder that is
// still pending. Failures log and skip; a bad timestamp on one card must
// not keep the server from starting.
func rescheduleReminders(ctx context.Context, store types.Store, scheduler *reminder.Scheduler, logger *log.Logger) {
	pending, err := store.PendingReminders(ctx)
	if err != nil {
		logger.WithError(err).Warn("could not load pending reminders")
		return
	}
	for _, p := range pending {
		if err := scheduler.Schedule(p.CardID, p.RemindAt); err != nil {
			logger.WithError(err).WithField("card_id", p.CardID).Warn("skipping reminder")
		}
	}
	if len(pending) > 0 {
		logger.WithField("count", len(pending)).Info("rescheduled reminders")
	}
}
