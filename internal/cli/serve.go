package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"delivery-ops/internal/jobs"
	"delivery-ops/internal/logger"
	"delivery-ops/internal/metrics"
	"delivery-ops/internal/server"
	"delivery-ops/internal/store"
	"delivery-ops/pkg/mailer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the lateness watch",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.New(cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, closePersister, err := openPersister(ctx, cfg)
	if err != nil {
		log.Error("failed to open snapshot storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
		return err
	}
	defer closePersister()

	initial, seeded, err := store.Restore(ctx, p, time.Now())
	if err != nil {
		log.Error("failed to restore state", zap.Error(err))
		return err
	}

	policy := store.PolicyAdvisory
	if cfg.Pipeline.Enforce {
		policy = store.PolicyStrict
	}
	st := store.New(initial, store.WithPolicy(policy), store.WithETA(cfg.Pipeline.ETA))
	st.Subscribe(store.AutoSave(p, log, metrics.SaveFailed))
	st.Subscribe(store.AuditLog(log))
	st.Subscribe(metrics.Recorder())
	metrics.ObserveStatuses(st.Snapshot())

	if seeded {
		log.Info("no stored snapshot, starting from seed data", zap.String("backend", cfg.Storage.Backend))
		if err := store.Save(ctx, p, st.Snapshot()); err != nil {
			log.Warn("failed to store seed snapshot", zap.Error(err))
		}
	}

	var mail mailer.ServiceInterface
	if cfg.Mail.Enabled {
		ses, err := mailer.NewSESService(ctx, cfg.Mail.Region, cfg.Mail.Sender)
		if err != nil {
			log.Warn("report mail unavailable, continuing without it", zap.Error(err))
		} else {
			mail = ses
		}
	}

	srv, err := server.New(cfg, log, st, mail)
	if err != nil {
		return err
	}
	watch := jobs.NewLatenessWatch(st, cfg.Pipeline.AtRiskWindow, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		return watch.Run(gctx, cfg.Jobs.LatenessInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		return err
	}
	log.Info("server exited properly")
	return nil
}
