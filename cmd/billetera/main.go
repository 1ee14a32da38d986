package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"billetera/internal/backend"
	"billetera/internal/cli"
	"billetera/internal/config"
	"billetera/internal/core"
	apphttp "billetera/internal/http"
	"billetera/internal/ledger"
	"billetera/internal/log"
	"billetera/internal/worker"
)

func main() {
	cfg, logger := cli.Bootstrap(log.ComponentApp)
	cli.MustValidate(cfg, logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(cfg *config.Config, logger *log.Logger) error {
	ctx, stop := cli.SignalContext()
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	journal, err := backend.NewFactory(logger).CreateJournal(ctx, backendCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := journal.Close(); err != nil {
			logger.Warn("Journal cleanup failed", log.FieldError, err)
		}
	}()

	balance, err := cfg.Balance()
	if err != nil {
		return fmt.Errorf("initial balance: %w", err)
	}
	matcher, err := ledger.GetMatcher(cfg.AutomationMatcher)
	if err != nil {
		return err
	}
	opts := []ledger.Option{
		ledger.WithLogger(logger),
		ledger.WithInitialBalance(balance),
		ledger.WithProfile(profileFrom(cfg)),
		ledger.WithMatcher(matcher),
	}

	// The dispatcher outlives the HTTP server so requests still in flight at
	// shutdown get their events journaled.
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	defer stopDispatch()

	var dispatcher *worker.Dispatcher
	if journal.Sink != nil {
		dispatcher = worker.NewDispatcher(journal.Sink, worker.DispatcherConfig{
			BufferSize:    cfg.JournalBuffer,
			BatchSize:     cfg.JournalBatchSize,
			FlushInterval: cfg.JournalFlushInterval,
		}, logger)
		opts = append(opts, ledger.WithSink(dispatcher))
	}

	store := ledger.New(opts...)
	srv := apphttp.NewServer(":"+cfg.Port, store, journal.Reader, cfg.ActivityCacheTTL, logger)

	g := new(errgroup.Group)
	if dispatcher != nil {
		g.Go(func() error { return dispatcher.Run(dispatchCtx) })
	}
	g.Go(func() error {
		logger.Info("Starting billetera server",
			"port", cfg.Port,
			"journal", cfg.JournalBackend,
			"balance", store.Balance().String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			stop()
			return err
		}
		return nil
	})
	g.Go(func() error {
		defer stopDispatch()
		<-ctx.Done()
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	})

	err = g.Wait()
	if dispatcher != nil {
		st := dispatcher.Stats()
		logger.Info("Journal dispatcher totals",
			"written", st.Written, "dropped", st.Dropped, "failures", st.Failures, "pending", st.Pending)
	}
	return err
}

func profileFrom(cfg *config.Config) core.UserProfile {
	p := ledger.DefaultProfile
	if cfg.UserName != "" {
		p.Name = cfg.UserName
	}
	if cfg.UserID != "" {
		p.GovernmentID = cfg.UserID
	}
	if cfg.UserPhone != "" {
		p.Phone = cfg.UserPhone
	}
	return p
}
