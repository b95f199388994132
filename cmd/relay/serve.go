package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-push-relay/internal/application/reply"
	jwtinfra "github.com/go-push-relay/internal/infrastructure/jwt"
	"github.com/go-push-relay/internal/metrics"
	transporthttp "github.com/go-push-relay/internal/transport/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := buildStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	sender, err := buildSender(ctx, cfg)
	if err != nil {
		return err
	}

	// Webhook auth is optional; without a secret every caller is trusted.
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg.WebhookJWTSecret); err == nil {
		jwtProvider = p
	} else {
		logger.Warn("webhook authentication disabled", "reason", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := reply.NewService(reply.ServiceDeps{
		Stories:  st.stories,
		Profiles: st.profiles,
		Sender:   sender,
		Recorder: metrics.NewService(reg),
		Logger:   logger,
		Options:  serviceOptions(cfg),
	})

	router := transporthttp.NewRouter(cfg, &transporthttp.Deps{
		Notifier:    svc,
		JWTProvider: jwtProvider,
		Gatherer:    reg,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			"addr", srv.Addr,
			"env", cfg.AppEnv,
			"store", cfg.StoreBackend,
			"push", cfg.PushProvider,
			"allow_self_reply", cfg.AllowSelfReply,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
