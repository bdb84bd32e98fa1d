package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/weegigs/wee-counter-go/support"
)

type injector = func(ctx context.Context, cfg support.Config) (*Server, func(), error)

var injectors = map[string]injector{
	support.MemoryStore:      memoryServer,
	support.DynamoStore:      dynamoServer,
	support.DynamoLocalStore: localDynamoServer,
	support.JetStreamStore:   jetstreamServer,
	support.ESDBStore:        esdbServer,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the counter contract over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg)
	},
}

func init() {
	serveCmd.Flags().String("listen", ":9080", "address to listen on")
	_ = v.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}

func routes(server *Server) http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/", server.API)

	return withLogging(r)
}

func serve(ctx context.Context, cfg support.Config) error {
	shutdownTracing, err := installTracing(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.WithError(err).Warn("failed to flush traces")
		}
	}()

	inject, ok := injectors[cfg.Store]
	if !ok {
		return errors.Errorf("unknown store %q", cfg.Store)
	}

	server, cleanup, err := inject(ctx, cfg)
	if err != nil {
		return errors.Wrapf(err, "failed to configure %s store", cfg.Store)
	}
	defer cleanup()

	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           routes(server),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdown)
	}()

	log.WithFields(log.Fields{"listen": cfg.Listen, "store": cfg.Store}).Info("serving counter")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
