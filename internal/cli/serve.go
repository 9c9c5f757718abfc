package cli

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roshil-6/TONIO-SENORA/internal/auth"
	"github.com/roshil-6/TONIO-SENORA/internal/catalog"
	"github.com/roshil-6/TONIO-SENORA/internal/config"
	"github.com/roshil-6/TONIO-SENORA/internal/gelf"
	"github.com/roshil-6/TONIO-SENORA/internal/handler"
	"github.com/roshil-6/TONIO-SENORA/internal/metrics"
	"github.com/roshil-6/TONIO-SENORA/internal/router"
	"github.com/roshil-6/TONIO-SENORA/internal/service"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Hour
)

func NewServeCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Run the HTTP API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "listen address")
	cmd.Flags().StringVar(&cfg.Store, "store", cfg.Store, "storage backend (memory|sqlite|oxidb)")
	cmd.Flags().StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "SQLite database file")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if cfg.GelfAddr != "" {
		gelfWriter, err := gelf.New(cfg.GelfAddr, "portal")
		if err != nil {
			log.Printf("Warning: GELF init failed: %v", err)
		} else {
			defer gelfWriter.Close()
			log.SetOutput(io.MultiWriter(os.Stderr, gelfWriter))
			log.Printf("GELF logging: enabled (%s)", cfg.GelfAddr)
		}
	}

	b, err := openBackends(cfg)
	if err != nil {
		return err
	}
	defer b.close()

	m := metrics.New()
	deps := service.Deps{Root: b.root, Blobs: b.blobs, Catalog: catalog.Default(), Metrics: m}
	gate := auth.NewGate(b.root, cfg.AdminEmail, cfg.RedirectDelay, m)
	authSvc := service.NewAuthService(deps, gate, cfg.JWTSecret)
	contacts := service.NewContactService(deps)

	r := router.New(cfg.JWTSecret, gate, m, router.Handlers{
		Auth:    handler.NewAuthHandler(authSvc),
		Catalog: handler.NewCatalogHandler(deps),
		Client:  handler.NewClientHandler(deps),
		Admin:   handler.NewAdminHandler(service.NewAdminService(deps), contacts),
		Contact: handler.NewContactHandler(contacts),
		Health:  handler.Health(b.root),
	})

	// Serve right away; indexes and the admin account are set up in the
	// background.
	go func() {
		log.Printf("Background init: starting")
		if err := b.init(ctx); err != nil {
			log.Printf("Warning: storage init failed: %v", err)
		}
		if err := authSvc.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPass); err != nil {
			log.Printf("Warning: failed to seed admin: %v", err)
		}
		log.Printf("Background init: all done")
	}()

	go sweepSessions(ctx, gate)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Portal server starting on %s (store: %s)", cfg.HTTPAddr, cfg.Store)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// sweepSessions purges expired session namespaces until ctx is done.
func sweepSessions(ctx context.Context, gate *auth.Gate) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := gate.SweepExpired(ctx)
			if err != nil {
				log.Printf("Warning: session sweep: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("Session sweep: purged %d expired sessions", n)
			}
		}
	}
}
