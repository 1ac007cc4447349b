package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hub-provision/hps/internal/api"
	"github.com/hub-provision/hps/internal/audit"
	"github.com/hub-provision/hps/internal/auth"
	"github.com/hub-provision/hps/internal/config"
	"github.com/hub-provision/hps/internal/events"
	"github.com/hub-provision/hps/internal/hub"
	"github.com/hub-provision/hps/internal/hub/fake"
	"github.com/hub-provision/hps/internal/messages"
	"github.com/hub-provision/hps/internal/settings"
	"github.com/hub-provision/hps/internal/signup"
)

const version = "1.0.0"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the provisioning daemon",
	RunE: func(c *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	log.Printf("Starting hub provisioning service v%s", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log.Println("Configuration loaded successfully")

	catalog, err := messages.Load(cfg.MessagesPath)
	if err != nil {
		return err
	}

	eventHub := events.NewHub(cfg.Events.BufferSize)

	auditLogger, err := audit.NewLogger(cfg.Audit.Dir)
	if err != nil {
		return err
	}
	log.Println("Audit logger initialized")

	hubs := hub.NewManager()
	if cfg.Hub.UseFake {
		log.Println("Using fake hub connection (no platform credentials)")
		hubs.Register(cfg.Hub.Alias, cfg.Hub.Username, "fake://local", fake.NewFakeConnection())
	} else {
		conn := hub.NewRestConnection(cfg.Hub.InstanceURL, cfg.Hub.APIVersion, cfg.Hub.AccessToken)
		hubs.Register(cfg.Hub.Alias, cfg.Hub.Username, cfg.Hub.InstanceURL, conn)
	}

	orchestrator := signup.NewOrchestrator(catalog, cfg.Timeouts)
	orchestrator.SetAuditLogger(auditLogger)
	orchestrator.SetEventHub(eventHub)

	generator := settings.NewGenerator(catalog)

	var server *api.Server
	if cfg.Auth.Enabled {
		verifier, err := auth.NewVerifier(auth.VerifierConfig{
			Algorithm:    cfg.Auth.Algorithm,
			PublicKeyPEM: cfg.Auth.PublicKeyPEM,
			SecretKey:    cfg.Auth.SecretKey,
		})
		if err != nil {
			return err
		}
		server = api.NewServerWithAuth(orchestrator, hubs, eventHub, generator,
			auth.NewMiddleware(verifier),
			cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.IdleTimeout)
	} else {
		server = api.NewServer(orchestrator, hubs, eventHub, generator,
			cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.IdleTimeout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Starting HTTP server on %s", cfg.Server.Addr)
		return server.Start(cfg.Server.Addr)
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutdown requested, stopping...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Stop(shutdownCtx); err != nil {
			log.Printf("Error stopping HTTP server: %v", err)
		}
		eventHub.Stop()
		if err := auditLogger.Close(); err != nil {
			log.Printf("Error closing audit logger: %v", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Println("Hub provisioning service stopped")
	return nil
}
