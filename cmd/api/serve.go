package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/clinic-api/internal/config"
	appointmentHandler "github.com/jwalitptl/clinic-api/internal/handler/appointment"
	authHandler "github.com/jwalitptl/clinic-api/internal/handler/auth"
	availabilityHandler "github.com/jwalitptl/clinic-api/internal/handler/availability"
	catalogHandler "github.com/jwalitptl/clinic-api/internal/handler/catalog"
	dashboardHandler "github.com/jwalitptl/clinic-api/internal/handler/dashboard"
	"github.com/jwalitptl/clinic-api/internal/handler/health"
	hoursHandler "github.com/jwalitptl/clinic-api/internal/handler/hours"
	locationHandler "github.com/jwalitptl/clinic-api/internal/handler/location"
	messageHandler "github.com/jwalitptl/clinic-api/internal/handler/message"
	noteHandler "github.com/jwalitptl/clinic-api/internal/handler/note"
	userHandler "github.com/jwalitptl/clinic-api/internal/handler/user"
	"github.com/jwalitptl/clinic-api/internal/middleware"
	"github.com/jwalitptl/clinic-api/internal/repository/postgres"
	"github.com/jwalitptl/clinic-api/internal/router"
	authService "github.com/jwalitptl/clinic-api/internal/service/auth"
	availabilityService "github.com/jwalitptl/clinic-api/internal/service/availability"
	catalogService "github.com/jwalitptl/clinic-api/internal/service/catalog"
	dashboardService "github.com/jwalitptl/clinic-api/internal/service/dashboard"
	eventService "github.com/jwalitptl/clinic-api/internal/service/event"
	hoursService "github.com/jwalitptl/clinic-api/internal/service/hours"
	locationService "github.com/jwalitptl/clinic-api/internal/service/location"
	messageService "github.com/jwalitptl/clinic-api/internal/service/message"
	noteService "github.com/jwalitptl/clinic-api/internal/service/note"
	profileService "github.com/jwalitptl/clinic-api/internal/service/profile"
	"github.com/jwalitptl/clinic-api/internal/service/scheduling"
	"github.com/jwalitptl/clinic-api/pkg/auth"
	"github.com/jwalitptl/clinic-api/pkg/filestore"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
	"github.com/jwalitptl/clinic-api/pkg/security"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	repos := postgres.NewRepositories(db)
	m := metrics.NewMetrics(prometheus.DefaultRegisterer, "clinic")
	events := eventService.NewEventService(repos.Outbox)

	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Issuer:        cfg.JWT.Issuer,
		AccessTTL:     time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
		RefreshTTL:    time.Duration(cfg.JWT.RefreshExpiryHours) * time.Hour,
	})
	authSvc := authService.NewService(repos.Users, jwtSvc, security.NewBcryptHasher(bcrypt.DefaultCost))

	images, err := newImageStore(cmd.Context(), cfg.Storage)
	if err != nil {
		return err
	}

	catalogSvc := catalogService.NewService(repos.Services, cfg.Catalog.CacheTTL)
	schedulingSvc := scheduling.NewService(scheduling.Deps{
		Appointments: repos.Appointments,
		Patients:     repos.Patients,
		Therapists:   repos.Therapists,
		Locations:    repos.Locations,
		Availability: repos.Availability,
		Catalog:      catalogSvc,
		Events:       events,
		Metrics:      m,
	}, scheduling.Policy{
		AllowOverlap:        cfg.Scheduling.AllowOverlap,
		RequireAvailability: cfg.Scheduling.RequireAvailability,
		StrictTransitions:   cfg.Scheduling.StrictTransitions,
	})
	profileSvc := profileService.NewService(repos.Users, repos.Patients, repos.Therapists, repos.Appointments, images)

	r, err := router.NewRouter(authSvc, router.Handlers{
		Health:       health.NewHandler(db, prometheus.DefaultGatherer),
		Auth:         authHandler.NewHandler(authSvc),
		Users:        userHandler.NewHandler(profileSvc, schedulingSvc),
		Appointments: appointmentHandler.NewHandler(schedulingSvc),
		Availability: availabilityHandler.NewHandler(availabilityService.NewService(repos.Availability, events, m, cfg.Scheduling.AllowOverlap)),
		Notes:        noteHandler.NewHandler(noteService.NewService(repos.Notes, repos.Patients, repos.Appointments, events, m)),
		Services:     catalogHandler.NewHandler(catalogSvc),
		Locations:    locationHandler.NewHandler(locationService.NewService(repos.Locations)),
		Hours:        hoursHandler.NewHandler(hoursService.NewService(repos.Hours)),
		Messages:     messageHandler.NewHandler(messageService.NewService(repos.Messages, repos.Users, events, m)),
		Dashboard:    dashboardHandler.NewHandler(dashboardService.NewService(repos.Dashboard, repos.Patients, repos.Therapists)),
	}, m, router.RouterConfig{
		ServiceName:    "clinic-api",
		Mode:           cfg.Server.Mode,
		RateLimit:      rateLimit(cfg.RateLimit),
		RateBurst:      cfg.RateLimit.Burst,
		RequestTimeout: cfg.Server.RequestTimeout,
		CORSConfig:     middleware.DefaultCORSConfig(cfg.CORS.AllowedOrigins),
		SizeLimit: middleware.SizeLimitConfig{
			MaxBodySize:   cfg.Server.MaxBodyBytes,
			MaxUploadSize: cfg.Server.MaxUploadBytes,
			MaxHeaderSize: 1 << 14,
			UploadPaths:   []string{"/users/me/image"},
		},
	})
	if err != nil {
		return err
	}
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info().Msg("server exited")
	return nil
}

func rateLimit(cfg config.RateLimitConfig) float64 {
	if !cfg.Enabled {
		return 0
	}
	return cfg.RequestsPerSecond
}

// newImageStore returns nil when no bucket is configured; uploads then fail
// with an internal error.
func newImageStore(ctx context.Context, cfg config.StorageConfig) (filestore.Store, error) {
	if cfg.Bucket == "" {
		log.Warn().Msg("storage.bucket not set, profile image uploads are disabled")
		return nil, nil
	}
	fsCfg := filestore.Config{
		Bucket:          cfg.Bucket,
		Region:          cfg.Region,
		Endpoint:        cfg.Endpoint,
		PublicBaseURL:   cfg.PublicBaseURL,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
	}
	client, err := filestore.NewS3Client(ctx, fsCfg)
	if err != nil {
		return nil, err
	}
	return filestore.NewS3Store(client, fsCfg), nil
}
