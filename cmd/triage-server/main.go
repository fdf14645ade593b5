package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nethra/triage/internal/config"
	"github.com/nethra/triage/internal/domain/pathway"
	"github.com/nethra/triage/internal/domain/patient"
	"github.com/nethra/triage/internal/domain/queue"
	"github.com/nethra/triage/internal/domain/triage"
	"github.com/nethra/triage/internal/platform/auth"
	"github.com/nethra/triage/internal/platform/db"
	"github.com/nethra/triage/internal/platform/middleware"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "triage-server",
		Short: "Eye hospital walk-in triage and queue server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the triage API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for migrations")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, dir).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for migrations")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, dir).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

// checkCmd validates configuration and the optional pathway override file
// without starting the server, for use in deploy pipelines. With --text it
// also dry-runs the triage pipeline on a sample complaint.
func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate configuration and pathway overrides",
		RunE: func(cmd *cobra.Command, args []string) error {
			ok := color.New(color.FgGreen).SprintFunc()
			bad := color.New(color.FgRed).SprintFunc()

			cfg, err := config.Load()
			if err != nil {
				fmt.Printf("%s config: %v\n", bad("FAIL"), err)
				return err
			}
			if err := cfg.Validate(); err != nil {
				fmt.Printf("%s config: %v\n", bad("FAIL"), err)
				return err
			}
			fmt.Printf("%s config (env=%s, auth=%s)\n", ok("OK"), cfg.Env, cfg.ResolvedAuthMode())

			resolver := pathway.NewResolver()
			if cfg.PathwaysFile != "" {
				if err := resolver.LoadOverrides(cfg.PathwaysFile); err != nil {
					fmt.Printf("%s pathways: %v\n", bad("FAIL"), err)
					return err
				}
				fmt.Printf("%s pathways (%s)\n", ok("OK"), cfg.PathwaysFile)
			} else {
				fmt.Printf("%s pathways (built-in defaults)\n", ok("OK"))
			}

			if cfg.DatabaseURL == "" {
				fmt.Printf("%s storage: no DATABASE_URL, server will run in-memory\n", ok("OK"))
			} else {
				fmt.Printf("%s storage: postgres\n", ok("OK"))
			}

			if text, _ := cmd.Flags().GetString("text"); text != "" {
				svc := triage.NewService(triage.NewFeedbackRepoMemory(), zerolog.Nop())
				res, err := svc.Triage(context.Background(), triage.Input{Text: text})
				if err != nil {
					fmt.Printf("%s triage: %v\n", bad("FAIL"), err)
					return err
				}
				level := color.New(color.FgGreen)
				switch res.Final.Level {
				case 1, 2:
					level = color.New(color.FgRed, color.Bold)
				case 3:
					level = color.New(color.FgYellow)
				}
				fmt.Printf("%s %s → %s (%s)\n",
					level.Sprintf("ESI-%d", res.Final.Level),
					res.Final.Condition, res.Final.Category, res.Final.Action)
				fmt.Printf("    %s\n", res.Final.Reasoning)
			}
			return nil
		},
	}
	cmd.Flags().String("text", "", "Dry-run the triage pipeline on a complaint")
	return cmd
}

// tokenCmd issues a staff JWT for operating the protected endpoints.
func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a staff JWT",
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, _ := cmd.Flags().GetString("subject")
			roles, _ := cmd.Flags().GetStringSlice("roles")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return fmt.Errorf("JWT_SECRET is required to issue tokens")
			}

			token, err := auth.IssueToken([]byte(cfg.JWTSecret), subject, roles, ttl)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	cmd.Flags().String("subject", "operator", "Token subject")
	cmd.Flags().StringSlice("roles", []string{"operator"}, "Roles to embed")
	cmd.Flags().Duration("ttl", 12*time.Hour, "Token lifetime")
	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	resolver := pathway.NewResolver()
	if cfg.PathwaysFile != "" {
		if err := resolver.LoadOverrides(cfg.PathwaysFile); err != nil {
			logger.Fatal().Err(err).Str("file", cfg.PathwaysFile).Msg("failed to load pathway overrides")
		}
		logger.Info().Str("file", cfg.PathwaysFile).Msg("pathway overrides loaded")
	}

	// Storage: postgres when configured, in-memory otherwise. Queue state
	// is always in-memory; the database holds patients, visit history and
	// feedback.
	var (
		patientRepo  patient.Repository
		visitRepo    patient.VisitRepository
		feedbackRepo triage.FeedbackRepository
	)
	ctx := context.Background()
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		logger.Info().Msg("connected to database")

		patientRepo = patient.NewRepoPG(pool)
		visitRepo = patient.NewVisitRepoPG(pool)
		feedbackRepo = triage.NewFeedbackRepoPG(pool)
	} else {
		logger.Warn().Msg("no DATABASE_URL set, using in-memory storage")
		patientRepo = patient.NewRepoMemory()
		visitRepo = patient.NewVisitRepoMemory()
		feedbackRepo = triage.NewFeedbackRepoMemory()
	}

	store := queue.NewStore()
	engine := queue.NewEngine(store, resolver, logger, cfg.QueueAgingFactor, cfg.QueueMinutesPerPatient)
	triageSvc := triage.NewService(feedbackRepo, logger)
	patientSvc := patient.NewService(patientRepo, visitRepo, triageSvc, engine, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: strings.Split(cfg.CORSOrigins, ","),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	if cfg.ResolvedAuthMode() == "development" {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware([]byte(cfg.JWTSecret)))
	}

	e.GET("/health", func(c echo.Context) error {
		visits, _ := store.Counts()
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"version": version,
			"visits":  visits,
		})
	})

	apiV1 := e.Group("/api/v1")
	triage.NewHandler(triageSvc).RegisterRoutes(apiV1)
	queue.NewHandler(engine, store).RegisterRoutes(apiV1)
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
	logger.Info().Msg("server stopped")
	return nil
}
