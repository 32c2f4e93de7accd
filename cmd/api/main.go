package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gramm/cmd/app"
	"gramm/internal/config"
	"gramm/internal/observability"
	"gramm/internal/seed"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var (
	cfg *config.Config

	seedOpts seed.Options
	seedRand int64

	rootCmd = &cobra.Command{
		Use:           "gramm",
		Short:         "Photo sharing service with follows, likes and tags",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// setting up config
			cfg = config.LoadConfig()
			observability.SetupLogger(cfg.LogLevel)
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE:  runMigrate,
	}

	purgeCmd = &cobra.Command{
		Use:   "purge-pending",
		Short: "Delete pending accounts whose activation window has elapsed",
		RunE:  runPurge,
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with demo accounts and posts",
		RunE:  runSeed,
	}
)

func init() {
	seedCmd.Flags().IntVar(&seedOpts.Users, "users", 10, "number of accounts to create")
	seedCmd.Flags().IntVar(&seedOpts.PostsPerUser, "posts", 5, "posts per account")
	seedCmd.Flags().IntVar(&seedOpts.FollowsPerUser, "follows", 3, "follow attempts per account")
	seedCmd.Flags().IntVar(&seedOpts.LikesPerUser, "likes", 5, "like toggles per account")
	seedCmd.Flags().Int64Var(&seedRand, "seed", time.Now().UnixNano(), "random seed")

	rootCmd.AddCommand(serveCmd, migrateCmd, purgeCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfg.JWTSecretKey == "" {
		return errors.New("JWT_SECRET_KEY is not set")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.App(ctx, cfg)
	if err != nil {
		return err
	}
	defer application.DB.CloseDB()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      app.NewRouter(application.Handlers, application.Services.Auth),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started",
			slog.String("addr", server.Addr),
			slog.String("database", cfg.DB.DbNAME),
		)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	slog.Info("shutting down")
	return server.Shutdown(shutdownCtx)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	db, _, _, err := app.Core(cfg, false, nil, nil)
	if err != nil {
		return err
	}
	defer db.CloseDB()

	return db.RunMigrations(cfg.MigrationsPath)
}

func runPurge(cmd *cobra.Command, args []string) error {
	db, _, services, err := app.Core(cfg, false, nil, nil)
	if err != nil {
		return err
	}
	defer db.CloseDB()

	n, err := services.Account.PurgeExpired(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "purged %d pending accounts\n", n)
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	db, _, services, err := app.Core(cfg, true, nil, nil)
	if err != nil {
		return err
	}
	defer db.CloseDB()

	summary, err := seed.New(services.Account, services.Post, services.Follow, seedRand).Run(cmd.Context(), seedOpts)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d posts, %d follows, %d likes\n",
		summary.Users, summary.Posts, summary.Follows, summary.Likes)
	return nil
}
