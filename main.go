package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rpupo63/portfolio-cms-backend/api"
	"github.com/rpupo63/portfolio-cms-backend/config"
	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
	"github.com/rpupo63/portfolio-cms-backend/validation"
)

var (
	cfg config.Config

	genOutPath  string
	seedValue   int64
	seedCounts  services.SeedCounts
	hashInput   string
	logCloser   io.Closer
	eventCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "portfolio-cms",
	Short: "Portfolio CMS backend",
	Long: `Serves the public portfolio API and the authenticated admin API, and
provides maintenance commands for the database behind them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load environment variables from .env file
		if err := godotenv.Load(); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}

		env := config.New()
		if err := config.LoadSSM(cmd.Context(), env); err != nil {
			return err
		}

		var err error
		if cfg, err = config.Load(env); err != nil {
			return err
		}
		logCloser = config.SetupLogging(cfg)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if eventCloser != nil {
			if err := eventCloser.Close(); err != nil {
				log.Warn().Err(err).Msg("Error closing event log")
			}
		}
		if logCloser != nil {
			logCloser.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update every table",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg)
		if err != nil {
			return err
		}
		return models.Migrate(db)
	},
}

var generateModelsCmd = &cobra.Command{
	Use:   "generate-models",
	Short: "Migrate, report stale columns and generate typed query helpers",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg)
		if err != nil {
			return err
		}
		return models.GenerateModels(db, genOutPath, os.Stdout)
	},
}

var columnReportCmd = &cobra.Command{
	Use:   "column-report",
	Short: "List database columns no model maps to",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg)
		if err != nil {
			return err
		}
		total, err := models.GenerateColumnMismatchReport(db, os.Stdout)
		if err != nil {
			return err
		}
		if total > 0 {
			return fmt.Errorf("%d stale columns found", total)
		}
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with fake content for local development",
	RunE: func(cmd *cobra.Command, args []string) error {
		currentDB, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		if err := models.Migrate(currentDB.DB()); err != nil {
			return err
		}
		return services.NewSeeder(currentDB, seedValue).Seed(cmd.Context(), seedCounts)
	},
}

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Renumber display order in every ordered collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		currentDB, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		for _, store := range currentDB.Stores() {
			if !store.Schema().Ordered {
				continue
			}
			moved, err := store.Compact(cmd.Context())
			if err != nil {
				return fmt.Errorf("compact %s: %w", store.Schema().Collection, err)
			}
			log.Info().Str("collection", store.Schema().Collection).Int("moved", moved).Msg("Compacted collection")
		}
		return nil
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := services.HashPassword(hashInput)
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}

func init() {
	generateModelsCmd.Flags().StringVar(&genOutPath, "out", "./query", "Output directory for generated query code")

	seedCmd.Flags().Int64Var(&seedValue, "seed", 0, "Random seed, 0 for a random one")
	seedCmd.Flags().IntVar(&seedCounts.Items, "items", 5, "Items per collection")
	seedCmd.Flags().IntVar(&seedCounts.Messages, "messages", 10, "Contact messages")
	seedCmd.Flags().IntVar(&seedCounts.Events, "events", 500, "Analytics events")

	hashPasswordCmd.Flags().StringVar(&hashInput, "password", "", "Password to hash")
	hashPasswordCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(serveCmd, migrateCmd, generateModelsCmd, columnReportCmd, seedCmd, compactCmd, hashPasswordCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openDatabase connects the relational store and the configured analytics event log.
func openDatabase(ctx context.Context) (database.Database, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return database.Database{}, err
	}

	var eventLog database.EventLog
	if cfg.AnalyticsBackend == "clickhouse" {
		clickhouseLog, err := database.OpenClickHouse(ctx, cfg)
		if err != nil {
			return database.Database{}, err
		}
		eventLog = clickhouseLog
		eventCloser = clickhouseLog
	}

	return database.New(db, validation.New(), eventLog), nil
}

func serve(ctx context.Context) error {
	currentDB, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	if err := models.Migrate(currentDB.DB()); err != nil {
		return err
	}

	deps := api.Dependencies{
		Database:  currentDB,
		Validator: validation.New(),
		Notifier:  buildNotifier(),
		Metrics:   api.NewMetrics(),
	}

	if cfg.S3Bucket != "" {
		storage, err := services.NewS3Storage(ctx, cfg.S3Region, cfg.S3Bucket, cfg.S3BaseURL)
		if err != nil {
			return err
		}
		deps.Storage = storage
	} else {
		log.Warn().Msg("S3_BUCKET not set, uploads are disabled")
	}

	auth, err := services.NewAuthenticator(cfg.JWTSecret, cfg.TokenTTL, cfg.AdminUsername, cfg.AdminPasswordHash)
	if err != nil {
		log.Warn().Err(err).Msg("Admin login is disabled")
	} else {
		deps.Auth = auth
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(deps, cfg)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
	return nil
}

// buildNotifier wires whichever notification channels are configured.
func buildNotifier() *services.Notifier {
	var mailer services.Mailer
	if cfg.ResendAPIKey != "" {
		resend, err := services.NewResendMailer(cfg.ResendAPIKey, cfg.ResendFromEmail)
		if err != nil {
			log.Warn().Err(err).Msg("Email notifications are disabled")
		} else {
			mailer = resend
		}
	}

	var sms services.SMSSender
	if cfg.TwilioAccountSID != "" {
		twilio, err := services.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
		if err != nil {
			log.Warn().Err(err).Msg("SMS notifications are disabled")
		} else {
			sms = twilio
		}
	}

	notifier := services.NewNotifier(mailer, cfg.AdminNotifyEmail, sms, cfg.AdminNotifyPhone)
	log.Info().Strs("channels", notifier.Channels()).Msg("Notifier configured")
	return notifier
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
