package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"account-rbac-service/internal/config"
	"account-rbac-service/internal/domain/audit"
	"account-rbac-service/internal/domain/event"
	domainToken "account-rbac-service/internal/domain/token"
	"account-rbac-service/internal/infrastructure/database/postgres"
	"account-rbac-service/internal/infrastructure/messaging"
	"account-rbac-service/internal/logger"
	"account-rbac-service/internal/routes"
	"account-rbac-service/internal/usecase/credential"
	"account-rbac-service/pkg/mqtt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	v := viper.New()
	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	if err := config.BindFlags(v, fs); err != nil {
		os.Stderr.WriteString("Failed to register flags: " + err.Error() + "\n")
		os.Exit(1)
	}
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(v)
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}
	flags := config.ReadFlags(v)

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
	)

	if cfg.Database.Host == "" || cfg.Database.DBName == "" {
		logger.Fatal("Database configuration is missing. Please set DB_HOST and DB_NAME environment variables.")
	}

	db, err := postgres.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := postgres.Migrate(ctx, db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	if err := postgres.Seed(ctx, db); err != nil {
		logger.Fatal("Failed to seed database", zap.Error(err))
	}

	publisher, closePublisher := newPublisher(cfg)
	defer closePublisher()

	services := routes.NewServices(cfg, db, publisher, audit.SystemClock)

	if cfg.Seed.AdminEmail != "" {
		if _, err := services.Users.EnsureAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminName, cfg.Seed.AdminPassword); err != nil {
			logger.Fatal("Failed to ensure administrator account", zap.Error(err))
		}
	}

	if flags.MigrateOnly {
		logger.Info("Migrations and seed data applied")
		return
	}
	if flags.IssueToken != "" {
		issueToken(ctx, services, flags)
		return
	}

	go services.Credentials.StartExpirySweep(ctx, cfg.Jobs.ExpirySweepInterval)

	router := routes.SetupRoutes(ctx, cfg, db, services)

	host := cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	addr := net.JoinHostPort(host, port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown Server ...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
		return
	}

	logger.Info("Server exited properly")
}

// newPublisher connects to the MQTT broker when one is configured and falls
// back to logging events otherwise.
func newPublisher(cfg *config.Config) (event.Publisher, func()) {
	if cfg.MQTT.Broker == "" {
		logger.Info("MQTT broker not configured, domain events are logged only")
		return messaging.NewLogPublisher(), func() {}
	}

	client := mqtt.NewClient(&mqtt.Config{
		Broker:               cfg.MQTT.Broker,
		ClientID:             cfg.MQTT.ClientID,
		Username:             cfg.MQTT.Username,
		Password:             cfg.MQTT.Password,
		CleanSession:         true,
		KeepAlive:            30,
		ConnectTimeout:       10,
		AutoReconnect:        true,
		MaxReconnectInterval: time.Minute,
		PublishTimeout:       5 * time.Second,
		Logger:               logger.L(),
	})
	if err := client.Connect(); err != nil {
		logger.Warn("MQTT broker unreachable, domain events are logged only", zap.Error(err))
		return messaging.NewLogPublisher(), func() {}
	}

	return messaging.NewMQTTPublisher(client, cfg.MQTT.TopicPrefix, cfg.MQTT.QoS), client.Disconnect
}

func issueToken(ctx context.Context, services *routes.Services, flags config.Flags) {
	found, err := services.Users.GetByEmail(ctx, flags.IssueToken)
	if err != nil {
		logger.Fatal("Failed to find user", zap.String("email", flags.IssueToken), zap.Error(err))
	}

	issued, err := services.Credentials.IssueToken(ctx, found.ID, &credential.IssueTokenRequest{
		Type: string(domainToken.TypeAPI),
		TTL:  flags.TokenTTL,
	})
	if err != nil {
		logger.Fatal("Failed to issue token", zap.Error(err))
	}

	logger.Info("API token issued",
		zap.String("user_id", found.ID.String()),
		zap.String("token_id", issued.TokenID.String()),
		zap.Time("expires_at", issued.ExpiresAt),
	)
	os.Stdout.WriteString(issued.Token + "\n")
}
