package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/alojacorrientes/guardia-bot/internal/auth"
	"github.com/alojacorrientes/guardia-bot/internal/bot"
	"github.com/alojacorrientes/guardia-bot/internal/classifier"
	"github.com/alojacorrientes/guardia-bot/internal/metrics"
	"github.com/alojacorrientes/guardia-bot/internal/search"
	"github.com/alojacorrientes/guardia-bot/internal/store"
	"github.com/alojacorrientes/guardia-bot/internal/webhook"
	"github.com/alojacorrientes/guardia-bot/internal/whatsapp"
	"github.com/alojacorrientes/guardia-bot/pkg/config"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	if err := metrics.Register(nil); err != nil {
		logger.Fatal("Failed to register metrics", zap.Error(err))
	}

	// Initialize the collection backend
	var st store.Store
	switch cfg.Store.Backend {
	case "memory":
		logger.Info("Using in-memory store")
		st = store.NewMemoryStore()
	case "postgres":
		logger.Info("Using PostgreSQL store")
		st, err = store.NewPostgresStore(store.DatabaseConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		})
		if err != nil {
			logger.Fatal("Failed to initialize store", zap.Error(err))
		}
	default:
		logger.Info("Using Firestore store", zap.String("project_id", cfg.Firebase.ProjectID))
		st, err = store.NewFirestoreStore(store.FirestoreConfig{
			ProjectID:       cfg.Firebase.ProjectID,
			CredentialsPath: cfg.Firebase.CredentialsPath,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize store", zap.Error(err))
		}
	}
	defer st.Close()

	// Initialize the WhatsApp transport
	sender, err := whatsapp.NewClient(whatsapp.Config{
		AccessToken:   cfg.WhatsApp.AccessToken,
		PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create WhatsApp client", zap.Error(err))
	}

	// Assemble the pipeline
	b := bot.New(
		sender,
		auth.NewGate(st, logger),
		classifier.New(),
		search.NewOrchestrator(st, logger),
		logger,
	)

	srv := webhook.NewServer(b, webhook.Config{
		VerifyToken: cfg.WhatsApp.WebhookVerifyToken,
		Secret:      cfg.WhatsApp.WebhookSecret,
		Production:  cfg.Production(),
	}, logger)

	logger.Info("Starting webhook server", zap.String("addr", cfg.Server.Addr))
	if err := http.ListenAndServe(cfg.Server.Addr, srv.Router()); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
