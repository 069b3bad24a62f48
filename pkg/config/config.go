package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env      string         `mapstructure:"env"`
	Server   ServerConfig   `mapstructure:"server"`
	WhatsApp WhatsAppConfig `mapstructure:"whatsapp"`
	Firebase FirebaseConfig `mapstructure:"firebase"`
	Store    StoreConfig    `mapstructure:"store"`
	Database DatabaseConfig `mapstructure:"database"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type WhatsAppConfig struct {
	AccessToken        string `mapstructure:"access_token"`
	PhoneNumberID      string `mapstructure:"phone_number_id"`
	WebhookVerifyToken string `mapstructure:"webhook_verify_token"`
	WebhookSecret      string `mapstructure:"webhook_secret"`
}

type FirebaseConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	CredentialsPath string `mapstructure:"credentials_path"`
}

// StoreConfig selects the collection backend: firestore, postgres or memory.
type StoreConfig struct {
	Backend string `mapstructure:"backend"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (c *Config) Production() bool {
	return c.Env == "production"
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		fmt.Sscanf(u.Port(), "%d", &port)
	}

	return DatabaseConfig{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   strings.TrimPrefix(u.Path, "/"),
		SSLMode:  "disable",
	}, nil
}

func LoadConfig(path string) (*Config, error) {
	// Preload .env so local runs work the same as deployed ones; a missing
	// file is fine.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("env", "development")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("store.backend", "firestore")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.sslmode", "disable")

	// Enable environment variable support
	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Check for DATABASE_URL environment variable
	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %v", err)
		}
		config.Database = dbConfig
	}

	// Secrets come from the environment, never from config.yaml.
	if env := v.GetString("APP_ENV"); env != "" {
		config.Env = env
	}
	if token := v.GetString("WHATSAPP_ACCESS_TOKEN"); token != "" {
		config.WhatsApp.AccessToken = token
	}
	if id := v.GetString("WHATSAPP_PHONE_NUMBER_ID"); id != "" {
		config.WhatsApp.PhoneNumberID = id
	}
	if token := v.GetString("WHATSAPP_WEBHOOK_VERIFY_TOKEN"); token != "" {
		config.WhatsApp.WebhookVerifyToken = token
	}
	if secret := v.GetString("WHATSAPP_WEBHOOK_SECRET"); secret != "" {
		config.WhatsApp.WebhookSecret = secret
	}
	if project := v.GetString("FIREBASE_PROJECT_ID"); project != "" {
		config.Firebase.ProjectID = project
	}
	if creds := v.GetString("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		config.Firebase.CredentialsPath = creds
	}

	return &config, nil
}
