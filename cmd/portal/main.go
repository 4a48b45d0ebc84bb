package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"
	pkgconfig "github.com/tendant/ministry-portal/pkg/config"
	"github.com/tendant/ministry-portal/pkg/contact"
	"github.com/tendant/ministry-portal/pkg/router"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	// CONTACT_STORE is "memory" or "postgres"
	ContactStore    string `env:"CONTACT_STORE" env-default:"memory"`
	ContactSeedFile string `env:"CONTACT_SEED_FILE" env-default:""`

	CookieConfig   pkgconfig.CookieConfig
	JWTConfig      pkgconfig.JWTConfig
	DatabaseConfig pkgconfig.DatabaseConfig
	RolesConfig    pkgconfig.RolesConfig
	PrefixConfig   pkgconfig.PrefixConfig

	AppConfig app.AppConfig
}

func main() {
	loadEnvFile()

	config := Config{}
	if err := cleanenv.ReadEnv(&config); err != nil {
		slog.Error("Failed to read configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     parseLogLevel(config.LogLevel),
	}))
	slog.SetDefault(logger)

	slog.Info("Starting Ministry Portal", "environment", config.CookieConfig.Environment())

	repo, cleanup, err := newContactRepository(context.Background(), config)
	if err != nil {
		slog.Error("Failed to initialize contact directory", "store", config.ContactStore, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	routerConfig, err := router.NewMinimalConfig(router.MinimalOptions{
		JWTConfig:    config.JWTConfig,
		Contacts:     repo,
		CookieConfig: config.CookieConfig,
		AdminRoles:   pkgconfig.NormalizeAdminRoles(config.RolesConfig.AdminRoles),
		PrefixConfig: &config.PrefixConfig,
	})
	if err != nil {
		slog.Error("Failed to configure routes", "error", err)
		os.Exit(1)
	}

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	router.SetupRoutes(server.R, routerConfig)

	slog.Info("Ministry Portal ready",
		"simulation", routerConfig.PrefixConfig.Simulation(),
		"contacts", routerConfig.PrefixConfig.Contacts(),
		"admin_roles", routerConfig.AdminRoles,
		"secure_cookies", config.CookieConfig.Secure())

	server.Run()
}

func newContactRepository(ctx context.Context, config Config) (contact.ContactRepository, func(), error) {
	switch strings.ToLower(config.ContactStore) {
	case "postgres":
		dbURL := config.DatabaseConfig.ToDatabaseURL()
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			slog.Error("Failed to connect to database",
				"host", config.DatabaseConfig.Host,
				"port", config.DatabaseConfig.Port,
				"database", config.DatabaseConfig.Database,
				"schema", config.DatabaseConfig.Schema,
				"error", err)
			return nil, func() {}, err
		}

		repo, err := contact.NewPostgresContactRepository(pool)
		if err != nil {
			pool.Close()
			return nil, func() {}, err
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, func() {}, err
		}

		slog.Info("Database connected", "database", config.DatabaseConfig.Database, "schema", config.DatabaseConfig.Schema)
		return repo, pool.Close, nil

	default:
		if config.ContactSeedFile == "" {
			slog.Warn("No CONTACT_SEED_FILE set, contact directory is empty")
			return contact.NewInMemoryContactRepository(), func() {}, nil
		}
		repo, err := contact.LoadSeedFile(config.ContactSeedFile)
		if err != nil {
			return nil, func() {}, err
		}
		slog.Info("Loaded contact seed file", "path", config.ContactSeedFile)
		return repo, func() {}, nil
	}
}

func parseLogLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// loadEnvFile loads .env from the executable directory or the working directory, if present
func loadEnvFile() {
	execPath, err := os.Executable()
	if err != nil {
		return
	}

	execDir := filepath.Dir(execPath)
	envFile := filepath.Join(execDir, ".env")

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		cwd, _ := os.Getwd()
		envFile = filepath.Join(cwd, ".env")
	}

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		slog.Debug("No .env file found (using environment variables or defaults)")
		return
	}

	slog.Info("Loading configuration from .env file", "path", envFile)
	if err := godotenv.Load(envFile); err != nil {
		slog.Warn("Failed to load .env file", "error", err)
	}
}
