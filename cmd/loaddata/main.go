// Command loaddata seeds the ingredient and tag catalogs from JSON files and can promote a user to admin.
package main

import (
	"fmt"
	"os"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/logging"
	"foodgram/internal/repositories"
)

func main() {
	rootCmd := NewRootCommand(openLoader)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// openLoader connects to the configured database and migrates it.
func openLoader() (*Loader, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logging.Setup(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Loader{
		ingredients: repositories.NewGORMIngredientRepository(db),
		tags:        repositories.NewGORMTagRepository(db),
		users:       repositories.NewGORMUserRepository(db),
	}, nil
}
