package main

import (
	"github.com/zbonzo/Warlock-sub004/internal/config"
	"github.com/zbonzo/Warlock-sub004/internal/logging"
	"github.com/zbonzo/Warlock-sub004/internal/storage"
)

func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal("Missing or invalid warlock configuration", err, logging.Fields{"config_path": path})
	}
	for _, w := range cfg.Warnings {
		logging.Warn("config warning", logging.Fields{"warning": w})
	}
	return cfg
}

func createRepositoryOrExit(dbPath string) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	return storage.NewSQLiteRepository(db)
}
