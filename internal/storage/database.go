package storage

import (
	"github.com/zbonzo/Warlock-sub004/internal/game"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenAndMigrate opens the sqlite database and keeps the schema current via
// AutoMigrate. Rule content (abilities, effects, tuning) is never persisted:
// the config file stays the single source of truth.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&game.User{}, &game.Player{}, &game.Monster{}, &game.Game{}); err != nil {
		return nil, err
	}
	return db, nil
}
