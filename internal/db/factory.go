package db

import (
	"fmt"

	"github.com/AI2HU/geolens/internal/db/mongodb"
	"github.com/AI2HU/geolens/internal/db/sqlite"
	"github.com/AI2HU/geolens/internal/models"
)

func newSQL(config *models.Config) (SQLDatabase, error) {
	switch config.Provider {
	case "sqlite":
		return sqlite.New(config)
	default:
		return nil, fmt.Errorf("unsupported SQL database provider: %s", config.Provider)
	}
}

func newNoSQL(config *models.Config) (NoSQLDatabase, error) {
	switch config.Provider {
	case "mongodb":
		return mongodb.New(config)
	default:
		return nil, fmt.Errorf("unsupported NoSQL database provider: %s", config.Provider)
	}
}
