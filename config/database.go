package config

import (
	"os"

	"github.com/wordclimb/wordclimb-api/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var Database *gorm.DB

// Connect opens the database and migrates the schema. Postgres is used
// when DB_URL is set; otherwise an in-memory sqlite database, which is
// also what the tests run against.
func Connect() error {
	var err error
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		Database, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	} else {
		Database, err = gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	}
	if err != nil {
		panic("failed to connect database")
	}

	err = Migrate(Database)
	if err != nil {
		panic("failed to auto migrate database")
	}

	return nil
}

// Migrate runs AutoMigrate for every model. Split out of Connect so the
// tests can migrate their own in-memory databases.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Word{},
		&models.WordGroup{},
		&models.GroupWord{},
		&models.User{},
		&models.UserProgress{},
		&models.WordLearningRecord{},
		&models.Score{},
		&models.AdminAuth{},
	)
}
