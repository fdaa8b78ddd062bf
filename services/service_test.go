package services

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wordclimb/wordclimb-api/config"
	"github.com/wordclimb/wordclimb-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// testDB opens a fresh in-memory database. The DSN is named per call
// with cache=shared so every pooled connection sees the same database.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := fmt.Sprintf("%s-%d", strings.ReplaceAll(t.Name(), "/", "_"), testDBSeq.Add(1))
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

func testSettings() config.Settings {
	return config.Settings{
		PassAccuracy:  80,
		WordsPerGroup: 10,
		GroupComposition: map[int]int{
			config.DifficultyEasy:   4,
			config.DifficultyMedium: 4,
			config.DifficultyHard:   2,
		},
	}
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{Username: username}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedGroup(t *testing.T, db *gorm.DB, sequence int) *models.WordGroup {
	t.Helper()
	group := models.WordGroup{
		Name:     fmt.Sprintf("Word Group %d", sequence),
		Sequence: sequence,
	}
	require.NoError(t, db.Create(&group).Error)
	return &group
}

// seedWords creates n words of the given difficulty with distinct text.
func seedWords(t *testing.T, db *gorm.DB, difficulty, n int) []models.Word {
	t.Helper()
	words := make([]models.Word, 0, n)
	for i := 0; i < n; i++ {
		word := models.Word{
			Word:        fmt.Sprintf("word-d%d-%d", difficulty, i),
			Translation: fmt.Sprintf("translation %d-%d", difficulty, i),
			Difficulty:  difficulty,
		}
		require.NoError(t, db.Create(&word).Error)
		words = append(words, word)
	}
	return words
}

func addToGroup(t *testing.T, db *gorm.DB, groupID, wordID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.GroupWord{GroupID: groupID, WordID: wordID}).Error)
}
