package services

import (
	"errors"
	"fmt"

	"github.com/wordclimb/wordclimb-api/models"
	"gorm.io/gorm"
)

// SaveScore appends one session score. Score values are not clamped to
// any range; the field is intentionally permissive.
func SaveScore(db *gorm.DB, userID uint, score float64, level string, timeSpent int) (*models.Score, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user is required: %w", ErrInvalidInput)
	}

	record := models.Score{
		UserID:    userID,
		Score:     score,
		Level:     level,
		TimeSpent: timeSpent,
	}
	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// TopScores returns the leaderboard: score desc, time asc, at most
// limit rows, optionally scoped to a level.
func TopScores(db *gorm.DB, level string, limit int) ([]models.ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	query := db.Model(&models.Score{}).
		Select("users.username, scores.score, scores.level, scores.time_spent, scores.created_at").
		Joins("JOIN users ON users.id = scores.user_id")
	if level != "" {
		query = query.Where("scores.level = ?", level)
	}

	var entries []models.ScoreEntry
	err := query.Order("scores.score desc, scores.time_spent asc").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// UserBestScore returns the user's best row in scope: max score, ties
// broken by min time. ErrNotFound when the user has no scores.
func UserBestScore(db *gorm.DB, userID uint, level string) (*models.Score, error) {
	query := db.Where("user_id = ?", userID)
	if level != "" {
		query = query.Where("level = ?", level)
	}

	var best models.Score
	err := query.Order("score desc, time_spent asc").First(&best).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("no scores for user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &best, nil
}

// UserRank ranks the user's best score against every score in scope:
// 1 + count of rows strictly better, where better means a higher score
// or an equal score achieved faster.
func UserRank(db *gorm.DB, userID uint, level string) (int, error) {
	best, err := UserBestScore(db, userID, level)
	if err != nil {
		return 0, err
	}

	query := db.Model(&models.Score{}).
		Where("score > ? OR (score = ? AND time_spent < ?)", best.Score, best.Score, best.TimeSpent)
	if level != "" {
		query = query.Where("level = ?", level)
	}

	var better int64
	if err := query.Count(&better).Error; err != nil {
		return 0, err
	}
	return int(better) + 1, nil
}
