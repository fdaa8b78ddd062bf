package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/wordclimb/wordclimb-api/config"
	"github.com/wordclimb/wordclimb-api/models"
	"gorm.io/gorm"
)

// WordResult is one per-word outcome inside a submission batch.
type WordResult struct {
	WordID  uint `json:"word_id"`
	Correct bool `json:"correct"`
}

// SubmissionResult is the response contract for a learning submission.
type SubmissionResult struct {
	Accuracy     float64 `json:"accuracy"`
	CorrectWords int     `json:"correct_words"`
	TotalWords   int     `json:"total_words"`
	Completed    bool    `json:"completed"`
	Rank         int     `json:"rank"`
}

// SubmitLearningResult processes one stage submission: it updates the
// per-word learning records, upserts the stage progress, appends a
// score under the synthetic "group_<id>_stage_<stage>" level, and
// returns the user's rank on that level.
//
// The per-word record updates are applied one at a time and are not
// atomic with each other or with the progress/score writes: a failure
// partway through leaves earlier increments in place (at-least-once
// semantics). Concurrent submissions for the same (user, word, stage)
// are not serialized; the unique constraint prevents duplicate rows
// but simultaneous increments may lose an attempt.
func SubmitLearningResult(db *gorm.DB, settings config.Settings, userID, groupID uint, stage int, results []WordResult, timeSpent int) (*SubmissionResult, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, err
	}

	var group models.WordGroup
	if err := db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("group %d: %w", groupID, ErrNotFound)
		}
		return nil, err
	}

	if stage < config.StageRecognition || stage > config.StageRecall {
		return nil, fmt.Errorf("stage %d: %w", stage, ErrInvalidInput)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("empty result batch: %w", ErrInvalidInput)
	}

	unlocked, err := CheckGroupUnlocked(db, userID, groupID)
	if err != nil {
		return nil, err
	}
	if !unlocked {
		return nil, fmt.Errorf("group %d is locked: %w", groupID, ErrForbidden)
	}

	total := len(results)
	correct := 0
	for _, result := range results {
		if result.Correct {
			correct++
		}
	}
	accuracy := math.Round(float64(correct) / float64(total) * 100)

	for _, result := range results {
		// Results without a word id are skipped rather than failing
		// the batch.
		if result.WordID == 0 {
			continue
		}
		if err := updateLearningRecord(db, userID, result.WordID, stage, result.Correct); err != nil {
			return nil, err
		}
	}

	progress, err := UpdateLearningProgress(db, settings, userID, groupID, stage, accuracy)
	if err != nil {
		return nil, err
	}

	level := fmt.Sprintf("group_%d_stage_%d", groupID, stage)
	if _, err := SaveScore(db, userID, accuracy, level, timeSpent); err != nil {
		return nil, err
	}

	rank, err := UserRank(db, userID, level)
	if err != nil {
		return nil, err
	}

	return &SubmissionResult{
		Accuracy:     accuracy,
		CorrectWords: correct,
		TotalWords:   total,
		Completed:    progress.Completed,
		Rank:         rank,
	}, nil
}

// updateLearningRecord get-or-creates the (user, word, stage) record
// and bumps its counters.
func updateLearningRecord(db *gorm.DB, userID, wordID uint, stage int, correct bool) error {
	var record models.WordLearningRecord
	err := db.Where(models.WordLearningRecord{UserID: userID, WordID: wordID, Stage: stage}).
		FirstOrCreate(&record).Error
	if err != nil {
		return err
	}

	record.Attempts++
	if correct {
		record.Correct++
	}
	record.LastAttempt = time.Now().UTC()
	return db.Save(&record).Error
}

// LearningWord is a group word annotated with the requesting user's
// record for the stage being practiced.
type LearningWord struct {
	models.Word
	LearningRecord struct {
		Attempts int `json:"attempts"`
		Correct  int `json:"correct"`
		Accuracy int `json:"accuracy"`
	} `json:"learning_record"`
}

// LearningWords returns the group's words with the user's per-word
// stats for the stage. The group must be unlocked for the user.
func LearningWords(db *gorm.DB, userID, groupID uint, stage int) ([]LearningWord, error) {
	var group models.WordGroup
	if err := db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("group %d: %w", groupID, ErrNotFound)
		}
		return nil, err
	}

	unlocked, err := CheckGroupUnlocked(db, userID, groupID)
	if err != nil {
		return nil, err
	}
	if !unlocked {
		return nil, fmt.Errorf("group %d is locked: %w", groupID, ErrForbidden)
	}

	var words []models.Word
	err = db.Joins("JOIN group_words ON group_words.word_id = words.id").
		Where("group_words.group_id = ? AND group_words.deleted_at IS NULL", group.ID).
		Find(&words).Error
	if err != nil {
		return nil, err
	}

	out := make([]LearningWord, 0, len(words))
	for _, word := range words {
		lw := LearningWord{Word: word}

		var record models.WordLearningRecord
		err := db.Where("user_id = ? AND word_id = ? AND stage = ?", userID, word.ID, stage).
			First(&record).Error
		if err == nil {
			lw.LearningRecord.Attempts = record.Attempts
			lw.LearningRecord.Correct = record.Correct
			lw.LearningRecord.Accuracy = record.Accuracy()
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		out = append(out, lw)
	}
	return out, nil
}
