package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wordclimb/wordclimb-api/models"
	"github.com/wordclimb/wordclimb-api/utils"
	"gorm.io/gorm"
)

// CreateWord adds a word to the catalog. Difficulty 0 means "derive
// from the word's length".
func CreateWord(db *gorm.DB, text, translation string, difficulty int) (*models.Word, error) {
	text = strings.TrimSpace(text)
	translation = strings.TrimSpace(translation)
	if text == "" || translation == "" {
		return nil, fmt.Errorf("word and translation are required: %w", ErrInvalidInput)
	}

	var existing models.Word
	if err := db.Where("word = ?", text).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("word %q: %w", text, ErrDuplicate)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if difficulty == 0 {
		difficulty = utils.CalculateDifficulty(text)
	}

	word := models.Word{
		Word:        text,
		Translation: translation,
		Difficulty:  difficulty,
	}
	if err := db.Create(&word).Error; err != nil {
		return nil, err
	}
	return &word, nil
}

// UpdateWord applies the non-nil fields to an existing word. Renaming
// onto another word's text fails with ErrDuplicate.
func UpdateWord(db *gorm.DB, wordID uint, text, translation *string, difficulty *int) (*models.Word, error) {
	var word models.Word
	if err := db.First(&word, wordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("word %d: %w", wordID, ErrNotFound)
		}
		return nil, err
	}

	if text != nil && strings.TrimSpace(*text) != "" {
		trimmed := strings.TrimSpace(*text)
		var existing models.Word
		err := db.Where("word = ?", trimmed).First(&existing).Error
		if err == nil && existing.ID != word.ID {
			return nil, fmt.Errorf("word %q: %w", trimmed, ErrDuplicate)
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		word.Word = trimmed
	}
	if translation != nil && strings.TrimSpace(*translation) != "" {
		word.Translation = strings.TrimSpace(*translation)
	}
	if difficulty != nil {
		word.Difficulty = *difficulty
	}

	if err := db.Save(&word).Error; err != nil {
		return nil, err
	}
	return &word, nil
}

// DeleteWord removes a word together with its group memberships and
// learning records. The cleanup runs in one transaction so orphaned
// rows never persist. Deletes are unscoped: a soft-deleted row would
// still occupy the unique index and block recreating the same text.
func DeleteWord(db *gorm.DB, wordID uint) error {
	var word models.Word
	if err := db.First(&word, wordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("word %d: %w", wordID, ErrNotFound)
		}
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("word_id = ?", word.ID).Delete(&models.GroupWord{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("word_id = ?", word.ID).Delete(&models.WordLearningRecord{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&word).Error
	})
}

// WordsNotInGroups returns the unassigned pool in catalog order. Used
// by the balanced allocator, which relies on the ordering being stable.
func WordsNotInGroups(db *gorm.DB) ([]models.Word, error) {
	var words []models.Word
	sub := db.Model(&models.GroupWord{}).Select("word_id")
	if err := db.Where("id NOT IN (?)", sub).Order("id asc").Find(&words).Error; err != nil {
		return nil, err
	}
	return words, nil
}

// FinalChallengeWords returns every word from the groups whose recall
// stage the user has completed.
func FinalChallengeWords(db *gorm.DB, userID uint) ([]models.Word, error) {
	var groupIDs []uint
	err := db.Model(&models.UserProgress{}).
		Where("user_id = ? AND stage = ? AND completed = ?", userID, 3, true).
		Distinct("group_id").
		Pluck("group_id", &groupIDs).Error
	if err != nil {
		return nil, err
	}
	if len(groupIDs) == 0 {
		return []models.Word{}, nil
	}

	var wordIDs []uint
	err = db.Model(&models.GroupWord{}).
		Where("group_id IN ?", groupIDs).
		Distinct("word_id").
		Pluck("word_id", &wordIDs).Error
	if err != nil {
		return nil, err
	}
	if len(wordIDs) == 0 {
		return []models.Word{}, nil
	}

	var words []models.Word
	if err := db.Where("id IN ?", wordIDs).Find(&words).Error; err != nil {
		return nil, err
	}
	return words, nil
}
