package models

import (
	"time"

	"gorm.io/gorm"
)

// Word is a single vocabulary entry. Difficulty is 1=easy, 2=medium,
// 3=hard, 4=expert and is derived from word length when not supplied.
type Word struct {
	gorm.Model
	Word        string `gorm:"unique;not null;size:100" json:"word"`
	Translation string `gorm:"not null;size:200" json:"translation"`
	Difficulty  int    `gorm:"not null;default:1" json:"difficulty"`

	GroupWords      []GroupWord          `gorm:"foreignKey:WordID" json:"-"`
	LearningRecords []WordLearningRecord `gorm:"foreignKey:WordID" json:"-"`
}

// WordLearningRecord tracks per-user, per-word, per-stage attempts.
// Unique per (user, word, stage); counters only ever grow.
type WordLearningRecord struct {
	gorm.Model
	UserID      uint      `gorm:"not null;uniqueIndex:uix_user_word_stage" json:"user_id"`
	WordID      uint      `gorm:"not null;uniqueIndex:uix_user_word_stage" json:"word_id"`
	Stage       int       `gorm:"not null;uniqueIndex:uix_user_word_stage" json:"stage"`
	Attempts    int       `gorm:"default:0" json:"attempts"`
	Correct     int       `gorm:"default:0" json:"correct"`
	LastAttempt time.Time `json:"last_attempt"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Word Word `gorm:"foreignKey:WordID" json:"-"`
}

// Accuracy is the rounded percentage of correct attempts, 0 when the
// record has no attempts yet.
func (r *WordLearningRecord) Accuracy() int {
	if r.Attempts == 0 {
		return 0
	}
	return int(float64(r.Correct)/float64(r.Attempts)*100 + 0.5)
}
