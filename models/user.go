package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a learner. Users are created on first login by
// username and never deleted by the normal flow.
type User struct {
	gorm.Model
	Username string `gorm:"unique;not null;size:50" json:"username"`
	IsAdmin  bool   `gorm:"default:false" json:"is_admin"`

	Progress        []UserProgress       `gorm:"foreignKey:UserID" json:"-"`
	LearningRecords []WordLearningRecord `gorm:"foreignKey:UserID" json:"-"`
	Scores          []Score              `gorm:"foreignKey:UserID" json:"-"`
}

// UserProgress is the per-user, per-group, per-stage completion record.
// Stage is 1=recognition, 2=typed-copy, 3=recall. Created lazily on the
// first submission for the triple, then mutated in place.
type UserProgress struct {
	gorm.Model
	UserID       uint      `gorm:"not null;uniqueIndex:uix_user_group_stage" json:"user_id"`
	GroupID      uint      `gorm:"not null;uniqueIndex:uix_user_group_stage" json:"group_id"`
	Stage        int       `gorm:"not null;uniqueIndex:uix_user_group_stage" json:"stage"`
	Completed    bool      `gorm:"default:false" json:"completed"`
	Accuracy     float64   `gorm:"default:0" json:"accuracy"`
	LastPractice time.Time `json:"last_practice"`

	User  User      `gorm:"foreignKey:UserID" json:"-"`
	Group WordGroup `gorm:"foreignKey:GroupID" json:"-"`
}
