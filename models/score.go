package models

import (
	"time"

	"gorm.io/gorm"
)

// Score is one finished session. Rows are append-only; rankings order by
// score desc then time_spent asc. Level is a free-form key, typically
// "group_<id>_stage_<stage>".
type Score struct {
	gorm.Model
	UserID    uint    `gorm:"not null;index" json:"user_id"`
	Score     float64 `gorm:"not null" json:"score"`
	Level     string  `gorm:"not null;size:50;index" json:"level"`
	TimeSpent int     `gorm:"not null" json:"time_spent"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// ScoreEntry is the leaderboard row shape handed to clients.
type ScoreEntry struct {
	Username  string    `json:"username"`
	Score     float64   `json:"score"`
	Level     string    `json:"level"`
	TimeSpent int       `json:"time_spent"`
	CreatedAt time.Time `json:"created_at"`
}
