package models

import "gorm.io/gorm"

// WordGroup is an ordered batch of words. Sequence determines unlock
// order: group N unlocks once stage 3 of group N-1 is completed.
type WordGroup struct {
	gorm.Model
	Name        string `gorm:"not null;size:100" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	Sequence    int    `gorm:"not null;default:1" json:"sequence"`

	GroupWords   []GroupWord    `gorm:"foreignKey:GroupID" json:"-"`
	UserProgress []UserProgress `gorm:"foreignKey:GroupID" json:"-"`
}

// GroupWord joins words to groups. A word may belong to any number of
// groups; the pair itself is unique.
type GroupWord struct {
	gorm.Model
	GroupID uint `gorm:"not null;uniqueIndex:uix_group_word" json:"group_id"`
	WordID  uint `gorm:"not null;uniqueIndex:uix_group_word" json:"word_id"`

	Group WordGroup `gorm:"foreignKey:GroupID" json:"-"`
	Word  Word      `gorm:"foreignKey:WordID" json:"-"`
}
