package models

import "gorm.io/gorm"

// AdminAuth holds the bcrypt hash of the single admin password. The
// table is expected to contain at most one row.
type AdminAuth struct {
	gorm.Model
	PasswordHash string `gorm:"not null;size:128" json:"-"`
}
