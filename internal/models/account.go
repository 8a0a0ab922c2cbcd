package models

import "gorm.io/gorm"

// Account represents a strategy owner. It is created implicitly the first
// time an owner creates a strategy and is never deleted.
type Account struct {
	gorm.Model
	Owner string `gorm:"uniqueIndex;not null" json:"owner"`
}
