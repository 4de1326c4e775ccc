package models

import "gorm.io/gorm"

// WaitlistEntry is one prospective user. The unique index on Email is what
// rejects repeat sign-ups; nothing checks for duplicates before the insert.
type WaitlistEntry struct {
	gorm.Model
	Email string `gorm:"not null;uniqueIndex;size:255"`
}
