package models

import "time"

// JobRun records when a named background job last executed, so at-most-once
// daily guarantees survive process restarts.
type JobRun struct {
	ID      uint      `gorm:"primaryKey"`
	Name    string    `gorm:"uniqueIndex;size:50;not null"`
	LastRun time.Time `gorm:"not null"`
}
