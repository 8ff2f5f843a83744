package domain

import "time"

// SubTask is a checklist item belonging to a todo. Deleting the todo
// deletes its subtasks.
type SubTask struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	IsCompleted bool   `gorm:"not null;default:false"`
	TodoID      uint   `gorm:"not null;index"`
	CreatedAt   time.Time
}
