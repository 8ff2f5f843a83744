package domain

import "time"

// Priority is the urgency level of a todo.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Todo is a task owned by a user. Progress is a cached value derived from
// the subtask set; it is refreshed inside the same transaction as every
// subtask mutation.
type Todo struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string
	IsCompleted bool       `gorm:"not null;default:false"`
	Priority    Priority   `gorm:"type:varchar(10);not null;default:'medium'"`
	DueDate     *time.Time `gorm:"type:date"`
	HasReminder bool       `gorm:"not null;default:false"`
	UserID      uint       `gorm:"not null;index"`
	CategoryID  *uint      `gorm:"index"`
	ParentID    *uint      `gorm:"index"`
	Progress    int        `gorm:"not null;default:0"`
	SubTasks    []SubTask  `gorm:"foreignKey:TodoID"`
	Category    *Category  `gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
