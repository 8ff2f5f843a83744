package domain

import "time"

// Category groups a user's todos. Deleting a category detaches its todos
// (category reference set to NULL) rather than deleting them.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Color     string
	Icon      string
	UserID    uint `gorm:"not null;index"`
	CreatedAt time.Time
}
