package domain

import "time"

// User is an account holder. Password holds the bcrypt-encoded credential,
// never the plaintext; it must not be serialized into responses.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;not null"`
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	Avatar    string `gorm:"not null;default:''"`
	CreatedAt time.Time
}
