package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null"                  json:"-"`
	Role         string    `gorm:"size:20;not null"          json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"                json:"id"`
	UserID    uint      `gorm:"index;not null"            json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	JTI       string    `gorm:"size:64;uniqueIndex;not null" json:"jti"`
	TokenHash string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null"                  json:"expires_at"`
	Revoked   bool      `gorm:"not null"                  json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}
