package model

import "time"

// User is a back-office operator account
type User struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Username      string     `json:"username" gorm:"type:varchar(50);uniqueIndex;not null"`
	Email         string     `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	FirstName     string     `json:"first_name" gorm:"type:varchar(50);not null"`
	LastName      string     `json:"last_name" gorm:"type:varchar(50);not null"`
	Enabled       bool       `json:"enabled" gorm:"not null"`
	CreatedDate   time.Time  `json:"created_date" gorm:"not null"`
	LastLoginDate *time.Time `json:"last_login_date"`
}

func (User) TableName() string { return "users" }
