package model

import "time"

// Customer is a purchaser, unrelated to back-office users
type Customer struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	FirstName   string     `json:"first_name" gorm:"type:varchar(50);not null"`
	LastName    string     `json:"last_name" gorm:"type:varchar(50);not null"`
	Email       string     `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Phone       string     `json:"phone" gorm:"type:varchar(20)"`
	Address     string     `json:"address" gorm:"type:varchar(500)"`
	City        string     `json:"city"`
	State       string     `json:"state"`
	PostalCode  string     `json:"postal_code"`
	Country     string     `json:"country"`
	Active      bool       `json:"active" gorm:"column:is_active;not null"`
	CreatedDate time.Time  `json:"created_date" gorm:"not null"`
	UpdatedDate *time.Time `json:"updated_date"`
}

func (Customer) TableName() string { return "customers" }
