package model

import "time"

// Category groups products. ParentCategoryID is a plain self-reference: it is not
// checked for existence or cycles.
type Category struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	Name             string     `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	Description      string     `json:"description" gorm:"type:varchar(500)"`
	ParentCategoryID *uint      `json:"parent_category_id" gorm:"index"`
	Active           bool       `json:"active" gorm:"column:is_active;not null"`
	CreatedDate      time.Time  `json:"created_date" gorm:"not null"`
	UpdatedDate      *time.Time `json:"updated_date"`
}

func (Category) TableName() string { return "categories" }
