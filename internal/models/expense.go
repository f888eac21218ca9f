package models

import "time"

// Expense is a single spend owned by one user and filed under one category.
type Expense struct {
	Base
	Description string    `gorm:"not null" json:"description" validate:"max=255"`
	Amount      float64   `gorm:"not null" json:"amount" validate:"finite,gt=0"`
	Date        time.Time `gorm:"type:date;not null" json:"date" validate:"required,notfuture"`
	CategoryID  uint      `gorm:"not null" json:"category_id" validate:"required"`
	UserID      uint      `gorm:"not null" json:"user_id" validate:"required"`
}

// OwnedBy reports whether userID owns the expense.
func (e *Expense) OwnedBy(userID uint) bool {
	return e.UserID == userID
}
