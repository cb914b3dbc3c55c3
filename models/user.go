package models

import "time"

// User represents a staff account. Password holds a bcrypt hash and is
// never serialized.
type User struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Name     string  `gorm:"not null" json:"name"`
	UserName string  `gorm:"uniqueIndex;not null" json:"user_name"`
	Phone    *string `json:"phone"`
	Email    string  `gorm:"uniqueIndex;not null" json:"email"`
	Password string  `gorm:"not null" json:"-"`
	Role     string  `json:"role"`
	Country  *string `json:"country"`
	City     *string `json:"city"`
	Status   *bool   `gorm:"default:false" json:"status"`
	Picture  *string `json:"picture"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
