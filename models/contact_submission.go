package models

import "time"

// ContactSubmission is one contact-form message. Rows are immutable after
// creation except for the is_read/is_archived flags.
type ContactSubmission struct {
	ID         uint      `json:"id" db:"id" gorm:"primaryKey"`
	FirstName  string    `json:"first_name" db:"first_name" gorm:"type:varchar(100);not null"`
	LastName   *string   `json:"last_name,omitempty" db:"last_name" gorm:"type:varchar(100)"`
	Email      string    `json:"email" db:"email" gorm:"type:varchar(255);not null"`
	Message    string    `json:"message" db:"message" gorm:"type:text;not null"`
	IsRead     bool      `json:"is_read" db:"is_read" gorm:"not null;default:false"`
	IsArchived bool      `json:"is_archived" db:"is_archived" gorm:"not null;default:false"`
	IPAddress  *string   `json:"ip_address" db:"ip_address" gorm:"type:varchar(45)"`
	UserAgent  *string   `json:"user_agent,omitempty" db:"user_agent" gorm:"type:varchar(500)"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
