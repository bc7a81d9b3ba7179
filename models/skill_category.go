package models

import "time"

// SkillCategory groups skills for the public skills page. Deleting a
// category deletes every skill that belongs to it.
type SkillCategory struct {
	ID           uint      `json:"id" db:"id" gorm:"primaryKey"`
	Name         string    `json:"name" db:"name" gorm:"type:varchar(100);not null"`
	Slug         string    `json:"slug" db:"slug" gorm:"type:varchar(100);uniqueIndex;not null"`
	Icon         string    `json:"icon" db:"icon" gorm:"type:varchar(50);not null"`
	Description  *string   `json:"description,omitempty" db:"description" gorm:"type:varchar(500)"`
	DisplayOrder int       `json:"display_order" db:"display_order" gorm:"not null;default:0"`
	IsPublished  bool      `json:"is_published" db:"is_published" gorm:"not null;default:true"`
	Skills       []Skill   `json:"skills" gorm:"foreignKey:CategoryID;references:ID"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
