package models

import "time"

// Skill belongs to exactly one SkillCategory. Proficiency is a 0-100 scale.
type Skill struct {
	ID           uint      `json:"id" db:"id" gorm:"primaryKey"`
	Name         string    `json:"name" db:"name" gorm:"type:varchar(100);not null"`
	CategoryID   uint      `json:"category_id" db:"category_id" gorm:"not null;index"`
	Proficiency  int       `json:"proficiency" db:"proficiency" gorm:"not null;default:80"`
	DisplayOrder int       `json:"display_order" db:"display_order" gorm:"not null;default:0"`
	IsPublished  bool      `json:"is_published" db:"is_published" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
