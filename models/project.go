package models

import (
	"time"

	"gorm.io/datatypes"
)

// ProjectImage is one entry of a project's image gallery.
type ProjectImage struct {
	URL       string `json:"url"`
	Alt       string `json:"alt,omitempty"`
	IsPrimary bool   `json:"is_primary"`
}

// Project represents a portfolio project with metadata
type Project struct {
	ID              uint                              `json:"id" db:"id" gorm:"primaryKey"`
	Title           string                            `json:"title" db:"title" gorm:"type:varchar(255);not null"`
	Slug            string                            `json:"slug" db:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	Description     string                            `json:"description" db:"description" gorm:"type:text;not null"`
	LongDescription *string                           `json:"long_description,omitempty" db:"long_description" gorm:"type:text"`
	Technologies    datatypes.JSONSlice[string]       `json:"technologies" db:"technologies"`
	Images          datatypes.JSONSlice[ProjectImage] `json:"images" db:"images"`
	GithubURL       *string                           `json:"github_url" db:"github_url" gorm:"type:varchar(500)"`
	LiveURL         *string                           `json:"live_url" db:"live_url" gorm:"type:varchar(500)"`
	IsFeatured      bool                              `json:"is_featured" db:"is_featured" gorm:"not null;default:false"`
	IsPublished     bool                              `json:"is_published" db:"is_published" gorm:"not null;default:false"`
	DisplayOrder    int                               `json:"display_order" db:"display_order" gorm:"not null;default:0"`
	CreatedAt       time.Time                         `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time                         `json:"updated_at" db:"updated_at"`
}
