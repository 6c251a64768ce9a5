package models

import "stb/src/types"

type Team struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	Name    string `gorm:"uniqueIndex" json:"name"`
	Slug    string `json:"slug,omitempty"`
	LogoURL string `json:"logo,omitempty"`

	types.Timestamps
}
