package models

import "stb/src/types"

type User struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Username     string `gorm:"uniqueIndex" json:"username"`
	Email        string `gorm:"uniqueIndex" json:"email,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	PasswordHash string `json:"-"`
	Role         string `gorm:"default:'user'" json:"role,omitempty"`

	Tickets []Ticket `gorm:"foreignKey:UserID" json:"tickets,omitempty"`

	types.Timestamps
}
