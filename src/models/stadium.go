package models

import "stb/src/types"

type Stadium struct {
	ID            uint   `gorm:"primarykey" json:"id"`
	Name          string `json:"name"`
	AccessMotor   bool   `json:"access_motor"`
	AccessMental  bool   `json:"access_mental"`
	AccessVisual  bool   `json:"access_visual"`
	AccessHearing bool   `json:"access_hearing"`

	types.Timestamps
}
