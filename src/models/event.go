package models

import (
	"stb/src/types"
	"time"
)

type Event struct {
	ID         uint              `gorm:"primarykey" json:"id"`
	Name       string            `json:"name"`
	Time       time.Time         `json:"time"`
	TeamHomeID uint              `json:"team_home"`
	TeamAwayID uint              `json:"team_away"`
	StadiumID  uint              `json:"stadium"`
	ScoreHome  int               `json:"score_home"`
	ScoreAway  int               `json:"score_away"`
	Status     types.EventStatus `gorm:"default:'scheduled'" json:"status,omitempty"`

	TeamHome TeamRef  `gorm:"foreignKey:TeamHomeID;references:ID" json:"team_home_details,omitempty"`
	TeamAway TeamRef  `gorm:"foreignKey:TeamAwayID;references:ID" json:"team_away_details,omitempty"`
	Stadium  Stadium  `json:"stadium_details,omitempty"`
	Tickets  []Ticket `json:"tickets,omitempty"`

	types.Timestamps
}

// TeamRef keeps event JSON small: only the fields the mobile app shows.
type TeamRef struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo,omitempty"`
}

func (TeamRef) TableName() string { return "teams" }
