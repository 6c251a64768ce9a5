package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Metadata = JSONB

type TicketStatus string

const (
	TICKET_ACTIVE    TicketStatus = "ACTIVE"
	TICKET_USED      TicketStatus = "USED"
	TICKET_CANCELLED TicketStatus = "CANCELLED"
	TICKET_EXPIRED   TicketStatus = "EXPIRED"
)

type EventStatus string

const (
	EVENT_SCHEDULED EventStatus = "scheduled"
	EVENT_LIVE      EventStatus = "live"
	EVENT_FINISHED  EventStatus = "finished"
	EVENT_ARCHIVED  EventStatus = "archived"
)

// VerificationOutcome tags every Verify/Consume result. The gate UI renders a
// different message per tag, so these are never collapsed into a generic
// "invalid".
type VerificationOutcome string

const (
	OUTCOME_VALID        VerificationOutcome = "valid"
	OUTCOME_NOT_FOUND    VerificationOutcome = "not_found"
	OUTCOME_ALREADY_USED VerificationOutcome = "already_used"
	OUTCOME_CANCELLED    VerificationOutcome = "cancelled"
	OUTCOME_EXPIRED      VerificationOutcome = "expired"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type TicketCodeURIParams struct {
	Code string `uri:"code" binding:"required,uuid"`
}

type PurchaseTicketRequestBody struct {
	EventID  uint   `json:"event_id" binding:"required"`
	Category string `json:"category" binding:"required"`
	Quantity int    `json:"quantity,omitempty"`
}

type CreateEventRequestBody struct {
	Name      string `json:"name" binding:"required"`
	Time      string `json:"time" binding:"required,matchdate" time_format:"2006-01-02 15:04:05 -07:00"`
	TeamHome  uint   `json:"team_home" binding:"required"`
	TeamAway  uint   `json:"team_away" binding:"required,nefield=TeamHome"`
	StadiumID uint   `json:"stadium" binding:"required"`
}

type UpdateEventRequestBody struct {
	Name      *string `json:"name,omitempty"`
	Time      *string `json:"time,omitempty" binding:"omitempty,matchdate" time_format:"2006-01-02 15:04:05 -07:00"`
	ScoreHome *int    `json:"score_home,omitempty"`
	ScoreAway *int    `json:"score_away,omitempty"`
}

type CreateTeamRequestBody struct {
	Name    string `json:"name" binding:"required"`
	LogoURL string `json:"logo,omitempty"`
}

type CreateStadiumRequestBody struct {
	Name          string `json:"name" binding:"required"`
	AccessMotor   bool   `json:"access_motor,omitempty"`
	AccessMental  bool   `json:"access_mental,omitempty"`
	AccessVisual  bool   `json:"access_visual,omitempty"`
	AccessHearing bool   `json:"access_hearing,omitempty"`
}

type RegisterUserRequestBody struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=Password"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
}

type LoginRequestBody struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
