package models

import (
	"stb/src/types"

	"github.com/google/uuid"
)

// ScanLog records every gate verification attempt, including the ones that
// fail. A "never existed" scan and an "already used" scan are different audit
// events.
type ScanLog struct {
	ID        uuid.UUID                 `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	Code      string                    `json:"code"`
	Outcome   types.VerificationOutcome `json:"outcome"`
	Consuming bool                      `json:"consuming"`
	ScannedBy *uint                     `json:"scanned_by,omitempty"`

	types.Timestamps
}
