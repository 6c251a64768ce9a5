package models

import (
	"log"
	"stb/src/lib"
	"stb/src/types"
	"time"

	"github.com/google/uuid"
)

type Ticket struct {
	ID           uint               `gorm:"primarykey" json:"id"`
	TicketUUID   uuid.UUID          `gorm:"type:uuid;uniqueIndex" json:"ticket_uuid"`
	EventID      uint               `json:"event_id"`
	UserID       uint               `json:"user_id"`
	TicketType   string             `json:"ticket_type"`
	Price        float32            `json:"price"`
	Quantity     uint               `gorm:"default:1" json:"quantity"`
	SeatNumber   *string            `json:"seat_number,omitempty"`
	Status       types.TicketStatus `gorm:"default:'ACTIVE'" json:"status"`
	PurchaseDate time.Time          `gorm:"autoCreateTime" json:"purchase_date"`
	UsedAt       *time.Time         `json:"used_at,omitempty"`

	Event Event `json:"event_details,omitempty"`
	User  User  `json:"-"`

	types.Timestamps
}

func TicketsIssuedProducer(payload map[string]any) {
	err := lib.KafkaProduceMessage("tickets_issued_producer", "tickets-issued", payload)
	if err != nil {
		log.Printf("Error on producing message: %s\n", err.Error())
	}
}

func TicketConsumedProducer(payload map[string]any) {
	err := lib.KafkaProduceMessage("tickets_consumed_producer", "tickets-consumed", payload)
	if err != nil {
		log.Printf("Error on producing message: %s\n", err.Error())
	}
}
