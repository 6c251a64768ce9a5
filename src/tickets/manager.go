// Package tickets owns the ticket lifecycle: issuing new tickets for a match
// and verifying/consuming them at the gate. All durable state lives in the
// tickets table; at-most-once consumption is enforced with conditional
// updates, never with in-memory locks.
package tickets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"stb/src/config"
	"stb/src/db"
	"stb/src/lib"
	"stb/src/models"
	"stb/src/pricing"
	"stb/src/types"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrInvalidCategory = pricing.ErrInvalidCategory
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrStorage         = errors.New("storage failure")
)

type Manager struct {
	Prices *pricing.Table
	Grace  time.Duration
}

func NewManager(table *pricing.Table, grace time.Duration) *Manager {
	return &Manager{Prices: table, Grace: grace}
}

// VerificationResult is the structured outcome of Verify, Consume and Cancel.
// Transitioned is true only when the call itself moved the ticket to a
// terminal status.
type VerificationResult struct {
	Outcome      types.VerificationOutcome `json:"status"`
	Ticket       *models.Ticket            `json:"ticket,omitempty"`
	UsedAt       *time.Time                `json:"used_at,omitempty"`
	Transitioned bool                      `json:"-"`
}

// Issue creates one Ticket row per admission unit requested, all inside a
// single transaction. Validation happens before any write, so a failed
// purchase never leaves partial rows behind.
func (m *Manager) Issue(ctx context.Context, eventId uint, userId uint, category string, quantity int) ([]models.Ticket, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	price, err := m.Prices.PriceFor(category)
	if err != nil {
		return nil, err
	}
	event, err := m.ResolveEvent(ctx, eventId)
	if err != nil {
		return nil, err
	}

	conn := db.GetDb()
	for attempt := 0; attempt <= config.CODE_RETRY_BUDGET; attempt++ {
		batch := make([]models.Ticket, quantity)
		for i := range batch {
			batch[i] = models.Ticket{
				TicketUUID: uuid.New(),
				EventID:    event.ID,
				UserID:     userId,
				TicketType: category,
				Price:      price,
				Quantity:   1,
				Status:     types.TICKET_ACTIVE,
			}
		}
		err = conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(&batch).Error
		})
		if err == nil {
			go models.TicketsIssuedProducer(map[string]any{
				"event_id": event.ID,
				"user_id":  userId,
				"category": category,
				"quantity": quantity,
			})
			return batch, nil
		}
		if !isDuplicateCode(err) {
			log.Printf("Error persisting tickets for event [%d]: %s\n", eventId, err.Error())
			return nil, fmt.Errorf("%w: %s", ErrStorage, err.Error())
		}
		log.Printf("ticket_uuid collision on attempt %d, regenerating codes\n", attempt+1)
	}
	return nil, fmt.Errorf("%w: code retry budget exhausted", ErrStorage)
}

// Verify is read-only and idempotent: it classifies the ticket without ever
// mutating it, so repeated scans of the same code agree until Consume runs.
func (m *Manager) Verify(ctx context.Context, code string) (*VerificationResult, error) {
	ticket, err := m.findByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return &VerificationResult{Outcome: types.OUTCOME_NOT_FOUND}, nil
	}
	if ticket.Status == types.TICKET_ACTIVE {
		event, err := m.ResolveEvent(ctx, ticket.EventID)
		if err != nil {
			return nil, err
		}
		if m.lapsed(event, time.Now()) {
			return &VerificationResult{Outcome: types.OUTCOME_EXPIRED, Ticket: ticket}, nil
		}
		return &VerificationResult{Outcome: types.OUTCOME_VALID, Ticket: ticket}, nil
	}
	return m.classify(ticket), nil
}

// Consume is the only transition to USED. The status check and the update are
// a single conditional UPDATE, so two scanners racing on the same code get
// exactly one success.
func (m *Manager) Consume(ctx context.Context, code string) (*VerificationResult, error) {
	ticket, err := m.findByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return &VerificationResult{Outcome: types.OUTCOME_NOT_FOUND}, nil
	}
	if ticket.Status != types.TICKET_ACTIVE {
		return m.classify(ticket), nil
	}

	event, err := m.ResolveEvent(ctx, ticket.EventID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if m.lapsed(event, now) {
		// Lazy ACTIVE -> EXPIRED, guarded the same way as consumption.
		res, err := m.transition(ctx, code, types.TICKET_EXPIRED, nil)
		if err != nil {
			return nil, err
		}
		if !res {
			return m.reclassify(ctx, code)
		}
		ticket.Status = types.TICKET_EXPIRED
		return &VerificationResult{Outcome: types.OUTCOME_EXPIRED, Ticket: ticket, Transitioned: true}, nil
	}

	ok, err := m.transition(ctx, code, types.TICKET_USED, &now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return m.reclassify(ctx, code)
	}
	ticket.Status = types.TICKET_USED
	ticket.UsedAt = &now
	go models.TicketConsumedProducer(map[string]any{
		"ticket_uuid": code,
		"event_id":    ticket.EventID,
		"used_at":     now,
	})
	return &VerificationResult{
		Outcome:      types.OUTCOME_VALID,
		Ticket:       ticket,
		UsedAt:       &now,
		Transitioned: true,
	}, nil
}

// Cancel is the admin edge of the state machine: ACTIVE -> CANCELLED. Rows are
// never deleted.
func (m *Manager) Cancel(ctx context.Context, code string) (*VerificationResult, error) {
	ticket, err := m.findByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return &VerificationResult{Outcome: types.OUTCOME_NOT_FOUND}, nil
	}
	if ticket.Status != types.TICKET_ACTIVE {
		return m.classify(ticket), nil
	}
	ok, err := m.transition(ctx, code, types.TICKET_CANCELLED, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return m.reclassify(ctx, code)
	}
	ticket.Status = types.TICKET_CANCELLED
	return &VerificationResult{Outcome: types.OUTCOME_CANCELLED, Ticket: ticket, Transitioned: true}, nil
}

// ResolveEvent looks up an event through a redis read-through cache. A cache
// miss or an unavailable redis falls back to the events table.
func (m *Manager) ResolveEvent(ctx context.Context, id uint) (*models.Event, error) {
	cacheKey := fmt.Sprintf("event:%d:catalog", id)
	rd := lib.GetRedisClient()
	if rd != nil {
		if val := rd.Get(ctx, cacheKey).Val(); val != "" {
			var event models.Event
			if err := json.Unmarshal([]byte(val), &event); err == nil {
				return &event, nil
			}
		}
	}
	var event models.Event
	err := db.GetDb().WithContext(ctx).
		Where(&models.Event{ID: id}).
		First(&event).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrEventNotFound, id)
		}
		return nil, fmt.Errorf("%w: %s", ErrStorage, err.Error())
	}
	if rd != nil {
		if raw, err := json.Marshal(&event); err == nil {
			go rd.SetEx(context.Background(), cacheKey, string(raw), 5*time.Minute)
		}
	}
	return &event, nil
}

func (m *Manager) findByCode(ctx context.Context, code string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := db.GetDb().WithContext(ctx).
		Where("ticket_uuid = ?", code).
		First(&ticket).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrStorage, err.Error())
	}
	return &ticket, nil
}

// transition performs the guarded status update and reports whether this call
// won the row.
func (m *Manager) transition(ctx context.Context, code string, to types.TicketStatus, usedAt *time.Time) (bool, error) {
	values := map[string]any{"status": to}
	if usedAt != nil {
		values["used_at"] = *usedAt
	}
	res := db.GetDb().WithContext(ctx).
		Model(&models.Ticket{}).
		Where("ticket_uuid = ? AND status = ?", code, types.TICKET_ACTIVE).
		Updates(values)
	if res.Error != nil {
		return false, fmt.Errorf("%w: %s", ErrStorage, res.Error.Error())
	}
	return res.RowsAffected == 1, nil
}

// reclassify re-reads a ticket after a lost conditional update to report the
// status the winner left behind.
func (m *Manager) reclassify(ctx context.Context, code string) (*VerificationResult, error) {
	ticket, err := m.findByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return &VerificationResult{Outcome: types.OUTCOME_NOT_FOUND}, nil
	}
	return m.classify(ticket), nil
}

func (m *Manager) classify(ticket *models.Ticket) *VerificationResult {
	switch ticket.Status {
	case types.TICKET_USED:
		return &VerificationResult{Outcome: types.OUTCOME_ALREADY_USED, Ticket: ticket, UsedAt: ticket.UsedAt}
	case types.TICKET_CANCELLED:
		return &VerificationResult{Outcome: types.OUTCOME_CANCELLED, Ticket: ticket}
	case types.TICKET_EXPIRED:
		return &VerificationResult{Outcome: types.OUTCOME_EXPIRED, Ticket: ticket}
	}
	return &VerificationResult{Outcome: types.OUTCOME_VALID, Ticket: ticket}
}

func (m *Manager) lapsed(event *models.Event, now time.Time) bool {
	return now.After(event.Time.Add(m.Grace))
}

func isDuplicateCode(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key") && strings.Contains(err.Error(), "ticket_uuid")
}

// SweepExpired bulk-applies the lazy ACTIVE -> EXPIRED transition for tickets
// whose event started more than the grace window ago. Run periodically from
// the scheduler; Verify/Consume stay correct without it.
func (m *Manager) SweepExpired(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-m.Grace)
	res := db.GetDb().WithContext(ctx).
		Model(&models.Ticket{}).
		Where("status = ?", types.TICKET_ACTIVE).
		Where("event_id IN (?)", db.GetDb().
			Model(&models.Event{}).
			Select("id").
			Where("time < ?", cutoff),
		).
		Update("status", types.TICKET_EXPIRED)
	if res.Error != nil {
		return 0, fmt.Errorf("%w: %s", ErrStorage, res.Error.Error())
	}
	return res.RowsAffected, nil
}
