package config

import (
	"fmt"
	"os"
	"time"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"

// Tickets stay scannable for this long after the match starts before they are
// lazily flipped to EXPIRED.
const DEFAULT_GRACE_WINDOW = 4 * time.Hour

// How many fresh codes Issue tries after a ticket_uuid unique violation before
// giving up on the whole batch.
const CODE_RETRY_BUDGET = 3

func GetGraceWindow() time.Duration {
	raw := os.Getenv("TICKET_GRACE_WINDOW")
	if raw == "" {
		return DEFAULT_GRACE_WINDOW
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return DEFAULT_GRACE_WINDOW
	}
	return d
}
