package boot

import (
	"context"
	"log"
	"stb/src/db"
	"stb/src/lib"
	"stb/src/models"
	"stb/src/tickets"
	"time"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Stadium{},
		&models.Event{},
		&models.Ticket{},
		&models.ScanLog{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

func InitBroker() {
	go lib.KafkaCreateTopics("tickets-issued", "tickets-consumed")
}

// InitScheduler starts the background sweep that flips ACTIVE tickets of
// long-finished matches to EXPIRED. Verify and Consume apply the same rule
// lazily, so the sweep only keeps the table tidy.
func InitScheduler(manager *tickets.Manager) {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	id, err := lib.CreateCronJob(func() {
		n, err := manager.SweepExpired(context.Background())
		if err != nil {
			log.Printf("Error sweeping expired tickets: %s\n", err.Error())
			return
		}
		if n > 0 {
			log.Printf("Expired %d stale tickets\n", n)
		}
	}, 15*time.Minute)
	if err != nil {
		log.Printf("Error scheduling expiry sweep: %s\n", err.Error())
		return
	}
	log.Printf("Expiry sweep scheduled, job ID: %s\n", *id)
	sched.Start()
}
