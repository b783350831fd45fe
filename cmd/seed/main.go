package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"boxoffice/internal/seating"
	"boxoffice/internal/shared/config"
	"boxoffice/internal/shared/database"

	"github.com/joho/godotenv"
)

type Seeder struct {
	seats seating.Service
	cfg   *config.Config
}

func main() {
	fmt.Println("🌱 Starting boxoffice seat pool seeder...")

	_ = godotenv.Load()
	cfg := config.Load()

	// The seat pool lives in Redis only
	db, err := database.InitRedis(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{
		seats: seating.NewService(db.GetRedisClient()),
		cfg:   cfg,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("\n🧹 Resetting seat pool...")
	if err := seeder.seats.ResetPool(ctx); err != nil {
		log.Fatalf("Failed to reset seat pool: %v", err)
	}
	fmt.Println("✅ Seat pool reset")

	fmt.Println("\n🌱 Seeding seats...")
	if err := seeder.SeedAll(ctx); err != nil {
		log.Fatalf("Failed to seed seats: %v", err)
	}

	fmt.Println("\n🎉 Seeding completed! Seat pool is ready for purchases.")
}

// SeedAll fills the pool with the configured rows of seats
func (s *Seeder) SeedAll(ctx context.Context) error {
	rows, perRow := s.cfg.Seating.Rows, s.cfg.Seating.SeatsPerRow

	added, err := s.seats.SeedSeats(ctx, rows, perRow)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Added %d seats (%d rows x %d seats, %s to %s)\n",
		added, rows, perRow, seating.SeatID(0, 1), seating.SeatID(rows-1, perRow))

	availability, err := s.seats.Availability(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("📊 Available: %d, reserved: %d, assigned: %d\n",
		availability.Available, availability.Reserved, availability.Assigned)
	return nil
}
