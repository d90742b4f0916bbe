package main

import (
	"context"
	"log"
	"time"

	"navm8/internal/config"
	"navm8/internal/database"
	"navm8/internal/domain"
	"navm8/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Seeds a handful of demo users, tours and bookings for local development.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := repository.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM messages")
	db.Exec("DELETE FROM conversations")
	db.Exec("DELETE FROM reviews")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM tours")
	db.Exec("DELETE FROM refresh_tokens")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	tours := repository.NewTourRepository(db)
	bookings := repository.NewBookingRepository(db)

	log.Println("Creating users...")
	demoUsers := []struct {
		username, email, first, last string
	}{
		{"marco", "marco@navm8.dev", "Marco", "Rossi"},
		{"yuki", "yuki@navm8.dev", "Yuki", "Tanaka"},
		{"lena", "lena@navm8.dev", "Lena", "Fischer"},
	}

	created := make([]*domain.User, 0, len(demoUsers))
	for _, du := range demoUsers {
		hash, _ := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
		u := &domain.User{
			Username:     du.username,
			Email:        du.email,
			PasswordHash: string(hash),
			FirstName:    du.first,
			LastName:     du.last,
		}
		if err := users.Create(ctx, u); err != nil {
			log.Fatal("user create failed:", err)
		}
		created = append(created, u)
	}
	log.Printf("Created %d users (password: demo1234)", len(created))

	log.Println("Creating tours...")
	nextSaturday := upcomingSaturday()
	demoTours := []*domain.Tour{
		{
			AuthorID:           created[0].ID,
			Name:               "Hidden Courtyards of Rome",
			Country:            "Italy",
			City:               "Rome",
			MaxPeople:          6,
			TypeOfAvailability: domain.AvailabilityRecurring,
			Availability:       domain.RecurringWeekdays,
			From:               "10:00",
			To:                 "13:00",
			Description:        "A slow walk through courtyards most visitors never find.",
		},
		{
			AuthorID:           created[1].ID,
			Name:               "Tokyo Ramen Crawl",
			Country:            "Japan",
			City:               "Tokyo",
			MaxPeople:          4,
			TypeOfAvailability: domain.AvailabilityRecurring,
			Availability:       domain.RecurringDaily,
			From:               "18:00",
			To:                 "21:30",
		},
		{
			AuthorID:           created[2].ID,
			Name:               "Berlin Street Art Day",
			Country:            "Germany",
			City:               "Berlin",
			MaxPeople:          8,
			TypeOfAvailability: domain.AvailabilityOneTime,
			Date:               &nextSaturday,
			From:               "11:00",
			To:                 "16:00",
		},
	}
	for _, t := range demoTours {
		if err := tours.Create(ctx, t); err != nil {
			log.Fatal("tour create failed:", err)
		}
	}
	log.Printf("Created %d tours", len(demoTours))

	log.Println("Creating bookings...")
	monday := upcomingWeekday(time.Monday)
	b := &domain.Booking{
		TourID: demoTours[0].ID,
		UserID: created[1].ID,
		Date:   monday,
		Status: domain.BookingPending,
	}
	if err := bookings.CreateReserving(ctx, b, demoTours[0].MaxPeople); err != nil {
		log.Fatal("booking create failed:", err)
	}
	log.Println("Done.")
}

func upcomingSaturday() time.Time {
	return upcomingWeekday(time.Saturday)
}

func upcomingWeekday(wd time.Weekday) time.Time {
	now := time.Now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for day.Weekday() != wd || !day.After(now) {
		day = day.AddDate(0, 0, 1)
	}
	return day
}
