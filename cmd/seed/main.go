package main

import (
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/railbook/railbook/config"
	"github.com/railbook/railbook/internal/database"
	"github.com/railbook/railbook/internal/model"
)

// Seeds an admin account and a few sample trains for local development.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Train{}, &model.Booking{}); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	adminName := os.Getenv("ADMIN_NAME")
	if adminName == "" {
		adminName = "admin"
	}
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		log.Fatal("ADMIN_PASSWORD is empty")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var admin model.User
	err = db.Where(&model.User{Name: adminName}).
		Attrs(model.User{HashedPassword: string(hashed), Role: model.RoleAdmin}).
		FirstOrCreate(&admin).Error
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	log.Printf("admin user %q ready (id=%d)", admin.Name, admin.ID)

	tomorrow := time.Now().AddDate(0, 0, 1).Truncate(24 * time.Hour)
	trains := []model.Train{
		{
			Number: "12301", Name: "Howrah Rajdhani",
			Source: "New Delhi", Destination: "Howrah",
			DepartureTime: "16:55", ArrivalTime: "09:55",
			JourneyDate: tomorrow, TotalSeats: 120, AvailableSeats: 120, Price: 1450,
		},
		{
			Number: "12952", Name: "Mumbai Rajdhani",
			Source: "New Delhi", Destination: "Mumbai Central",
			DepartureTime: "17:25", ArrivalTime: "08:35",
			JourneyDate: tomorrow, TotalSeats: 90, AvailableSeats: 90, Price: 1320,
		},
		{
			Number: "12002", Name: "Bhopal Shatabdi",
			Source: "New Delhi", Destination: "Bhopal",
			DepartureTime: "06:00", ArrivalTime: "13:40",
			JourneyDate: tomorrow, TotalSeats: 60, AvailableSeats: 60, Price: 980,
		},
	}

	for _, train := range trains {
		var existing model.Train
		err := db.Where(&model.Train{Number: train.Number}).
			Attrs(train).
			FirstOrCreate(&existing).Error
		if err != nil {
			log.Fatalf("failed to seed train %s: %v", train.Number, err)
		}
		log.Printf("train %s %q ready (id=%d)", existing.Number, existing.Name, existing.ID)
	}
}
