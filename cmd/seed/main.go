package main

import (
	"context"
	"log"
	"time"

	"attendance_tracker_go/config"
	"attendance_tracker_go/db"
	"attendance_tracker_go/models"
	"attendance_tracker_go/services"
)

func main() {
	cfg := config.Load()

	if err := db.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.Batch{}, &models.Student{}, &models.AttendanceRecord{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	log.Println("Seeding demo batches, students and attendance...")
	if err := services.SeedDemoData(ctx, db.DB, time.Now()); err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}
	log.Println("Done")
}
