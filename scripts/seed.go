package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/appointly/appointly-api/internal/adapters/database"
	"github.com/appointly/appointly-api/internal/adapters/search"
	"github.com/appointly/appointly-api/internal/domain/entities"
	"github.com/appointly/appointly-api/internal/infrastructure/clients/postgres"
	"github.com/appointly/appointly-api/internal/infrastructure/clients/typesense"
	"github.com/appointly/appointly-api/internal/scheduling"
	"github.com/appointly/appointly-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	var searchAdapter *search.TypesenseAdapter
	if err == nil {
		searchAdapter = search.NewTypesenseAdapter(tsClient)
		searchAdapter.InitSchema(context.Background())
	}

	providerRepo := database.NewProviderAdapter(pgClient)
	serviceRepo := database.NewServiceAdapter(pgClient)
	scheduleRepo := database.NewScheduleAdapter(pgClient)

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				appointment_notifications,
				audit_records,
				appointments,
				working_hours,
				services,
				providers
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	now := time.Now()

	providers := []entities.Provider{
		{
			ID:                 uuid.New().String(),
			OwnerID:            uuid.New().String(),
			Name:               "Sharp Cuts Barbershop",
			Description:        "Classic and modern cuts in the heart of Yaba",
			Category:           "barber",
			Address:            "23 Herbert Macaulay Way, Yaba, Lagos",
			Phone:              "0801-234-5678",
			SlotInterval:       30,
			BookingWindowWeeks: 4,
			CancellationHours:  24,
			Rating:             4.6,
			ReviewCount:        212,
			IsActive:           true,
			CreatedAt:          now,
			UpdatedAt:          now,
		},
		{
			ID:                 uuid.New().String(),
			OwnerID:            uuid.New().String(),
			Name:               "Bella Beauty Salon",
			Description:        "Braids, weaves and natural hair care",
			Category:           "salon",
			Address:            "14 Admiralty Way, Lekki Phase 1, Lagos",
			Phone:              "0802-345-6789",
			SlotInterval:       60,
			BookingWindowWeeks: 6,
			CancellationHours:  48,
			Rating:             4.8,
			ReviewCount:        340,
			IsActive:           true,
			CreatedAt:          now,
			UpdatedAt:          now,
		},
		{
			ID:                 uuid.New().String(),
			OwnerID:            uuid.New().String(),
			Name:               "BrightSmile Dental Clinic",
			Description:        "Family dentistry, cleaning and whitening",
			Category:           "dentist",
			Address:            "5 Aminu Kano Crescent, Wuse 2, Abuja",
			Phone:              "0803-456-7890",
			SlotInterval:       30,
			BookingWindowWeeks: 8,
			CancellationHours:  24,
			Rating:             4.5,
			ReviewCount:        128,
			IsActive:           true,
			CreatedAt:          now,
			UpdatedAt:          now,
		},
		{
			ID:                 uuid.New().String(),
			OwnerID:            uuid.New().String(),
			Name:               "AquaShine Car Wash",
			Description:        "Exterior, interior and engine detailing",
			Category:           "carwash",
			Address:            "Plot 7, Acme Road, Ogba, Lagos",
			Phone:              "0804-567-8901",
			SlotInterval:       15,
			BookingWindowWeeks: 2,
			CancellationHours:  2,
			Rating:             4.1,
			ReviewCount:        76,
			IsActive:           true,
			CreatedAt:          now,
			UpdatedAt:          now,
		},
	}

	servicesByCategory := map[string][][3]interface{}{
		"barber":  {{"Haircut", 30, 3500.0}, {"Beard Trim", 15, 1500.0}, {"Hot Towel Shave", 30, 2500.0}},
		"salon":   {{"Box Braids", 180, 15000.0}, {"Wash and Set", 60, 5000.0}, {"Hair Treatment", 60, 8000.0}},
		"dentist": {{"Dental Cleaning", 45, 20000.0}, {"Checkup", 30, 10000.0}, {"Whitening", 60, 45000.0}},
		"carwash": {{"Exterior Wash", 30, 2000.0}, {"Full Detailing", 90, 12000.0}, {"Engine Wash", 45, 5000.0}},
	}

	for i := range providers {
		p := providers[i]
		if err := providerRepo.Create(ctx, &p); err != nil {
			log.Printf("Failed to create provider %s: %v", p.Name, err)
			continue
		}
		if searchAdapter != nil {
			if err := searchAdapter.IndexProvider(ctx, &p); err != nil {
				log.Printf("Failed to index provider %s: %v", p.Name, err)
			}
		}

		for _, row := range servicesByCategory[p.Category] {
			svc := entities.Service{
				ID:              uuid.New().String(),
				ProviderID:      p.ID,
				Name:            row[0].(string),
				Description:     fmt.Sprintf("%s at %s", row[0].(string), p.Name),
				DurationMinutes: row[1].(int),
				Price:           row[2].(float64),
				IsActive:        true,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := serviceRepo.Create(ctx, &svc); err != nil {
				log.Printf("Failed to create service %s for %s: %v", svc.Name, p.Name, err)
			}
		}

		// Open the next 14 days, weekdays only
		for d := 0; d < 14; d++ {
			day := scheduling.DayOf(now.AddDate(0, 0, d))
			if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
				continue
			}
			hours := entities.WorkingHours{
				ID:         uuid.New().String(),
				ProviderID: p.ID,
				Date:       day,
				OpenTime:   "09:00",
				CloseTime:  "18:00",
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := scheduleRepo.Create(ctx, &hours); err != nil {
				log.Printf("Failed to create schedule for %s on %s: %v", p.Name, scheduling.ISODate(day), err)
			}
		}
	}

	log.Println("Seeding completed successfully")
}
