package main

import (
	"context"
	"fmt"
	"time"

	"github.com/opencampus/admission-backend/internal/config"
	"github.com/opencampus/admission-backend/internal/database"
	"github.com/opencampus/admission-backend/internal/logger"
	"github.com/opencampus/admission-backend/internal/model"
	"github.com/opencampus/admission-backend/internal/repository"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	venueRepo := repository.NewVenueRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	applicantRepo := repository.NewApplicantRepository(pool)

	fmt.Println("=== Seeding Demo Data ===")

	venues := []model.Venue{
		{Name: "Main Hall", Capacity: 200, IsActive: true},
		{Name: "Lecture Theatre B", Capacity: 120, IsActive: true},
		{Name: "Computer Lab 1", Capacity: 40, IsActive: true},
		{Name: "Old Gymnasium", Capacity: 300, IsActive: false},
	}
	for i := range venues {
		if err := venueRepo.Create(ctx, &venues[i]); err != nil {
			fmt.Printf("Error creating venue %s: %v\n", venues[i].Name, err)
		} else {
			fmt.Printf("Created venue %s (ID: %d)\n", venues[i].Name, venues[i].ID)
		}
	}

	courses := []model.Course{
		{Code: "CS101", Name: "Computer Science", TotalCapacity: 60},
		{Code: "EE201", Name: "Electrical Engineering", TotalCapacity: 45},
		{Code: "BA110", Name: "Business Administration", TotalCapacity: 80},
		{Code: "MD100", Name: "Medicine", TotalCapacity: 30},
	}
	for i := range courses {
		if err := courseRepo.Create(ctx, &courses[i]); err != nil {
			fmt.Printf("Error creating course %s: %v\n", courses[i].Code, err)
		} else {
			fmt.Printf("Created course %s (ID: %d)\n", courses[i].Code, courses[i].ID)
		}
	}

	firstNames := []string{
		"Budi", "Siti", "Andi", "Rina", "Joko",
		"Ayu", "Dodi", "Eka", "Fahri", "Gita",
		"Hendra", "Ika", "Jamal", "Kiki", "Lukman",
		"Maya", "Nanda", "Oki", "Putri", "Qori",
		"Rafi", "Siska", "Toni", "Umi", "Vina",
		"Wahyu", "Xena", "Yudi", "Zaki", "Alifia",
		"Bagas", "Citra", "Dimas", "Elisa", "Fikri",
		"Gali", "Hani", "Iqbal", "Jasmine", "Kevin",
	}
	lastNames := []string{
		"Santoso", "Aminah", "Pratama", "Wati", "Susilo",
		"Lestari", "Kusuma", "Putri", "Hamzah", "Savitri",
		"Gunawan", "Sari", "Mirdad", "Fatmala", "Hakim",
		"Septiana", "Wijaya", "Setiana", "Dian", "Maharani",
		"Ahmad", "Saraswati", "Setiawan", "Kalsum", "Panduwinata",
		"Hidayat", "Anjani", "Saputra", "Anwar", "Zahra",
		"Nugroho", "Kirana", "Anggara", "Novita", "Maulana",
		"Rakasiwi", "Hanifah", "Ramadhan", "Azzahra", "Sanjaya",
	}

	successCount := 0
	for i := 0; i < len(firstNames); i++ {
		applicant := &model.Applicant{
			ApplicantNo: fmt.Sprintf("APP-%04d", i+1),
			FirstName:   firstNames[i],
			LastName:    lastNames[i],
			Email:       fmt.Sprintf("applicant%d@example.com", i+1),
			Phone:       fmt.Sprintf("+62812%07d", i+1),
			Status:      model.StatusSubmitted,
		}

		if err := applicantRepo.Create(ctx, applicant); err != nil {
			fmt.Printf("Error creating applicant %s: %v\n", applicant.ApplicantNo, err)
		} else {
			successCount++
			if (i+1)%10 == 0 {
				fmt.Printf("Created %d applicants...\n", i+1)
			}
		}
	}

	fmt.Printf("\nSeed completed! Added %d venues, %d courses, %d/%d applicants.\n",
		len(venues), len(courses), successCount, len(firstNames))
}
