package main

import (
	"context"
	"flag"
	"log"
	"time"

	"familytracker/internal/config"
	"familytracker/internal/database"
	"familytracker/internal/repository"
	"familytracker/internal/service"
)

// The digest job emails every family a summary of the previous calendar
// month. Run it once shortly after the start of each month, or with -loop to
// keep a single process resident that fires on the first of each month.
func main() {
	loop := flag.Bool("loop", false, "keep running and send digests on the 1st of each month")
	flag.Parse()

	cfg := config.Load()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	familyRepo := repository.NewFamilyRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	if !emailService.IsEnabled() {
		log.Println("Warning: email service is disabled, digests will be computed but not sent")
	}

	digestService := service.NewDigestService(familyRepo, expenseRepo, emailService)

	runOnce(digestService)

	if !*loop {
		return
	}

	for {
		time.Sleep(untilNextRun(time.Now()))
		runOnce(digestService)
	}
}

func runOnce(digestService *service.DigestService) {
	now := time.Now()
	year, month := previousMonth(now.Year(), int(now.Month()))

	log.Printf("Running monthly digest for %d-%02d", year, month)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	summary, err := digestService.RunMonthlyDigest(ctx, year, month)
	if err != nil {
		log.Printf("Digest run failed: %v", err)
		return
	}

	log.Printf("Digest run complete: %d families, %d emails sent, %d failed",
		summary.TotalFamilies, summary.SuccessfulEmails, summary.FailedEmails)
	for _, r := range summary.Results {
		if !r.Success {
			log.Printf("  family %d (%s): %s", r.FamilyID, r.FamilyName, r.Error)
		}
	}
}

func previousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// untilNextRun returns the duration until 06:00 on the 1st of the next month.
func untilNextRun(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month()+1, 1, 6, 0, 0, 0, now.Location())
	return next.Sub(now)
}
