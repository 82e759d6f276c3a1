// Package main seeds the database with demo data for local development.
// It applies the schema, inserts a demo company directory and a set of
// exchange events, and prints a bcrypt hash for the demo API account.
package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"bottledays/internal/core/dates"
	"bottledays/internal/core/types"
	"bottledays/internal/domain/companies"
	"bottledays/internal/domain/events"
	"bottledays/internal/infrastructure/storage/postgres"
	"bottledays/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{Level: "info", Development: true})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect", "error", err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalw("failed to apply schema", "error", err)
	}
	log.Info("schema applied")

	companyRepo := postgres.NewCompanyRepo(pool)
	for _, c := range demoCompanies() {
		c := c
		if err := companyRepo.Create(ctx, &c); err != nil {
			log.Warnw("skipping company", "name", c.Name, "error", err)
			continue
		}
		log.Infow("company created", "name", c.Name)
	}

	eventRepo := postgres.NewEventRepo(pool)
	n, err := eventRepo.Insert(ctx, demoEvents())
	if err != nil {
		log.Fatalw("failed to insert events", "error", err)
	}
	log.Infow("events inserted", "count", n)

	// Demo account for API_ACCOUNTS.
	hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalw("failed to hash password", "error", err)
	}
	fmt.Printf("\nAPI_ACCOUNTS='demo:Demo User:%s'\n", hash)
	fmt.Println("password: demo1234")
}

func demoCompanies() []companies.Company {
	return []companies.Company{
		{Name: "Gastro Pol Sp. z o.o.", TaxID: "525-000-77-38"},
		{Name: "Restauracja U Stefana", TaxID: "113-23-45-678"},
		{Name: "Hotel Bursztyn", TaxID: "9462648517"},
	}
}

func mkEvent(company, taxID, product, date, doc, delivered, returned, before, after string) events.Event {
	issueDate, err := dates.Parse(date)
	if err != nil {
		panic(err)
	}
	return events.Event{
		Company:        company,
		TaxID:          events.NormalizeTaxID(taxID),
		Product:        product,
		DocumentNumber: events.NormalizeDocumentNumber(doc),
		IssueDate:      issueDate,
		DateValid:      true,
		QtyDelivered:   types.MustQuantity(delivered),
		QtyReturned:    types.MustQuantity(returned),
		StockBefore:    types.MustQuantity(before),
		StockAfter:     types.MustQuantity(after),
	}
}

func demoEvents() []events.Event {
	return []events.Event{
		mkEvent("Gastro Pol Sp. z o.o.", "525-000-77-38", "Butla 11kg", "02.01.2026", "FVS/12/2026", "6", "0", "4", "10"),
		mkEvent("Gastro Pol Sp. z o.o.", "525-000-77-38", "Butla 11kg", "19.01.2026", "FVS/58/2026", "0", "4", "10", "6"),
		mkEvent("Gastro Pol Sp. z o.o.", "525-000-77-38", "Butla 33kg", "02.01.2026", "FVS/12/2026", "2", "0", "0", "2"),
		mkEvent("Restauracja U Stefana", "", "Butla 11kg", "05.01.2026", "FUS/7/2026", "3", "1", "2", "4"),
		mkEvent("Restauracja U Stefana", "", "Butla 11kg", "12.02.2026", "FVS/71/2026", "2", "2", "4", "4"),
		mkEvent("Hotel Bursztyn", "9462648517", "Butla 33kg", "10.01.2026", "FVS/31/2026", "5", "0", "1", "6"),
	}
}
