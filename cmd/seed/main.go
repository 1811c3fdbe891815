package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"assetrail/internal/database"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type seedUser struct {
	address       string
	accountNumber string
	holdings      []database.HoldingEntry
}

func main() {
	godotenv.Load()
	dbURL := os.Getenv("POSTGRES_URL")
	if dbURL == "" {
		log.Fatal("POSTGRES_URL is required")
	}

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer db.Close()

	company := database.Company{
		Address:       envOr("COMPANY_ADDRESS", "0x1312c13BdBa3edFDD89706Fc47653B0ded6C7b42"),
		AccountNumber: envOr("CUSTODY_ACCOUNT_NUMBER", "CUSTODY001"),
	}
	repo := database.New(db, logrus.New(), company)

	users := []seedUser{
		{
			address:       "0x47C51d53D8B03062a308887a5f49ad9Ab0eA9688",
			accountNumber: "DEMAT001234567",
			holdings: []database.HoldingEntry{
				holding("INR-SGB", "Sovereign Gold Bonds", 1000, 1000000),
				holding("INR-CORP", "Corporate Bonds", 500, 500000),
				holding("INR-MFD", "Mutual Fund Units", 750, 750000),
			},
		},
		{
			address:       "0xb87d7543E47cD48c2987A3Ab545Da1ddE6c18A7c",
			accountNumber: "DEMAT007654321",
			holdings: []database.HoldingEntry{
				holding("INR-SGB", "Sovereign Gold Bonds", 800, 800000),
				holding("INR-CORP", "Corporate Bonds", 1200, 1200000),
				holding("INR-MFD", "Mutual Fund Units", 600, 600000),
			},
		},
	}

	ctx := context.Background()
	for _, u := range users {
		if err := repo.EnsureUserAccount(ctx, u.address, u.accountNumber); err != nil {
			log.Fatalf("ensure account for %s: %v", u.address, err)
		}
		for _, h := range u.holdings {
			if err := repo.SeedHolding(ctx, u.address, h); err != nil {
				log.Fatalf("seed holding %s for %s: %v", h.AssetSymbol, u.address, err)
			}
		}
		fmt.Printf("Seeded demat holdings for %s (%d assets)\n", u.address, len(u.holdings))
	}

	if err := repo.EnsureCustodyAccount(ctx); err != nil {
		log.Fatalf("ensure custody account: %v", err)
	}
	fmt.Printf("Seeded custody account %s for %s\n", company.AccountNumber, company.Address)
}

func holding(symbol, name string, quantity, valueINR int64) database.HoldingEntry {
	return database.HoldingEntry{
		AssetSymbol: symbol,
		AssetName:   name,
		Quantity:    decimal.NewFromInt(quantity),
		ValueInINR:  decimal.NewFromInt(valueINR),
		Status:      database.HoldingStatusActive,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
