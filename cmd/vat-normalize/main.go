// cmd/vat-normalize/main.go
//
// One-shot maintenance tool that finds sales recorded with VAT-inclusive
// amounts and rewrites them to net figures. Dry-run by default; pass --yes
// to commit.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/motoventas/crm_backend/config"
	"github.com/motoventas/crm_backend/repositories"
	"github.com/motoventas/crm_backend/services"
)

func main() {
	yes := flag.Bool("yes", false, "Commit the corrections. Without this flag the tool only lists candidates.")
	sprint := flag.String("sprint", "", "Optional: restrict to one sprint (YYYY-MM). Empty scans all sales.")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "warning: .env file not found")
	}

	logger := config.GetLogger()
	client := config.ConnectDB()
	db := client.Database(config.DatabaseName())

	store := repositories.NewMongoStore(db)
	vat := services.NewVATService(store, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	candidates, err := vat.Candidates(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to scan for candidates: %v\n", err)
		os.Exit(1)
	}

	if *sprint != "" {
		filtered := candidates[:0]
		for _, cand := range candidates {
			if cand.Sprint == *sprint {
				filtered = append(filtered, cand)
			}
		}
		candidates = filtered
	}

	if len(candidates) == 0 {
		fmt.Println("no VAT-inclusive amounts found")
		return
	}

	fmt.Printf("%-26s %-8s %-24s %14s %14s\n", "SALE", "SPRINT", "MODEL", "AMOUNT", "CORRECTED")
	ids := make([]primitive.ObjectID, 0, len(candidates))
	for _, cand := range candidates {
		fmt.Printf("%-26s %-8s %-24s %14s %14s\n",
			cand.SaleID.Hex(), cand.Sprint, cand.MotorcycleModel,
			cand.Amount.String(), cand.CorrectedAmount.String())
		ids = append(ids, cand.SaleID)
	}

	if !*yes {
		fmt.Printf("\n%d candidate(s). Re-run with --yes to commit.\n", len(candidates))
		return
	}

	corrected, err := vat.Normalize(ctx, ids)
	if err != nil {
		fmt.Fprintf(os.Stderr, "normalization aborted, no amounts were changed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\ncorrected %d sale(s)\n", corrected)
}
