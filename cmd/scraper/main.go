package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"dininghub/internal/scraper"
	"dininghub/internal/store"
	"dininghub/pkg/database"
	"dininghub/pkg/utils"
)

func main() {
	local := flag.Bool("local", false, "write to the local sqlite database instead of the remote store")
	flag.Parse()

	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var st store.Store
	if *local {
		cfg := database.DefaultConfig()
		db := database.MustOpen(cfg)
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			log.Fatalf("db migrate failed: %v", err)
		}
		st = store.NewSQLite(db)
		log.Printf("[scraper] writing to local db at %s", cfg.Path)
	} else {
		cfg, err := utils.LoadStoreConfig()
		if err != nil {
			log.Fatalf("store config: %v", err)
		}
		st = store.NewSupabase(cfg)
	}

	runner := scraper.NewRunner(st, scraper.DefaultHalls())
	sum := runner.Run(ctx)

	for hall, n := range sum.Results {
		log.Printf("[scraper] %s: %d menu items", hall, n)
	}
	for hall, msg := range sum.Errors {
		log.Printf("[scraper] %s failed: %s", hall, msg)
	}

	out, _ := json.Marshal(sum)
	fmt.Println(string(out))
}
