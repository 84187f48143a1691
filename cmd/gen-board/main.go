// Command gen-board creates a demo pin board with a logistic inspection model
// and a labeled dataset, for local dashboard development.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/harbor-data/model.report/internal/board"
)

func main() {
	output := flag.String("o", "model_report.db", "output board path")
	flag.Parse()

	b, err := board.Open(*output)
	if err != nil {
		log.Fatalf("failed to open board: %v", err)
	}
	defer b.Close()

	ctx := context.Background()
	if err := board.SeedDemo(ctx, b, time.Now()); err != nil {
		log.Fatalf("failed to seed board: %v", err)
	}

	for _, name := range []string{board.DemoModelPin, board.DemoDatasetPin} {
		versions, err := b.Versions(ctx, name)
		if err != nil {
			log.Fatalf("failed to list %s versions: %v", name, err)
		}
		log.Printf("pinned %s version %s", name, versions[0].Version)
	}
	log.Printf("✓ Created: %s", *output)
}
