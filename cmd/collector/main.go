package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"open-places/internal/collector"
	"open-places/internal/database"
	"open-places/internal/ingest"
	"open-places/internal/places"

	"github.com/joho/godotenv"
)

// southAmericaQueries is the built-in bulk collection list: hostels per
// major backpacker city, plus the big-ticket tour searches.
var southAmericaQueries = []string{
	// Peru
	"hostels cusco peru",
	"backpacker hostels lima peru",
	"budget hostels arequipa peru",
	"hostels huacachina peru",
	"hostels iquitos peru",

	// Colombia
	"hostels bogota colombia",
	"backpacker hostels medellin colombia",
	"hostels cartagena colombia",
	"hostels santa marta colombia",
	"hostels cali colombia",

	// Ecuador
	"hostels quito ecuador",
	"hostels guayaquil ecuador",
	"hostels banos ecuador",
	"hostels cuenca ecuador",

	// Bolivia
	"hostels la paz bolivia",
	"hostels sucre bolivia",
	"hostels cochabamba bolivia",
	"hostels uyuni bolivia",

	// Chile
	"hostels santiago chile",
	"hostels valparaiso chile",
	"hostels atacama chile",
	"hostels patagonia chile",

	// Argentina
	"hostels buenos aires argentina",
	"hostels mendoza argentina",
	"hostels bariloche argentina",
	"hostels salta argentina",

	// Brazil
	"hostels rio de janeiro brazil",
	"hostels sao paulo brazil",
	"hostels salvador brazil",
	"hostels florianopolis brazil",

	// Uruguay
	"hostels montevideo uruguay",
	"hostels punta del este uruguay",

	// Paraguay
	"hostels asuncion paraguay",

	// Activities & Attractions
	"tours machu picchu peru",
	"amazon tours colombia",
	"patagonia tours chile argentina",
	"galapagos tours ecuador",
	"wine tours mendoza argentina",
	"coffee tours colombia",
}

func main() {
	// Parse command line flags
	var query = flag.String("query", "", "Run a single ad hoc query instead of the built-in list")
	var limit = flag.Int("limit", 10, "Max results per query (provider caps at 20)")
	var strict = flag.Bool("strict", true, "Skip places that already exist instead of merging into them")
	var detailDelay = flag.Duration("detail-delay", 500*time.Millisecond, "Pause between per-place detail fetches")
	var queryDelay = flag.Duration("query-delay", time.Second, "Pause between queries")
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	placesKey := os.Getenv("GOOGLE_PLACES_KEY")
	if placesKey == "" {
		log.Fatal("GOOGLE_PLACES_KEY is not set")
	}

	// Connect to database
	dbConfig := database.LoadConfig()
	if err := database.Connect(dbConfig); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	mode := ingest.ModeUpsert
	if *strict {
		mode = ingest.ModeStrict
	}

	config := collector.Config{
		Limit:       *limit,
		DetailDelay: *detailDelay,
		QueryDelay:  *queryDelay,
		Mode:        mode,
	}

	placesClient := places.NewClient(os.Getenv("PLACES_BASE_URL"), placesKey)
	ingestService := ingest.NewService(database.DB)
	col := collector.New(placesClient, ingestService, config)

	queries := southAmericaQueries
	if *query != "" {
		queries = []string{*query}
	}

	stats, err := col.Run(context.Background(), queries)
	if err != nil {
		log.Fatal("Collection run aborted:", err)
	}

	log.Printf("📈 Total found: %d", stats.Found)
	log.Printf("💾 Total saved: %d", stats.Saved)
}
