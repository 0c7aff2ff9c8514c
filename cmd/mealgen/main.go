package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"mealgen/internal/aigen"
	"mealgen/internal/app"
	"mealgen/internal/catalog"
	"mealgen/internal/clipper"
	"mealgen/internal/config"
	"mealgen/internal/database"
	"mealgen/internal/llm"
	"mealgen/internal/mealplan"
	"mealgen/internal/metrics"
	"mealgen/internal/nutrition"
	"mealgen/internal/planner"
	"mealgen/internal/preferences"
	"mealgen/internal/rag"
	"mealgen/internal/shopping"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	catalogRepo := catalog.NewRepository(db.SQL)
	nutritionRepo := nutrition.NewRepository(db.SQL)
	prefsRepo := preferences.NewRepository(db.SQL)
	planRepo := mealplan.NewRepository(db.SQL)
	vectorRepo := llm.NewVectorRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	textGen, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	if closer, ok := textGen.(llm.Closer); ok {
		defer closer.Close()
	}

	baseEmbedder, err := llm.NewGeminiEmbedder(ctx, cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini embedder: %v", err)
	}
	if closer, ok := baseEmbedder.(llm.Closer); ok {
		defer closer.Close()
	}
	embedGen := llm.NewCachedEmbeddingGenerator(baseEmbedder, db.SQL)

	// AI plans come from the remote generation service when one is
	// configured, otherwise from the in-process generator.
	var delegate rag.Client
	if cfg.RagBaseURL != "" {
		delegate = rag.NewClient(cfg)
	} else {
		delegate = app.NewRecordedGenerator(
			aigen.NewGenerator(catalogRepo, vectorRepo, embedGen, textGen),
			metricsStore,
		)
	}

	shopper := shopping.NewService(catalogRepo, nutritionRepo)
	mealSvc := mealplan.NewService(
		catalogRepo,
		prefsRepo,
		planRepo,
		planner.NewGenerator(planner.DefaultKeywords()),
		delegate,
		shopper,
	)
	productClipper := clipper.NewClipper(catalogRepo, nutritionRepo, textGen)

	application := app.NewApp(cfg, catalogRepo, nutritionRepo, prefsRepo, mealSvc, productClipper, vectorRepo, embedGen, metricsStore)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "plan":
		cmd := flag.NewFlagSet("plan", flag.ExitOnError)
		user := cmd.String("user", "default", "User ID")
		store := cmd.String("store", cfg.DefaultStore, "Store tag")
		days := cmd.Int("days", 7, "Number of days (1-14)")
		cmd.Parse(os.Args[2:])

		if err := application.GeneratePlan(ctx, *user, *store, *days); err != nil {
			log.Fatalf("Plan generation failed: %v", err)
		}
	case "ai-plan":
		cmd := flag.NewFlagSet("ai-plan", flag.ExitOnError)
		user := cmd.String("user", "default", "User ID")
		store := cmd.String("store", cfg.DefaultStore, "Store tag")
		days := cmd.Int("days", 7, "Number of days (1-14)")
		cmd.Parse(os.Args[2:])

		if err := application.GenerateAIPlan(ctx, *user, *store, *days); err != nil {
			log.Fatalf("AI plan generation failed: %v", err)
		}
	case "list":
		cmd := flag.NewFlagSet("list", flag.ExitOnError)
		user := cmd.String("user", "default", "User ID")
		cmd.Parse(os.Args[2:])

		if err := application.ListPlans(ctx, *user); err != nil {
			log.Fatalf("Listing plans failed: %v", err)
		}
	case "show":
		cmd := flag.NewFlagSet("show", flag.ExitOnError)
		user := cmd.String("user", "default", "User ID")
		id := cmd.Int64("id", 0, "Plan ID")
		cmd.Parse(os.Args[2:])

		if err := application.ShowPlan(ctx, *user, *id); err != nil {
			log.Fatalf("Showing plan failed: %v", err)
		}
	case "delete":
		cmd := flag.NewFlagSet("delete", flag.ExitOnError)
		user := cmd.String("user", "default", "User ID")
		id := cmd.Int64("id", 0, "Plan ID")
		cmd.Parse(os.Args[2:])

		if err := application.DeletePlan(ctx, *user, *id); err != nil {
			log.Fatalf("Deleting plan failed: %v", err)
		}
	case "shopping-list":
		cmd := flag.NewFlagSet("shopping-list", flag.ExitOnError)
		user := cmd.String("user", "default", "User ID")
		id := cmd.Int64("id", 0, "Plan ID")
		cmd.Parse(os.Args[2:])

		if err := application.ShoppingList(ctx, *user, *id); err != nil {
			log.Fatalf("Shopping list failed: %v", err)
		}
	case "prefs":
		cmd := flag.NewFlagSet("prefs", flag.ExitOnError)
		user := cmd.String("user", "default", "User ID")
		diet := cmd.String("diet", "", "Dietary restrictions, comma separated")
		allergies := cmd.String("allergies", "", "Allergies, comma separated")
		calories := cmd.Int64("calories", 0, "Target calories per day (0 for none)")
		set := cmd.Bool("set", false, "Save instead of show")
		cmd.Parse(os.Args[2:])

		if !*set {
			if err := application.ShowPreferences(ctx, *user); err != nil {
				log.Fatalf("Loading preferences failed: %v", err)
			}
			break
		}

		prefs := preferences.Preferences{
			UserID:              *user,
			DietaryRestrictions: *diet,
			Allergies:           *allergies,
		}
		if *calories > 0 {
			prefs.TargetCaloriesPerDay = calories
		}
		if err := application.SavePreferences(ctx, prefs); err != nil {
			log.Fatalf("Saving preferences failed: %v", err)
		}
	case "clip":
		cmd := flag.NewFlagSet("clip", flag.ExitOnError)
		store := cmd.String("store", cfg.DefaultStore, "Store tag")
		url := cmd.String("url", "", "Product page URL")
		cmd.Parse(os.Args[2:])

		if *url == "" {
			log.Fatal("clip requires -url")
		}
		if err := application.ClipProduct(ctx, *store, *url); err != nil {
			log.Fatalf("Clipping failed: %v", err)
		}
	case "import":
		cmd := flag.NewFlagSet("import", flag.ExitOnError)
		store := cmd.String("store", cfg.DefaultStore, "Store tag for entries without one")
		file := cmd.String("file", "", "Catalog export JSON file")
		cmd.Parse(os.Args[2:])

		if *file == "" {
			log.Fatal("import requires -file")
		}
		if err := application.ImportCatalog(ctx, *store, *file); err != nil {
			log.Fatalf("Import failed: %v", err)
		}
	case "backfill-embeddings":
		cmd := flag.NewFlagSet("backfill-embeddings", flag.ExitOnError)
		store := cmd.String("store", cfg.DefaultStore, "Store tag")
		limit := cmd.Int("limit", 200, "Maximum items to embed (0 for all)")
		cmd.Parse(os.Args[2:])

		if err := application.BackfillEmbeddings(ctx, *store, *limit); err != nil {
			log.Fatalf("Backfill failed: %v", err)
		}
	case "usage":
		cmd := flag.NewFlagSet("usage", flag.ExitOnError)
		days := cmd.Int("days", 7, "Days of usage to show")
		cmd.Parse(os.Args[2:])

		if err := application.Usage(ctx, *days); err != nil {
			log.Fatalf("Usage report failed: %v", err)
		}
	case "metrics-cleanup":
		cmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cmd.Int("days", 30, "Keep records for the last N days")
		cmd.Parse(os.Args[2:])

		if err := application.MetricsCleanup(ctx, *days); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: mealgen <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  plan                 Generate a deterministic meal plan")
	fmt.Println("  ai-plan              Generate a meal plan with the AI generator")
	fmt.Println("  list                 List saved plans")
	fmt.Println("  show                 Show a saved plan")
	fmt.Println("  delete               Delete a saved plan")
	fmt.Println("  shopping-list        Build the shopping list for a plan")
	fmt.Println("  prefs                Show or save dietary preferences")
	fmt.Println("  clip                 Import a product from a retailer page")
	fmt.Println("  import               Import a catalog export file")
	fmt.Println("  backfill-embeddings  Embed catalog items missing vectors")
	fmt.Println("  usage                Show token usage and process health")
	fmt.Println("  metrics-cleanup      Remove old metric records")
}
