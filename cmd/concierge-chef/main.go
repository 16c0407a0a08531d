package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"concierge-chef/internal/app"
	"concierge-chef/internal/clipper"
	"concierge-chef/internal/config"
	"concierge-chef/internal/database"
	"concierge-chef/internal/export"
	"concierge-chef/internal/ingredient"
	"concierge-chef/internal/llm"
	"concierge-chef/internal/pantry"
	"concierge-chef/internal/recipe"
	"concierge-chef/internal/scheduler"
	"concierge-chef/internal/telegram"
)

func main() {
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

	recipeClipper, closeLLM := newClipper(ctx, cfg)
	if closeLLM != nil {
		defer closeLLM()
	}

	application := app.NewApp(cfg, db, recipeClipper)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "plan":
		planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
		user := planCmd.String("user", "default", "Household identifier")
		week := planCmd.String("week", "", "Week start date (YYYY-MM-DD, a Monday); defaults to next Monday")
		planCmd.Parse(os.Args[2:])

		weekStart, err := resolveWeekStart(*week)
		if err != nil {
			log.Fatalf("Invalid -week value: %v", err)
		}

		plan, err := application.PlanWeek(ctx, *user, weekStart)
		if err != nil {
			log.Fatalf("Planning failed: %v", err)
		}
		fmt.Print(telegram.FormatPlan(plan))
		fmt.Print(telegram.FormatReminders(scheduler.Reminders(plan, time.Local)))
	case "clip":
		clipCmd := flag.NewFlagSet("clip", flag.ExitOnError)
		clipCmd.Parse(os.Args[2:])
		if clipCmd.NArg() < 1 {
			log.Fatal("Usage: concierge-chef clip <url>")
		}
		if err := cfg.RequireLLM(); err != nil {
			log.Fatalf("Recipe import unavailable: %v", err)
		}

		rec, err := application.ImportRecipe(ctx, clipCmd.Arg(0))
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		fmt.Printf("Imported %q (%s) with %d ingredients.\n", rec.Title, rec.ID, len(rec.Requirements))
	case "load-recipes":
		loadCmd := flag.NewFlagSet("load-recipes", flag.ExitOnError)
		dir := loadCmd.String("dir", "data/recipes", "Directory of recipe JSON files")
		loadCmd.Parse(os.Args[2:])

		if err := loadRecipes(ctx, application, *dir); err != nil {
			log.Fatalf("Recipe load failed: %v", err)
		}
	case "pantry-add":
		addCmd := flag.NewFlagSet("pantry-add", flag.ExitOnError)
		user := addCmd.String("user", "default", "Household identifier")
		name := addCmd.String("name", "", "Ingredient name")
		amount := addCmd.Float64("amount", 0, "Quantity on hand")
		unit := addCmd.String("unit", "", "Unit of measure (g, ml, cup, piece, ...)")
		category := addCmd.String("category", string(ingredient.CategoryOther), "Ingredient category")
		price := addCmd.Float64("price", 0, "Reference price per base unit")
		addCmd.Parse(os.Args[2:])

		if *name == "" || *unit == "" {
			log.Fatal("Usage: concierge-chef pantry-add -name <name> -amount <n> -unit <unit>")
		}

		u := ingredient.NormalizeUnit(ingredient.Unit(*unit))
		entry := pantry.Entry{
			Ingredient: ingredient.Ingredient{
				Name:      *name,
				Unit:      u,
				Category:  ingredient.Category(*category),
				UnitPrice: *price,
			},
			Quantity: ingredient.Quantity{Amount: *amount, Unit: u},
		}
		if err := application.PantryRepo().Upsert(ctx, *user, entry); err != nil {
			log.Fatalf("Pantry update failed: %v", err)
		}
		fmt.Printf("Recorded %.2f %s of %s.\n", *amount, *unit, *name)
	case "pantry":
		listCmd := flag.NewFlagSet("pantry", flag.ExitOnError)
		user := listCmd.String("user", "default", "Household identifier")
		listCmd.Parse(os.Args[2:])

		entries, err := application.PantryRepo().List(ctx, *user)
		if err != nil {
			log.Fatalf("Pantry lookup failed: %v", err)
		}
		fmt.Print(telegram.FormatPantry(entries))
	case "history":
		histCmd := flag.NewFlagSet("history", flag.ExitOnError)
		user := histCmd.String("user", "default", "Household identifier")
		limit := histCmd.Int("limit", 4, "Number of plans to show")
		histCmd.Parse(os.Args[2:])

		plans, err := application.PlanHistory(ctx, *user, *limit)
		if err != nil {
			log.Fatalf("History lookup failed: %v", err)
		}
		if len(plans) == 0 {
			fmt.Println("No stored plans.")
		}
		for _, p := range plans {
			fmt.Printf("Week of %s: %d dinners, estimated total %.2f\n",
				p.Plan.WeekStart.Format("2006-01-02"), len(p.Plan.Slots), p.Plan.TotalCost)
			list, err := application.ShoppingListFor(ctx, p.ID)
			if err != nil {
				log.Fatalf("Shopping list lookup failed: %v", err)
			}
			if list != nil {
				fmt.Printf("  shopping: %d items, %.2f\n", len(list.Items), list.TotalCost)
			}
		}
	case "stats":
		statsCmd := flag.NewFlagSet("stats", flag.ExitOnError)
		days := statsCmd.Int("days", 30, "Window in days")
		statsCmd.Parse(os.Args[2:])

		counts, err := application.DailyPlanCounts(ctx, *days)
		if err != nil {
			log.Fatalf("Stats lookup failed: %v", err)
		}
		if len(counts) == 0 {
			fmt.Println("No planning runs recorded.")
		}
		for _, c := range counts {
			fmt.Printf("%s: %d runs\n", c.Date, c.Runs)
		}
	case "mint-token":
		mintCmd := flag.NewFlagSet("mint-token", flag.ExitOnError)
		user := mintCmd.String("user", "default", "Household identifier")
		ttl := mintCmd.Duration("ttl", 24*time.Hour, "Token lifetime")
		mintCmd.Parse(os.Args[2:])

		if err := cfg.RequireExport(); err != nil {
			log.Fatalf("Cannot mint token: %v", err)
		}
		token, err := export.MintToken(cfg.ExportJWTSecret, *user, *ttl)
		if err != nil {
			log.Fatalf("Token minting failed: %v", err)
		}
		fmt.Println(token)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// newClipper builds the recipe clipper when an LLM provider is
// configured. Gemini wins when both keys are present.
func newClipper(ctx context.Context, cfg *config.Config) (*clipper.Clipper, func()) {
	switch {
	case cfg.GeminiAPIKey != "":
		gen, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini client: %v", err)
		}
		closeFn := func() {}
		if c, ok := gen.(llm.Closer); ok {
			closeFn = func() { c.Close() }
		}
		return clipper.NewClipper(gen), closeFn
	case cfg.GroqAPIKey != "":
		return clipper.NewClipper(llm.NewGroqClient(cfg)), nil
	default:
		return nil, nil
	}
}

func loadRecipes(ctx context.Context, application *app.App, dir string) error {
	store, err := recipe.NewFileStore(dir)
	if err != nil {
		return err
	}
	catalog, err := store.LoadCatalog()
	if err != nil {
		return err
	}
	for _, rec := range catalog.Recipes() {
		if err := application.RecipeRepo().Save(ctx, rec); err != nil {
			return fmt.Errorf("failed to store recipe %s: %w", rec.ID, err)
		}
	}
	fmt.Printf("Loaded %d recipes from %s.\n", catalog.Len(), dir)
	return nil
}

// resolveWeekStart parses an explicit Monday or picks the next one.
func resolveWeekStart(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
		days := (int(time.Monday) - int(day.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		return day.AddDate(0, 0, days), nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	if t.Weekday() != time.Monday {
		return time.Time{}, fmt.Errorf("%s is a %s, not a Monday", s, t.Weekday())
	}
	return t, nil
}

func printUsage() {
	fmt.Println("Usage: concierge-chef <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  plan         Generate next week's dinner plan and shopping list")
	fmt.Println("  clip         Import a recipe from a URL into the catalog")
	fmt.Println("  load-recipes Load recipe JSON files into the catalog")
	fmt.Println("  pantry-add   Record an ingredient quantity on hand")
	fmt.Println("  pantry       Show the pantry ledger")
	fmt.Println("  history      Show recent plans and their shopping lists")
	fmt.Println("  stats        Show planning runs per day")
	fmt.Println("  mint-token   Mint a bearer token for the export API")
}
