package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"concierge-chef/internal/clipper"
	"concierge-chef/internal/config"
	"concierge-chef/internal/database"
	"concierge-chef/internal/ingredient"
	"concierge-chef/internal/metrics"
	"concierge-chef/internal/pantry"
	"concierge-chef/internal/planner"
	"concierge-chef/internal/profile"
	"concierge-chef/internal/recipe"
	"concierge-chef/internal/shopping"
)

// App wires the repositories around the planning engine. It loads the
// immutable snapshots a run needs, executes the run, and persists the
// resulting artifact; the engine itself stays free of I/O.
type App struct {
	cfg           *config.Config
	db            *database.DB
	recipeRepo    *recipe.Repository
	pantryRepo    *pantry.Repository
	profileRepo   *profile.Repository
	planRepo      *planner.PlanRepository
	shoppingRepo  *shopping.Repository
	metricsStore  *metrics.Store
	recipeClipper *clipper.Clipper
	rounding      ingredient.RoundingPolicy
}

// NewApp creates and initializes a new App instance. The clipper may be
// nil when no LLM provider is configured; recipe import is then
// unavailable.
func NewApp(cfg *config.Config, db *database.DB, recipeClipper *clipper.Clipper) *App {
	return &App{
		cfg:           cfg,
		db:            db,
		recipeRepo:    recipe.NewRepository(db.SQL),
		pantryRepo:    pantry.NewRepository(db.SQL),
		profileRepo:   profile.NewRepository(db.SQL),
		planRepo:      planner.NewPlanRepository(db.SQL),
		shoppingRepo:  shopping.NewRepository(db.SQL),
		metricsStore:  metrics.NewStore(db.SQL),
		recipeClipper: recipeClipper,
		rounding:      ingredient.DefaultRoundingPolicy(),
	}
}

// PlanRepo exposes the plan repository for the export server.
func (a *App) PlanRepo() *planner.PlanRepository {
	return a.planRepo
}

// RecipeRepo exposes the recipe repository for catalog maintenance.
func (a *App) RecipeRepo() *recipe.Repository {
	return a.recipeRepo
}

// PantryRepo exposes the pantry repository for front-end views.
func (a *App) PantryRepo() *pantry.Repository {
	return a.pantryRepo
}

// PlanWeek runs one planning cycle for a household: load snapshots, run
// the engine, persist the artifact and its shopping list, and record a
// run metric. The suggested recent-use update is applied through the
// profile repository as the owner-side action.
func (a *App) PlanWeek(ctx context.Context, userID string, weekStart time.Time) (*planner.WeeklyPlan, error) {
	start := time.Now()

	catalog, err := a.recipeRepo.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	ledger, err := a.pantryRepo.LoadLedger(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pantry: %w", err)
	}
	prof, err := a.profileRepo.Get(ctx, userID, a.cfg.DefaultServings)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	plan, err := planner.RunWeeklyPlan(catalog, ledger, prof, planner.Options{
		Rounding:  a.rounding,
		WeekStart: weekStart,
	})
	if err != nil {
		return nil, err
	}

	planID, err := a.planRepo.Save(ctx, userID, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to store plan: %w", err)
	}
	list := shopping.Result{Items: plan.ShoppingList, TotalCost: plan.TotalCost}
	if _, err := a.shoppingRepo.Save(ctx, userID, planID, list); err != nil {
		return nil, fmt.Errorf("failed to store shopping list: %w", err)
	}

	if err := a.profileRepo.ApplyRecentUse(ctx, userID, plan.SuggestedRecentIDs, a.cfg.DefaultServings); err != nil {
		log.Printf("[app] failed to apply recent-use update for %s: %v", userID, err)
	}

	metric := metrics.PlanRunMetric{
		UserID:           userID,
		Duration:         time.Since(start),
		EligibleCount:    len(planner.Eligible(catalog, prof)),
		DegradationCount: len(plan.Degradations),
		TotalCost:        plan.TotalCost,
	}
	if err := a.metricsStore.RecordPlanRun(ctx, metric); err != nil {
		log.Printf("[app] failed to record plan metric for %s: %v", userID, err)
	}

	return plan, nil
}

// PlanHistory returns a household's most recent stored plans.
func (a *App) PlanHistory(ctx context.Context, userID string, limit int) ([]planner.StoredPlan, error) {
	return a.planRepo.ListRecent(ctx, userID, limit)
}

// ShoppingListFor returns the stored shopping list of a plan, or nil
// when none was stored.
func (a *App) ShoppingListFor(ctx context.Context, planID int64) (*shopping.Result, error) {
	return a.shoppingRepo.GetByMealPlanID(ctx, planID)
}

// DailyPlanCounts reports planning activity over the last N days.
func (a *App) DailyPlanCounts(ctx context.Context, days int) ([]metrics.DailyPlanCount, error) {
	return a.metricsStore.GetDailyPlanCounts(ctx, days)
}

// ImportRecipe clips a recipe URL into the catalog.
func (a *App) ImportRecipe(ctx context.Context, url string) (*recipe.Recipe, error) {
	if a.recipeClipper == nil {
		return nil, fmt.Errorf("recipe import requires an LLM provider key")
	}

	rec, meta, err := a.recipeClipper.ClipURL(ctx, url)
	if recordErr := a.metricsStore.RecordAgentMeta(ctx, meta); recordErr != nil {
		log.Printf("[app] failed to record llm metric: %v", recordErr)
	}
	if err != nil {
		return nil, err
	}

	if err := a.recipeRepo.Save(ctx, *rec); err != nil {
		return nil, fmt.Errorf("failed to store imported recipe: %w", err)
	}
	log.Printf("[app] imported recipe %q (%s)", rec.Title, rec.ID)
	return rec, nil
}
