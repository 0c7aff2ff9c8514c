package mealplan

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	plandb "mealgen/internal/mealplan/plan_db"
)

// Repository is a database-backed repository for meal plans.
type Repository struct {
	queries *plandb.Queries
	db      *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: plandb.New(d),
		db:      d,
	}
}

// Save inserts a new meal plan and returns it with its assigned ID.
func (r *Repository) Save(ctx context.Context, plan MealPlan) (*MealPlan, error) {
	params := plandb.InsertMealPlanParams{
		UserID:    plan.UserID,
		Title:     sql.NullString{String: plan.Title, Valid: plan.Title != ""},
		PlanJson:  plan.PlanJSON,
		CreatedAt: time.Now().UTC(),
	}
	if plan.StartDate != nil {
		params.StartDate = sql.NullTime{Time: *plan.StartDate, Valid: true}
	}
	if plan.EndDate != nil {
		params.EndDate = sql.NullTime{Time: *plan.EndDate, Valid: true}
	}

	id, err := r.queries.InsertMealPlan(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to insert meal plan: %w", err)
	}

	saved := plan
	saved.ID = id
	saved.CreatedAt = params.CreatedAt
	return &saved, nil
}

// GetByIDAndUser retrieves one of the user's meal plans.
func (r *Repository) GetByIDAndUser(ctx context.Context, id int64, userID string) (*MealPlan, error) {
	row, err := r.queries.GetMealPlanByIDAndUser(ctx, plandb.GetMealPlanByIDAndUserParams{
		ID:     id,
		UserID: userID,
	})
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get meal plan %d: %w", id, err)
	}

	plan := fromRow(row)
	return &plan, nil
}

// ListByUser retrieves all of a user's meal plans, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]MealPlan, error) {
	rows, err := r.queries.ListMealPlansByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans for user %s: %w", userID, err)
	}

	plans := make([]MealPlan, 0, len(rows))
	for _, row := range rows {
		plans = append(plans, fromRow(row))
	}
	return plans, nil
}

// DeleteByIDAndUser deletes one of the user's meal plans.
func (r *Repository) DeleteByIDAndUser(ctx context.Context, id int64, userID string) error {
	deleted, err := r.queries.DeleteMealPlanByIDAndUser(ctx, plandb.DeleteMealPlanByIDAndUserParams{
		ID:     id,
		UserID: userID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete meal plan %d: %w", id, err)
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

func fromRow(row plandb.Mealplan) MealPlan {
	plan := MealPlan{
		ID:        row.ID,
		UserID:    row.UserID,
		Title:     row.Title.String,
		PlanJSON:  row.PlanJson,
		CreatedAt: row.CreatedAt,
	}
	if row.StartDate.Valid {
		start := row.StartDate.Time
		plan.StartDate = &start
	}
	if row.EndDate.Valid {
		end := row.EndDate.Time
		plan.EndDate = &end
	}
	return plan
}
