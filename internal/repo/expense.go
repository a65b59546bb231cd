package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
)

// ExpenseRepo defines the persistence operations for Expenses.
// Every method is scoped to a trip owned by the given user.
type ExpenseRepo interface {
	// ListByTrip returns all expenses of the trip ordered by date, then creation.
	ListByTrip(ctx context.Context, userID string, tripID uuid.UUID) ([]domain.Expense, error)

	// ListByTripPaged returns one page of ListByTrip and the total count.
	ListByTripPaged(ctx context.Context, userID string, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Expense, int64, error)

	// GetByID returns domain.ErrNotFound when the expense is not in the trip.
	GetByID(ctx context.Context, userID string, tripID, id uuid.UUID) (domain.Expense, error)

	// Save upserts the expense by ID. Returns domain.ErrNotFound when the
	// trip does not belong to the user.
	Save(ctx context.Context, userID string, e domain.Expense) (domain.Expense, error)

	Delete(ctx context.Context, userID string, tripID, id uuid.UUID) error
}

type pgExpenseRepo struct {
	db db
}

// NewExpenseRepo constructs an ExpenseRepo backed by the provided db connection.
func NewExpenseRepo(db db) ExpenseRepo {
	return &pgExpenseRepo{db: db}
}

const expenseColumns = `e.id, e.trip_id, e.description, e.amount, e.currency, e.category, e.expense_date, e.city, e.country, e.created_at, e.updated_at`

func (r *pgExpenseRepo) ListByTrip(ctx context.Context, userID string, tripID uuid.UUID) ([]domain.Expense, error) {
	const q = `
		SELECT ` + expenseColumns + `
		FROM expenses e
		JOIN trips t ON t.id = e.trip_id
		WHERE e.trip_id = @trip_id AND t.user_id = @user_id
		ORDER BY e.expense_date, e.created_at`

	out, err := r.query(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.ListByTrip: %w", err)
	}
	return out, nil
}

func (r *pgExpenseRepo) ListByTripPaged(ctx context.Context, userID string, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Expense, int64, error) {
	const count = `
		SELECT count(*)
		FROM expenses e
		JOIN trips t ON t.id = e.trip_id
		WHERE e.trip_id = @trip_id AND t.user_id = @user_id`
	const q = `
		SELECT ` + expenseColumns + `
		FROM expenses e
		JOIN trips t ON t.id = e.trip_id
		WHERE e.trip_id = @trip_id AND t.user_id = @user_id
		ORDER BY e.expense_date, e.created_at
		LIMIT @limit OFFSET @offset`

	args := pgx.NamedArgs{"trip_id": tripID, "user_id": userID, "limit": p.Limit, "offset": p.Offset()}

	var total int64
	if err := r.db.QueryRow(ctx, count, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.ExpenseRepo.ListByTripPaged: count: %w", err)
	}
	out, err := r.query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ExpenseRepo.ListByTripPaged: %w", err)
	}
	return out, total, nil
}

func (r *pgExpenseRepo) GetByID(ctx context.Context, userID string, tripID, id uuid.UUID) (domain.Expense, error) {
	const q = `
		SELECT ` + expenseColumns + `
		FROM expenses e
		JOIN trips t ON t.id = e.trip_id
		WHERE e.id = @id AND e.trip_id = @trip_id AND t.user_id = @user_id`

	e, err := scanExpense(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "trip_id": tripID, "user_id": userID}))
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.GetByID: %w", err)
	}
	return e, nil
}

func (r *pgExpenseRepo) Save(ctx context.Context, userID string, e domain.Expense) (domain.Expense, error) {
	const q = `
		WITH saved AS (
			INSERT INTO expenses (id, trip_id, description, amount, currency, category, expense_date, city, country)
			SELECT @id, t.id, @description, @amount, @currency, @category, @expense_date, @city, @country
			FROM trips t
			WHERE t.id = @trip_id AND t.user_id = @user_id
			ON CONFLICT (id) DO UPDATE
			SET description  = EXCLUDED.description,
			    amount       = EXCLUDED.amount,
			    currency     = EXCLUDED.currency,
			    category     = EXCLUDED.category,
			    expense_date = EXCLUDED.expense_date,
			    city         = EXCLUDED.city,
			    country      = EXCLUDED.country,
			    updated_at   = now()
			WHERE expenses.trip_id = EXCLUDED.trip_id
			RETURNING *
		)
		SELECT ` + expenseColumns + ` FROM saved e`

	args := pgx.NamedArgs{
		"id":           e.ID,
		"trip_id":      e.TripID,
		"user_id":      userID,
		"description":  e.Description,
		"amount":       numericFrom(e.Amount),
		"currency":     e.Currency,
		"category":     string(e.Category),
		"expense_date": domain.DateOf(e.Date),
		"city":         e.City,
		"country":      e.Country,
	}

	saved, err := scanExpense(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Save: %w", err)
	}
	return saved, nil
}

func (r *pgExpenseRepo) Delete(ctx context.Context, userID string, tripID, id uuid.UUID) error {
	const q = `
		DELETE FROM expenses e
		USING trips t
		WHERE e.id = @id AND e.trip_id = @trip_id AND t.id = e.trip_id AND t.user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "trip_id": tripID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.ExpenseRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ExpenseRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgExpenseRepo) query(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Expense, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func scanExpense(s scanner) (domain.Expense, error) {
	var (
		e        domain.Expense
		id, trip pgtype.UUID
		amount   pgtype.Numeric
		date     pgtype.Date
		category string
	)
	err := s.Scan(&id, &trip, &e.Description, &amount, &e.Currency, &category, &date, &e.City, &e.Country, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Expense{}, domain.ErrNotFound
		}
		return domain.Expense{}, err
	}
	e.ID = uuid.UUID(id.Bytes)
	e.TripID = uuid.UUID(trip.Bytes)
	e.Amount = decimalFrom(amount)
	e.Category = domain.ExpenseCategory(category)
	e.Date = date.Time
	return e, nil
}
