package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
	"github.com/DeborahScali/travelapp-sub000/internal/repo"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// ExpenseService implements business logic for Expense operations.
type ExpenseService struct {
	trips    repo.TripRepo
	expenses repo.ExpenseRepo
}

// NewExpenseService constructs an ExpenseService backed by the provided repos.
func NewExpenseService(trips repo.TripRepo, expenses repo.ExpenseRepo) *ExpenseService {
	return &ExpenseService{trips: trips, expenses: expenses}
}

// Create validates the expense, verifies the parent trip, then persists.
// Returns domain.ErrValidation if input violates business rules.
// Returns domain.ErrNotFound if the trip does not belong to the user.
func (s *ExpenseService) Create(ctx context.Context, userID string, e domain.Expense) (domain.Expense, error) {
	if _, err := s.trips.GetByID(ctx, userID, e.TripID); err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}
	e = normalizeExpense(e)
	if err := validateExpense(e); err != nil {
		return domain.Expense{}, err
	}
	e.ID = uuid.New()
	created, err := s.expenses.Save(ctx, userID, e)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single expense of the trip.
func (s *ExpenseService) GetByID(ctx context.Context, userID string, tripID, id uuid.UUID) (domain.Expense, error) {
	e, err := s.expenses.GetByID(ctx, userID, tripID, id)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.GetByID: %w", err)
	}
	return e, nil
}

// List returns one page of the trip's expenses ordered by date.
func (s *ExpenseService) List(ctx context.Context, userID string, tripID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Expense], error) {
	if _, err := s.trips.GetByID(ctx, userID, tripID); err != nil {
		return domain.Page[domain.Expense]{}, fmt.Errorf("service.ExpenseService.List: %w", err)
	}
	items, total, err := s.expenses.ListByTripPaged(ctx, userID, tripID, p)
	if err != nil {
		return domain.Page[domain.Expense]{}, fmt.Errorf("service.ExpenseService.List: %w", err)
	}
	if items == nil {
		items = []domain.Expense{}
	}
	return domain.Page[domain.Expense]{Items: items, Total: total, PaginationParams: p}, nil
}

// Update validates and replaces an existing expense.
func (s *ExpenseService) Update(ctx context.Context, userID string, e domain.Expense) (domain.Expense, error) {
	e = normalizeExpense(e)
	if err := validateExpense(e); err != nil {
		return domain.Expense{}, err
	}
	if _, err := s.expenses.GetByID(ctx, userID, e.TripID, e.ID); err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Update: %w", err)
	}
	updated, err := s.expenses.Save(ctx, userID, e)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes an expense of the trip.
func (s *ExpenseService) Delete(ctx context.Context, userID string, tripID, id uuid.UUID) error {
	if err := s.expenses.Delete(ctx, userID, tripID, id); err != nil {
		return fmt.Errorf("service.ExpenseService.Delete: %w", err)
	}
	return nil
}

func normalizeExpense(e domain.Expense) domain.Expense {
	e.Description = strings.TrimSpace(e.Description)
	e.Currency = strings.ToUpper(strings.TrimSpace(e.Currency))
	e.City = strings.TrimSpace(e.City)
	e.Country = strings.TrimSpace(e.Country)
	e.Amount = e.Amount.Round(2)
	e.Date = domain.DateOf(e.Date)
	if e.Category == "" {
		e.Category = domain.ExpenseOther
	}
	return e
}

// validateExpense enforces business rules common to both Create and Update.
//   - Description must be non-empty.
//   - Amount must be positive.
//   - Currency must be a three-letter ISO 4217 code.
//   - Category must be known and the date set.
func validateExpense(e domain.Expense) error {
	if e.Description == "" {
		return fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	if !e.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", domain.ErrValidation)
	}
	if !currencyPattern.MatchString(e.Currency) {
		return fmt.Errorf("%w: currency must be a three-letter ISO 4217 code", domain.ErrValidation)
	}
	if !e.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", domain.ErrValidation, e.Category)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	return nil
}
