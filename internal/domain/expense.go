package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseCategory groups expenses for analytics.
type ExpenseCategory string

const (
	ExpenseFood       ExpenseCategory = "food"
	ExpenseTransport  ExpenseCategory = "transport"
	ExpenseLodging    ExpenseCategory = "lodging"
	ExpenseActivities ExpenseCategory = "activities"
	ExpenseShopping   ExpenseCategory = "shopping"
	ExpenseOther      ExpenseCategory = "other"
)

// Valid reports whether c is one of the known expense categories.
func (c ExpenseCategory) Valid() bool {
	switch c {
	case ExpenseFood, ExpenseTransport, ExpenseLodging, ExpenseActivities, ExpenseShopping, ExpenseOther:
		return true
	}
	return false
}

// Expense is money spent during a trip. It relates to a DayPlan only through
// its Date. Currency is an upper-case ISO 4217 code.
type Expense struct {
	ID          uuid.UUID
	TripID      uuid.UUID
	Description string
	Amount      decimal.Decimal
	Currency    string
	Category    ExpenseCategory
	Date        time.Time
	City        string
	Country     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
