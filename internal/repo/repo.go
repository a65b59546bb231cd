// Package repo contains all persistence logic for the travel planner.
// Each resource has its own file with an interface and a Postgres
// implementation; memory.go holds the in-memory implementation of the same
// interfaces. No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"math/big"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// db is the minimal interface satisfied by *pgxpool.Pool, *pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool lets integration tests
// pass a transaction that is rolled back after each test. Begin on a pgx.Tx
// opens a savepoint, so ReplaceAll stays atomic in both cases.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repos bundles one implementation of every repository.
type Repos struct {
	Trips    TripRepo
	DayPlans DayPlanRepo
	Expenses ExpenseRepo
	Flights  FlightRepo
}

// NewPostgres returns Postgres-backed repositories sharing db.
func NewPostgres(db db) Repos {
	return Repos{
		Trips:    NewTripRepo(db),
		DayPlans: NewDayPlanRepo(db),
		Expenses: NewExpenseRepo(db),
		Flights:  NewFlightRepo(db),
	}
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

func numericFrom(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func optionalNumericFrom(d *decimal.Decimal) pgtype.Numeric {
	if d == nil {
		return pgtype.Numeric{}
	}
	return numericFrom(*d)
}

func decimalFrom(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(new(big.Int).Set(n.Int), n.Exp)
}

func optionalDecimalFrom(n pgtype.Numeric) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := decimalFrom(n)
	return &d
}
