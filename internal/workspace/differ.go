package workspace

import (
	"reflect"

	"github.com/google/uuid"
	"github.com/r3labs/diff/v3"
	"github.com/shopspring/decimal"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
)

var (
	uuidType    = reflect.TypeOf(uuid.UUID{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

// newPlanDiffer returns a differ that compares plan lists position by
// position and treats ids and money amounts as leaf values.
func newPlanDiffer() *diff.Differ {
	d, err := diff.NewDiffer(
		diff.SliceOrdering(true),
		diff.CustomValueDiffers(
			&leafComparer{typ: uuidType, equal: func(a, b any) bool {
				return a.(uuid.UUID) == b.(uuid.UUID)
			}},
			&leafComparer{typ: decimalType, equal: func(a, b any) bool {
				return a.(decimal.Decimal).Equal(b.(decimal.Decimal))
			}},
		),
	)
	if err != nil {
		panic(err)
	}
	return d
}

// plansChanged reports whether b differs from a in any stored field.
func plansChanged(d *diff.Differ, a, b []domain.DayPlan) (bool, error) {
	cl, err := d.Diff(a, b)
	if err != nil {
		return true, err
	}
	return len(cl) > 0, nil
}

// leafComparer compares values of one type as a whole instead of walking
// their internals (uuid bytes, decimal's unexported big.Int).
type leafComparer struct {
	typ   reflect.Type
	equal func(a, b any) bool
}

func (c *leafComparer) Match(a, b reflect.Value) bool {
	aok := a.IsValid() && a.Type() == c.typ
	bok := b.IsValid() && b.Type() == c.typ
	return (aok && bok) || (!a.IsValid() && bok) || (!b.IsValid() && aok)
}

func (c *leafComparer) Diff(_ diff.DiffType, _ diff.DiffFunc, cl *diff.Changelog, path []string, a, b reflect.Value, _ interface{}) error {
	switch {
	case !a.IsValid() && !b.IsValid():
		return nil
	case !a.IsValid():
		cl.Add(diff.CREATE, path, nil, b.Interface())
		return nil
	case !b.IsValid():
		cl.Add(diff.DELETE, path, a.Interface(), nil)
		return nil
	}
	if !c.equal(a.Interface(), b.Interface()) {
		cl.Add(diff.UPDATE, path, a.Interface(), b.Interface())
	}
	return nil
}

// InsertParentDiffer is a no-op: both types are leaves.
func (c *leafComparer) InsertParentDiffer(_ func(path []string, a, b reflect.Value, p interface{}) error) {
}
